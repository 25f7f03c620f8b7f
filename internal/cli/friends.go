package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Friends system commands",
	}

	cmd.AddCommand(newFriendsListCmd())
	cmd.AddCommand(newFriendsRequestsCmd())
	cmd.AddCommand(newFriendsRequestCmd())
	cmd.AddCommand(newFriendsAcceptCmd())
	cmd.AddCommand(newFriendsRemoveCmd())

	return cmd
}

func newFriendsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			friends, err := client.Friends(cmd.Context(), datasync.Session().Token)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(friends)
			return nil
		},
	}
}

func newFriendsRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List pending incoming friend requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			reqs, err := client.FriendRequests(cmd.Context(), datasync.Session().Token)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(reqs)
			return nil
		},
	}
}

func newFriendsRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <player-id>",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			return datasync.SendFriendRequest(cmd.Context(), id)
		},
	}
}

func newFriendsAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <player-id>",
		Short: "Accept a pending friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			return datasync.AcceptFriendRequest(cmd.Context(), id)
		},
	}
}

func newFriendsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <player-id>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			return datasync.RemoveFriend(cmd.Context(), id)
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search players by username or email",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			// Friend state feeds the is-friend/pending flags on results.
			datasync.RefreshFriendState(cmd.Context())

			term := strings.Join(args, " ")
			if err := datasync.Search(cmd.Context(), term); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(datasync.View().SearchResults)
			return nil
		},
	}
}

func parsePlayerID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid player id %q", arg)
	}
	return id, nil
}
