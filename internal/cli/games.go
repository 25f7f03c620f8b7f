package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gameportal/portal-go/internal/model"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Game catalog and your per-game records",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesMineCmd())
	cmd.AddCommand(newGamesWinRateCmd())
	cmd.AddCommand(newGamesStatsCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the game catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			games, err := client.Games(cmd.Context(), datasync.Session().Token)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(games)
			return nil
		},
	}
}

func newGamesMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "Show your per-game aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			games, err := client.PlayerGames(cmd.Context(), datasync.Session().Token)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(games)
			return nil
		},
	}
}

func newGamesWinRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winrate <game-id>",
		Short: "Show your win rate for one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			gameID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			rate, err := datasync.GameWinRate(cmd.Context(), gameID)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Win rate: %.2f%%", rate))
			return nil
		},
	}
}

func newGamesStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your overall player statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			stats, err := client.PlayerStats(cmd.Context(), datasync.Session().Token)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(stats)
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match recording",
	}

	cmd.AddCommand(newMatchRecordCmd())
	return cmd
}

func newMatchRecordCmd() *cobra.Command {
	var (
		gameID   int64
		playtime float64
		win      bool
		loss     bool
		score    int64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a match result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}
			if win == loss {
				return fmt.Errorf("exactly one of --win or --loss is required")
			}

			return datasync.RecordMatch(cmd.Context(), model.Match{
				GameID:   gameID,
				Playtime: playtime,
				IsWin:    win,
				Score:    score,
			})
		},
	}

	cmd.Flags().Int64Var(&gameID, "game", 0, "Game id (required)")
	cmd.Flags().Float64Var(&playtime, "playtime", 0, "Playtime in hours (required)")
	cmd.Flags().BoolVar(&win, "win", false, "The match was won")
	cmd.Flags().BoolVar(&loss, "loss", false, "The match was lost")
	cmd.Flags().Int64Var(&score, "score", 0, "Score achieved (required)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("playtime")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
