package cli

import (
	"github.com/spf13/cobra"

	"github.com/gameportal/portal-go/internal/viewstate"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your stats and counts at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			datasync.SetSection(viewstate.SectionDashboard)
			datasync.BulkRefresh(cmd.Context())

			NewOutput(cfg.Output).Print(datasync.View())
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your combined profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			profile, err := datasync.Profile(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(profile)
			return nil
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	var gameID int64

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show earned achievements, or one game's achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if gameID != 0 {
				achievements, err := datasync.GameAchievements(cmd.Context(), gameID)
				if err != nil {
					return err
				}
				out.Print(achievements)
				return nil
			}

			achievements, err := datasync.Achievements(cmd.Context())
			if err != nil {
				return err
			}
			out.Print(achievements)
			return nil
		},
	}

	cmd.Flags().Int64Var(&gameID, "game", 0, "Show a single game's achievements")

	return cmd
}
