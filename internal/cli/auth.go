package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			if err := datasync.Login(cmd.Context(), user, pass); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(datasync.Session())
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newSignupCmd() *cobra.Command {
	var user, email, pass string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new portal account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || email == "" || pass == "" {
				return fmt.Errorf("--user, --email, and --pass are required")
			}

			return datasync.Signup(cmd.Context(), user, email, pass)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			datasync.Logout()
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(datasync.Session().Player)
			return nil
		},
	}
}
