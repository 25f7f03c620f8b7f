package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gameportal/portal-go/internal/credstore"
	"github.com/gameportal/portal-go/internal/model"
	"github.com/gameportal/portal-go/internal/portal"
	"github.com/gameportal/portal-go/internal/syncer"
)

var (
	cfg      *Config
	client   *portal.Client
	datasync *syncer.Syncer
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "CLI for the Game Player Portal",
		Long: `portal is a CLI for the Game Player Portal JSON API.

It covers authentication, per-player game statistics, match recording,
character management, and the friends system. Login once and the
session is reused across invocations until you log out.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			client = portal.NewClient(cfg.ServerURL, logger)
			store := credstore.NewFileStore(cfg.SessionFile)
			datasync = syncer.New(client, store, syncer.Config{
				Logger:   logger,
				Notifier: &printNotifier{out: NewOutput(cfg.Output)},
				Confirm:  terminalConfirm(cmd.InOrStdin()),
			})
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PORTAL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Session file path (env: PORTAL_SESSION_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&cfg.AssumeYes, "yes", "y", cfg.AssumeYes, "Assume yes for confirmation prompts")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newCharacterCmd())
	rootCmd.AddCommand(newFriendsCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		NewOutput("text").PrintError(err)
		os.Exit(1)
	}
}

// requireSession restores the persisted session or fails the command.
func requireSession() error {
	if !datasync.Restore() {
		return fmt.Errorf("%w (run 'portal login')", model.ErrNoSession)
	}
	return nil
}

// printNotifier prints action outcomes. Successes go to stdout;
// errors are left to the command's returned error so each action
// surfaces exactly one message.
type printNotifier struct {
	out *Output
}

func (n *printNotifier) Success(msg string) {
	n.out.PrintMessage(msg)
}

func (n *printNotifier) Error(string) {}

// terminalConfirm prompts for a y/N answer, honoring --yes.
func terminalConfirm(in io.Reader) syncer.Confirm {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		if cfg.AssumeYes {
			return true
		}
		fmt.Printf("%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
