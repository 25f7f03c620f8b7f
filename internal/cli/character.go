package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Character management commands",
	}

	cmd.AddCommand(newCharacterListCmd())
	cmd.AddCommand(newCharacterCreateCmd())
	cmd.AddCommand(newCharacterUpdateCmd())
	cmd.AddCommand(newCharacterDeleteCmd())

	return cmd
}

func newCharacterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			chars, err := client.Characters(cmd.Context(), datasync.Session().Token)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(chars)
			return nil
		},
	}
}

func newCharacterCreateCmd() *cobra.Command {
	var name string
	var level int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new character",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			return datasync.CreateCharacter(cmd.Context(), name, level)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Character name (required)")
	cmd.Flags().IntVar(&level, "level", 1, "Starting level")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCharacterUpdateCmd() *cobra.Command {
	var name string
	var level int

	cmd := &cobra.Command{
		Use:   "update <character-id>",
		Short: "Update a character's name or level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid character id %q", args[0])
			}
			if name == "" && level == 0 {
				return fmt.Errorf("nothing to update: set --name and/or --level")
			}

			return datasync.UpdateCharacter(cmd.Context(), id, name, level)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New character name")
	cmd.Flags().IntVar(&level, "level", 0, "New character level")

	return cmd
}

func newCharacterDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <character-id>",
		Short: "Delete a character (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid character id %q", args[0])
			}

			return datasync.DeleteCharacter(cmd.Context(), id)
		},
	}
}
