package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minebridge/minebridge/internal/keyring"
)

func NewPasswordCommand() *cobra.Command {
	passwordCmd := &cobra.Command{
		Use:     "password",
		Aliases: []string{"passwd", "pass", "secret"},
		Short:   "Manage bridge secrets in the system keyring",
		Long: `Store, delete, and list bridge secrets. Secrets are stored securely in the
system keyring (Keychain on macOS, Secret Service on Linux).

Known secret names:
  rcon-password  RCON password for the game server
  secret-token   Shared secret for the HTTP API`,
	}

	setCmd := &cobra.Command{
		Use:       "set <name>",
		Short:     "Store a secret",
		Args:      cobra.ExactArgs(1),
		ValidArgs: keyring.KnownSecrets,
		Run: func(cmd *cobra.Command, args []string) {
			name := args[0]

			value, err := keyring.PromptAndConfirmSecret(name)
			if err != nil {
				slog.Error(fmt.Sprintf("Failed to read secret: %v", err))
				os.Exit(1)
			}

			if err := keyring.SetSecret(name, value); err != nil {
				slog.Error(fmt.Sprintf("Failed to store secret: %v", err))
				os.Exit(1)
			}

			slog.Info(fmt.Sprintf("Secret stored securely for '%s'", name))
		},
	}

	deleteCmd := &cobra.Command{
		Use:       "delete <name>",
		Aliases:   []string{"del", "remove", "rm"},
		Short:     "Delete a stored secret",
		Args:      cobra.ExactArgs(1),
		ValidArgs: keyring.KnownSecrets,
		Run: func(cmd *cobra.Command, args []string) {
			name := args[0]

			if err := keyring.DeleteSecret(name); err != nil {
				slog.Error(fmt.Sprintf("Failed to delete secret: %v", err))
				os.Exit(1)
			}

			slog.Info(fmt.Sprintf("Secret deleted for '%s'", name))
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored bridge secrets",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			stored := []string{}
			for _, name := range keyring.KnownSecrets {
				if keyring.HasSecret(name) {
					stored = append(stored, name)
				}
			}

			if len(stored) == 0 {
				slog.Info("No stored secrets found")
				return
			}

			fmt.Println("Stored secrets:")
			for _, name := range stored {
				fmt.Printf("  - %s\n", name)
			}
		},
	}

	passwordCmd.AddCommand(setCmd, deleteCmd, listCmd)
	return passwordCmd
}
