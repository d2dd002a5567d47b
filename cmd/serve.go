package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minebridge/minebridge/internal/bridge"
	"github.com/minebridge/minebridge/internal/core"
	"github.com/minebridge/minebridge/internal/keyring"
)

func NewServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"daemon"},
		Short:   "Run the bridge daemon",
		Long: `Run the bridge daemon.

Connects to the Minecraft server over RCON, watches the server log file for
noteworthy lines, and serves the authenticated HTTP API until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := core.Config

			// Fill secrets from the keyring when config and env left them empty
			if cfg.RCON.Password == "" {
				password, err := keyring.GetSecret(keyring.RCONPasswordKey)
				if err != nil {
					slog.Debug("Keyring lookup failed", "name", keyring.RCONPasswordKey, "error", err)
				}
				cfg.RCON.Password = password
			}
			if cfg.SecretToken == "" {
				token, err := keyring.GetSecret(keyring.SecretTokenKey)
				if err != nil {
					slog.Debug("Keyring lookup failed", "name", keyring.SecretTokenKey, "error", err)
				}
				cfg.SecretToken = token
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			b, err := bridge.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("Starting minebridge", "version", core.FormatVersion(core.Version))
			return b.Run(ctx)
		},
	}

	return serveCmd
}
