package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/minebridge/minebridge/internal/api"
	"github.com/minebridge/minebridge/internal/core"
	"github.com/minebridge/minebridge/internal/keyring"
)

func NewRootCommand() *cobra.Command {
	var configPath string
	var verbose int

	homeDir, _ := os.UserHomeDir()

	rootCmd := &cobra.Command{
		Use:          "minebridge",
		Short:        "Minebridge - Minecraft server bridge",
		Long:         `Minebridge relays commands and status between a chat front end and a Minecraft server over RCON, and pushes noteworthy log lines to a webhook.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config-path", filepath.Join(homeDir, core.BaseDirName),
		"config path",
	)
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "more output, repeat for even more")

	rootCmd.AddCommand(
		NewServeCommand(),
		NewCommandCommand(),
		NewLogsCommand(),
		NewStatusCommand(),
		NewPasswordCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}

// initializeConfig loads the config file, applies flag and environment
// overrides, and installs the default logger.
func initializeConfig(cmd *cobra.Command) error {
	configPath, err := cmd.Flags().GetString("config-path")
	if err != nil {
		return fmt.Errorf("unable to determine config path: %w", err)
	}

	cfg, err := core.LoadConfig(core.ConfigFilePath(configPath))
	if err != nil {
		return err
	}

	if verbose, err := cmd.Flags().GetCount("verbose"); err == nil && verbose > cfg.Verbose {
		cfg.Verbose = verbose
	}
	core.Config = cfg

	setupLogging(cfg.Verbose)
	return nil
}

func setupLogging(verbose int) {
	level := slog.LevelInfo
	if verbose > 0 {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})
	slog.SetDefault(slog.New(handler))
}

// serverBaseURL derives the client base URL from the daemon's listen address
func serverBaseURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// newAPIClient builds a client for the bridge daemon from the --server flag,
// the configured listen address, and the secret token (config, env, or
// keyring).
func newAPIClient(cmd *cobra.Command) (*api.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = serverBaseURL(core.Config.Listen)
	}

	token := core.Config.SecretToken
	if token == "" {
		stored, err := keyring.GetSecret(keyring.SecretTokenKey)
		if err != nil {
			slog.Debug("Keyring lookup failed", "error", err)
		}
		token = stored
	}
	if token == "" {
		return nil, fmt.Errorf("no secret token configured (config file, MINEBRIDGE_SECRET_TOKEN, or keyring)")
	}

	return api.NewClient(server, token), nil
}
