package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minebridge/minebridge/internal/api"
	"github.com/minebridge/minebridge/internal/core"
)

func NewVersionCommand() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Long:  `Show version of both client and bridge daemon (if running)`,
		Run: func(cmd *cobra.Command, args []string) {
			clientVersion := core.Version
			clientFormatted := core.FormatVersion(clientVersion)
			fmt.Fprintf(os.Stderr, "Client version: %s\n", clientFormatted)

			server, _ := cmd.Flags().GetString("server")
			if server == "" {
				server = serverBaseURL(core.Config.Listen)
			}

			// The health endpoint is unauthenticated, so no token needed.
			client := api.NewClient(server, "")
			health, err := client.Health()
			if err != nil {
				fmt.Fprintln(os.Stderr, "Bridge: not running")
				return
			}

			bridgeFormatted := core.FormatVersion(health.Version)
			fmt.Fprintf(os.Stderr, "Bridge version: %s\n", bridgeFormatted)

			if clientVersion != health.Version {
				slog.Warn(fmt.Sprintf("Version mismatch! Client %s and bridge %s versions differ. Consider restarting the bridge.", clientFormatted, bridgeFormatted))
			}
		},
	}

	versionCmd.Flags().String("server", "", "Base URL of the bridge API server")

	return versionCmd
}
