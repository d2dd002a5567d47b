package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewLogsCommand() *cobra.Command {
	var lines int

	logsCmd := &cobra.Command{
		Use:     "logs",
		Aliases: []string{"log"},
		Short:   "Show recent game server log lines",
		Long: `Show recent game server log lines, read fresh from the server log file by
the bridge daemon.

Examples:
  minebridge logs          # last 10 lines
  minebridge logs -L 50    # last 50 lines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}

			logs, err := client.Logs(lines)
			if err != nil {
				return err
			}

			fmt.Println(logs)
			return nil
		},
	}
	logsCmd.Flags().IntVarP(&lines, "lines", "L", 10, "number of log lines to show (1-100)")
	logsCmd.Flags().String("server", "", "bridge daemon base URL (defaults to the configured listen address)")

	return logsCmd
}
