package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewCommandCommand() *cobra.Command {
	commandCmd := &cobra.Command{
		Use:     "command <command...>",
		Aliases: []string{"cmd", "exec"},
		Short:   "Execute a command on the game server",
		Long: `Execute a command on the game server through the bridge daemon.

The arguments are joined into a single command string, so quoting is only
needed for shell metacharacters.

Examples:
  minebridge command list
  minebridge command say Server restarting in 5 minutes
  minebridge command whitelist add Player1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Command(strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(result)
			return nil
		},
	}
	commandCmd.Flags().String("server", "", "bridge daemon base URL (defaults to the configured listen address)")

	return commandCmd
}
