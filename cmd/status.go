package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func NewStatusCommand() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show bridge and game server connectivity status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.Status()
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "text":
				fmt.Println("Bridge status:")
				fmt.Printf("  - RCON connection: %s\n", onOff(status.RconConnected, "connected", "disconnected"))
				fmt.Printf("  - Log watcher:     %s\n", onOff(status.LogWatcherActive, "active", "inactive"))
				fmt.Printf("  - Bridge:          PID %d, up %s\n", status.Bridge.PID, status.Bridge.Uptime)
			case "json":
				jsonBytes, _ := json.Marshal(status)
				fmt.Println(string(jsonBytes))
			default:
				slog.Error("unknown format")
				os.Exit(1)
			}
			return nil
		},
	}
	statusCmd.Flags().StringP("format", "F", "text", "Format to use (text/json)")
	statusCmd.Flags().String("server", "", "bridge daemon base URL (defaults to the configured listen address)")

	return statusCmd
}

func onOff(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
