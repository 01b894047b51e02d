package cmd

import (
	"github.com/spf13/cobra"
)

var stopAllCmd = &cobra.Command{
	Use:   "stop_all",
	Short: "Stop all running server instances",
	Long: `Stop every server instance.

The shared tmux session is killed, then every instance directory in the
current working directory is archived into the backup directory and
removed. Instances whose windows already died are archived too.`,
	RunE: runStopAll,
}

func init() {
	rootCmd.AddCommand(stopAllCmd)
}

func runStopAll(cmd *cobra.Command, args []string) error {
	ctl, err := newController()
	if err != nil {
		return err
	}
	return ctl.StopAll()
}
