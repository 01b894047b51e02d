package cmd

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running server instance",
	Long: `Stop one running server instance.

The instance's tmux window is killed, its captured output is moved into
the backup directory under a timestamped name (an empty placeholder is
created when no output exists), and its working directory is removed.`,
	RunE: runStop,
}

var stopName string

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().StringVar(&stopName, "name", "", "name of the instance to stop [a-z]{1,32}")
	_ = stopCmd.MarkFlagRequired("name")
}

func runStop(cmd *cobra.Command, args []string) error {
	ctl, err := newController()
	if err != nil {
		return err
	}
	return ctl.Stop(stopName)
}
