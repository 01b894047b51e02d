package cmd

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new server instance",
	Long: `Start a new named server instance on the given port.

The server artifact is copied from the current directory into a fresh
working directory named after the instance, and launched in a tmux window
of the shared session with its output captured into the instance's log
file. The session is created if it does not exist yet.`,
	RunE: runStart,
}

var (
	startName string
	startPort string
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startName, "name", "", "unique instance name [a-z]{1,32}")
	startCmd.Flags().StringVar(&startPort, "port", "", "port to bind the web server")
	_ = startCmd.MarkFlagRequired("name")
	_ = startCmd.MarkFlagRequired("port")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctl, err := newController()
	if err != nil {
		return err
	}
	return ctl.Start(startName, startPort)
}
