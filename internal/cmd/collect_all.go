package cmd

import (
	"github.com/spf13/cobra"
)

var collectAllCmd = &cobra.Command{
	Use:   "collect_all",
	Short: "Print combined logs of all active server instances",
	Long: `Print the combined logs of every active server instance.

Instances are listed in ascending name order, each introduced by a header
line, with one blank line between consecutive instances. Produces no
output when the session does not exist. Read-only: nothing is mutated.`,
	RunE: runCollectAll,
}

func init() {
	rootCmd.AddCommand(collectAllCmd)
}

func runCollectAll(cmd *cobra.Command, args []string) error {
	ctl, err := newController()
	if err != nil {
		return err
	}
	return ctl.CollectAll()
}
