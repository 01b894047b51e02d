package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avolkov/srvman/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of all instances",
	Long: `Show every known instance: windows of the live tmux session merged with
instance directories on disk.

An instance with a directory but no window was terminated outside of
srvman; 'stop' reports that state as an error, this command only makes
it visible.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctl, err := newController()
	if err != nil {
		return err
	}
	statuses, err := ctl.Status()
	if err != nil {
		return err
	}

	session := config.Get().Session

	fmt.Println(strings.Repeat("─", 56))
	fmt.Printf("Instances (session '%s')\n", session)
	fmt.Println(strings.Repeat("─", 56))

	if len(statuses) == 0 {
		fmt.Println("No instances found.")
		return nil
	}

	fmt.Printf("%-34s %-8s %-6s %s\n", "NAME", "WINDOW", "DIR", "LOG")
	for _, st := range statuses {
		window := "-"
		if st.HasWindow {
			window = "up"
		}
		dir := "-"
		logSize := "-"
		if st.HasDir {
			dir = "yes"
			logSize = fmt.Sprintf("%dB", st.LogBytes)
		}
		fmt.Printf("%-34s %-8s %-6s %s\n", st.Name, window, dir, logSize)
		if st.HasDir && !st.HasWindow {
			fmt.Printf("  warning: directory present but window gone; 'stop' will fail until cleaned up\n")
		}
	}
	return nil
}
