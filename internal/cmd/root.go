// Package cmd wires the srvman command-line interface: one subcommand per
// lifecycle operation, dispatching into the lifecycle controller. Every
// failure surfaces as a single message on stderr and a uniform non-zero
// exit status from main.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avolkov/srvman/internal/config"
	"github.com/avolkov/srvman/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "srvman",
	Short: "Manage local web server instances in a shared tmux session",
	Long: `srvman manages the lifecycle of multiple named instances of the miniweb
server, each running in its own window of a shared tmux session with its
own working directory. Captured output is archived into a backup directory
when an instance is stopped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return errors.New("no command specified")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/srvman/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SRVMAN")
	// Replace dots with underscores for nested keys in env vars,
	// e.g. SRVMAN_BACKUP_COMPRESS for backup.compress
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
