package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/avolkov/srvman/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify srvman configuration",
	Long: `View or modify srvman configuration.

Without arguments, displays the current configuration.
Use subcommands to create a config file or locate it.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/srvman/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("# config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("# config file: (none - using defaults)\n")
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Print(string(out))

	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configContent := `# srvman configuration

# Name of the shared tmux session hosting all instance windows.
session: srvman

# Server artifact expected in the working directory and staged per instance.
artifact: miniweb

# Captured-output filename inside each instance directory.
log_file: out.log

backup:
  # Backup directory, created lazily on first archival.
  dir: .backup
  # Gzip archived logs.
  compress: false

tmux:
  # Optional tmux socket name (-L). Empty uses the default socket.
  socket: ""

logging:
  # Diagnostic log level on stderr: debug, info, warn, error.
  level: warn
`

	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}
