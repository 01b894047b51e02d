// Package config defines the srvman configuration, its defaults, and its
// validation. Values are resolved by viper from (in order of precedence)
// command-line environment (SRVMAN_* variables), a config file, and the
// defaults set here.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete srvman configuration.
type Config struct {
	// Session is the name of the shared tmux session hosting all instance
	// windows. Threaded everywhere as configuration so independent
	// deployments (and tests) can use distinct sessions.
	Session string `mapstructure:"session" yaml:"session"`
	// Artifact is the server artifact filename expected in the working
	// directory and staged into each instance directory.
	Artifact string `mapstructure:"artifact" yaml:"artifact"`
	// LogFile is the per-instance captured output filename.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	Backup  BackupConfig  `mapstructure:"backup" yaml:"backup"`
	Tmux    TmuxConfig    `mapstructure:"tmux" yaml:"tmux"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// BackupConfig controls the log archive.
type BackupConfig struct {
	// Dir is the backup directory, created lazily on first archival.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Compress gzips archived logs. Off by default: archived content then
	// byte-equals the captured output.
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// TmuxConfig controls how the external tmux binary is invoked.
type TmuxConfig struct {
	// Socket is an optional tmux socket name (-L). Empty uses the default
	// socket of the invoking user.
	Socket string `mapstructure:"socket" yaml:"socket"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	// Level is the minimum level for JSON diagnostics on stderr:
	// debug, info, warn, or error.
	Level string `mapstructure:"level" yaml:"level"`
}

// SetDefaults registers default values with viper. Must run before the
// config file is read so defaults survive a missing file.
func SetDefaults() {
	viper.SetDefault("session", "srvman")
	viper.SetDefault("artifact", "miniweb")
	viper.SetDefault("log_file", "out.log")
	viper.SetDefault("backup.dir", ".backup")
	viper.SetDefault("backup.compress", false)
	viper.SetDefault("tmux.socket", "")
	viper.SetDefault("logging.level", "warn")
}

// Get returns the current configuration unmarshaled from viper.
// Defaults cover any field missing from the config sources.
func Get() *Config {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		// Unmarshal only fails on type mismatches; fall back to defaults
		// rather than crash a read-only command.
		return defaultConfig()
	}
	return &cfg
}

func defaultConfig() *Config {
	return &Config{
		Session:  "srvman",
		Artifact: "miniweb",
		LogFile:  "out.log",
		Backup:   BackupConfig{Dir: ".backup"},
		Logging:  LoggingConfig{Level: "warn"},
	}
}

// ConfigDir returns the directory holding the user's config file.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".srvman"
	}
	return filepath.Join(home, ".config", "srvman")
}

// ConfigFile returns the path of the user's config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
