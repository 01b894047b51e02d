package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avolkov/srvman/internal/backup"
	"github.com/avolkov/srvman/internal/config"
	"github.com/avolkov/srvman/internal/instance"
	"github.com/avolkov/srvman/internal/lifecycle"
	"github.com/avolkov/srvman/internal/logging"
	"github.com/avolkov/srvman/internal/tmux"
)

// newController builds a lifecycle controller from the effective
// configuration, rooted at the current working directory.
func newController() (*lifecycle.Controller, error) {
	cfg := config.Get()
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, config.ValidationErrors(errs)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return lifecycle.New(lifecycle.Options{
		Session:     cfg.Session,
		LogFile:     cfg.LogFile,
		Multiplexer: tmux.New(cfg.Tmux.Socket),
		Dirs:        instance.NewDirManager(cwd, cfg.Artifact),
		Backups:     backup.NewStore(filepath.Join(cwd, cfg.Backup.Dir), cfg.Backup.Compress),
		Logger:      logging.New(os.Stderr, cfg.Logging.Level),
		Output:      os.Stdout,
	}), nil
}
