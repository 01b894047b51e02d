// Package testutil provides shared test helpers for srvman tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Script writes an executable shell script with the given body into a temp
// directory and returns its path. Tests substitute it for the tmux binary so
// exit codes, stdout, and stderr can be scripted without a real tmux.
func Script(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tmux")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write stub script: %v", err)
	}
	return path
}

// WriteFile creates a file with the given content, creating parent
// directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
