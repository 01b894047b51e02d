package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avolkov/srvman/internal/logging"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string // the config field path, e.g. "logging.level"
	Value   any    // the invalid value
	Message string // human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// sessionNameRegex restricts session names to characters tmux accepts in a
// -t target without quoting surprises. Colons and dots are excluded because
// tmux uses them as window and pane separators in target syntax.
var sessionNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// socketNameRegex restricts socket names to filename-safe characters: the
// socket name becomes a file under tmux's socket directory.
var socketNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)

// Validate checks the Config for invalid values and returns all validation
// errors found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !sessionNameRegex.MatchString(c.Session) {
		errs = append(errs, ValidationError{
			Field:   "session",
			Value:   c.Session,
			Message: "must be non-empty and contain only letters, digits, '-' and '_'",
		})
	}

	if c.Artifact == "" || strings.ContainsRune(c.Artifact, '/') {
		errs = append(errs, ValidationError{
			Field:   "artifact",
			Value:   c.Artifact,
			Message: "must be a bare filename in the working directory",
		})
	}

	if c.LogFile == "" || strings.ContainsRune(c.LogFile, '/') {
		errs = append(errs, ValidationError{
			Field:   "log_file",
			Value:   c.LogFile,
			Message: "must be a bare filename inside the instance directory",
		})
	}

	if c.Backup.Dir == "" {
		errs = append(errs, ValidationError{
			Field:   "backup.dir",
			Value:   c.Backup.Dir,
			Message: "must not be empty",
		})
	}

	if !socketNameRegex.MatchString(c.Tmux.Socket) {
		errs = append(errs, ValidationError{
			Field:   "tmux.socket",
			Value:   c.Tmux.Socket,
			Message: "must contain only letters, digits, '-' and '_'",
		})
	}

	if c.Logging.Level != "" && !logging.IsValidLevel(c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}

	return errs
}
