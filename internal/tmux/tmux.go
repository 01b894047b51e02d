// Package tmux wraps the external tmux binary behind a narrow client used by
// the lifecycle controller. All liveness decisions ("does the session exist",
// "which windows are present") are derived from tmux's own state on every
// call and never cached, so the tool cannot drift from the process manager's
// authoritative view.
//
// tmux exit codes are classified uniformly: 0 means the probed state holds,
// 1 means it does not (no session / no window), and anything else is an
// unexpected tool failure surfaced with the captured diagnostic output.
package tmux

import (
	"os/exec"
	"strings"

	"github.com/avolkov/srvman/internal/errors"
)

// windowNameFormat is the tmux format string used to list window names.
const windowNameFormat = "#{window_name}"

// Client invokes the tmux binary. The zero value uses the "tmux" on PATH and
// the default socket; Socket selects an alternate socket via -L, which keeps
// test runs and independent deployments isolated from a user's own server.
type Client struct {
	// Bin is the tmux executable. Empty means "tmux".
	Bin string
	// Socket is an optional socket name passed as -L. Empty means the
	// default tmux socket.
	Socket string
}

// New returns a Client for the given socket name (empty for the default).
func New(socket string) *Client {
	return &Client{Socket: socket}
}

// command builds an exec.Cmd for tmux with the client's socket arguments.
func (c *Client) command(args ...string) *exec.Cmd {
	return exec.Command(c.bin(), c.Args(args...)...)
}

func (c *Client) bin() string {
	if c.Bin != "" {
		return c.Bin
	}
	return "tmux"
}

// Args returns the full tmux argument vector for the given subcommand
// arguments, including socket selection. Use this when the command text is
// needed for display or diagnostics.
func (c *Client) Args(args ...string) []string {
	if c.Socket == "" {
		return args
	}
	return append([]string{"-L", c.Socket}, args...)
}

// run executes tmux and returns stdout, stderr and the exit code. A non-nil
// error is returned only when the binary could not be executed at all.
func (c *Client) run(args ...string) (stdout, stderr string, exitCode int, err error) {
	cmd := c.command(args...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr == nil {
		return stdout, stderr, 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return stdout, stderr, exitErr.ExitCode(), nil
	}
	// tmux missing from PATH or not executable
	return stdout, stderr, -1, runErr
}

// SessionExists reports whether a session with the given name exists.
// Exit 0 means yes, exit 1 means no; any other status is a tool failure.
func (c *Client) SessionExists(session string) (bool, error) {
	args := []string{"has-session", "-t", session}
	_, stderr, code, err := c.run(args...)
	if err != nil {
		return false, errors.NewExternalToolError(c.fullArgs(args), stderr, code).WithCause(err)
	}
	switch code {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, errors.NewExternalToolError(c.fullArgs(args), stderr, code)
	}
}

// ListWindows returns the window names of the given session, in tmux order.
// A missing session yields an empty list, not an error: tmux reports it with
// exit 1, which is distinguishable from real failures by exit code alone.
func (c *Client) ListWindows(session string) ([]string, error) {
	args := []string{"list-windows", "-t", session, "-F", windowNameFormat}
	stdout, stderr, code, err := c.run(args...)
	if err != nil {
		return nil, errors.NewExternalToolError(c.fullArgs(args), stderr, code).WithCause(err)
	}
	switch code {
	case 0:
		var names []string
		for _, line := range strings.Split(stdout, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				names = append(names, line)
			}
		}
		return names, nil
	case 1:
		return nil, nil
	default:
		return nil, errors.NewExternalToolError(c.fullArgs(args), stderr, code)
	}
}

// WindowExists reports whether the named window exists in the session.
// A missing session means the window does not exist.
func (c *Client) WindowExists(session, window string) (bool, error) {
	names, err := c.ListWindows(session)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == window {
			return true, nil
		}
	}
	return false, nil
}

// Run executes an arbitrary tmux management command (new-session,
// new-window, kill-window, kill-session). Any non-zero exit is an
// ExternalToolError embedding the joined command text and captured stderr.
func (c *Client) Run(args ...string) error {
	_, stderr, code, err := c.run(args...)
	if err != nil {
		return errors.NewExternalToolError(c.fullArgs(args), stderr, code).WithCause(err)
	}
	if code != 0 {
		return errors.NewExternalToolError(c.fullArgs(args), stderr, code)
	}
	return nil
}

// fullArgs prepends the binary name to the socket-qualified argument vector
// for diagnostics.
func (c *Client) fullArgs(args []string) []string {
	return append([]string{c.bin()}, c.Args(args...)...)
}
