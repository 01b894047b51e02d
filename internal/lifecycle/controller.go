// Package lifecycle implements the orchestration of server instances hosted
// as windows of a shared tmux session: starting an instance, stopping one,
// stopping all, and collecting combined logs.
//
// The controller composes the tmux client, the instance directory manager
// and the backup store. Every operation fails fast on the first violated
// precondition and performs compensating cleanup only for resources it
// created earlier in the same operation; it never repairs state left behind
// by prior invocations. Operations are strictly sequential, with no retries
// and no internal concurrency; concurrent invocations of the tool are not
// serialized.
package lifecycle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avolkov/srvman/internal/backup"
	"github.com/avolkov/srvman/internal/errors"
	"github.com/avolkov/srvman/internal/instance"
	"github.com/avolkov/srvman/internal/logging"
)

// Multiplexer is the narrow surface of the external process manager the
// controller needs. It is satisfied by *tmux.Client and by test doubles that
// simulate session and window state without running any external binary.
type Multiplexer interface {
	// SessionExists reports whether the named session exists.
	SessionExists(session string) (bool, error)
	// WindowExists reports whether the named window exists in the session.
	WindowExists(session, window string) (bool, error)
	// ListWindows returns the window names of the session; empty when the
	// session does not exist.
	ListWindows(session string) ([]string, error)
	// Run executes an arbitrary management command.
	Run(args ...string) error
}

// Options configures a Controller.
type Options struct {
	// Session is the name of the shared tmux session hosting all windows.
	Session string
	// LogFile is the captured-output filename inside each instance
	// directory, e.g. "out.log".
	LogFile string
	// Multiplexer drives the external process manager.
	Multiplexer Multiplexer
	// Dirs manages instance working directories and artifact staging.
	Dirs *instance.DirManager
	// Backups archives captured output on shutdown.
	Backups *backup.Store
	// Logger receives structured diagnostics. Nil discards them.
	Logger *logging.Logger
	// Output receives confirmations and collected logs. Nil means stdout.
	Output io.Writer
}

// Controller orchestrates the instance lifecycle.
type Controller struct {
	session string
	logFile string
	mux     Multiplexer
	dirs    *instance.DirManager
	backups *backup.Store
	log     *logging.Logger
	out     io.Writer
}

// New returns a Controller for the given options.
func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Controller{
		session: opts.Session,
		logFile: opts.LogFile,
		mux:     opts.Multiplexer,
		dirs:    opts.Dirs,
		backups: opts.Backups,
		log:     log,
		out:     out,
	}
}

// Start launches a new instance: stages the server artifact into a fresh
// working directory named after the instance and spawns it inside a tmux
// window of the shared session, creating the session if needed. Combined
// stdout/stderr of the instance is redirected into the log file inside its
// directory.
func (c *Controller) Start(name, port string) error {
	name, err := instance.ValidateName(name)
	if err != nil {
		return err
	}
	portNum, err := instance.ValidatePort(port)
	if err != nil {
		return err
	}
	log := c.log.WithOperation("start").WithInstance(name)

	if !c.dirs.ArtifactExists() {
		return errors.NewNotFoundError("server artifact", c.dirs.ArtifactPath())
	}
	if c.dirs.Exists(name) {
		return errors.NewAlreadyExistsError("directory", c.dirs.Path(name))
	}

	sessionExists, err := c.mux.SessionExists(c.session)
	if err != nil {
		return err
	}
	if sessionExists {
		windowExists, err := c.mux.WindowExists(c.session, name)
		if err != nil {
			return err
		}
		if windowExists {
			return errors.NewAlreadyExistsError("tmux window", name).WithSession(c.session)
		}
	}

	dir, err := c.dirs.Create(name)
	if err != nil {
		return err
	}
	if err := c.dirs.Stage(name); err != nil {
		// No partial directory is left behind on a failed copy.
		c.dirs.RemoveQuiet(name)
		return err
	}

	command := c.launchCommand(name, portNum)
	var args []string
	if sessionExists {
		args = []string{"new-window", "-t", c.session, "-n", name, "-c", dir, command}
	} else {
		args = []string{"new-session", "-d", "-s", c.session, "-n", name, "-c", dir, command}
	}
	if err := c.mux.Run(args...); err != nil {
		c.dirs.RemoveQuiet(name)
		return err
	}

	log.Info("instance started", "port", portNum, "dir", dir)
	fmt.Fprintf(c.out, "Started '%s' on port %d in tmux session '%s'.\n", name, portNum, c.session)
	return nil
}

// launchCommand builds the shell command run inside the instance's window:
// the staged artifact with the instance name bound both as an environment
// variable and as an explicit argument, output redirected into the log file.
func (c *Controller) launchCommand(name string, port int) string {
	return fmt.Sprintf("INSTANCE_NAME=%s ./%s --name %s --port %d > %s 2>&1",
		name, c.dirs.Artifact, name, port, c.logFile)
}

// Stop terminates one instance: kills its window, archives its captured
// output, and removes its working directory. The directory, the session and
// the window must all exist; each absence is a distinct precondition
// failure. A directory without a window is surfaced, not silently repaired.
func (c *Controller) Stop(name string) error {
	name, err := instance.ValidateName(name)
	if err != nil {
		return err
	}
	log := c.log.WithOperation("stop").WithInstance(name)

	if !c.dirs.Exists(name) {
		return errors.NewNotFoundError("directory", c.dirs.Path(name))
	}
	sessionExists, err := c.mux.SessionExists(c.session)
	if err != nil {
		return err
	}
	if !sessionExists {
		return errors.NewNotFoundError("tmux session", c.session)
	}
	windowExists, err := c.mux.WindowExists(c.session, name)
	if err != nil {
		return err
	}
	if !windowExists {
		return errors.NewNotFoundError("tmux window", name).WithSession(c.session)
	}

	// The directory stays untouched if the kill fails, so a retry is possible.
	if err := c.mux.Run("kill-window", "-t", c.session+":"+name); err != nil {
		return err
	}

	dest, err := c.backups.Archive(name, filepath.Join(c.dirs.Path(name), c.logFile))
	if err != nil {
		return err
	}
	if err := c.dirs.Remove(name); err != nil {
		return err
	}

	log.Info("instance stopped", "backup", dest)
	fmt.Fprintf(c.out, "Stopped '%s'. Logs moved to %s.\n", name, dest)
	return nil
}

// StopAll kills the shared session and archives and removes every instance
// directory, in lexicographic order. Directories are discovered on disk
// independently of session state, so instances whose windows died earlier
// are archived too. Failures while processing a directory abort the whole
// operation.
func (c *Controller) StopAll() error {
	log := c.log.WithOperation("stop_all")

	sessionExisted, err := c.mux.SessionExists(c.session)
	if err != nil {
		return err
	}
	if sessionExisted {
		if err := c.mux.Run("kill-session", "-t", c.session); err != nil {
			// The session may be dying already; only that race is benign.
			if !isBenignNoSession(err) {
				return err
			}
			log.Debug("session vanished before kill-session", "session", c.session)
		}
	}

	names, err := c.dirs.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		dest, err := c.backups.Archive(name, filepath.Join(c.dirs.Path(name), c.logFile))
		if err != nil {
			return err
		}
		if err := c.dirs.Remove(name); err != nil {
			return err
		}
		log.Info("instance archived", "instance", name, "backup", dest)
	}

	// A window respawned during processing can leave the session alive;
	// re-probe and finish the job.
	if sessionExisted {
		stillExists, err := c.mux.SessionExists(c.session)
		if err != nil {
			return err
		}
		if stillExists {
			if err := c.mux.Run("kill-session", "-t", c.session); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(c.out, "Stopped all instances.")
	return nil
}

// isBenignNoSession reports whether err is tmux complaining that the session
// is already gone.
func isBenignNoSession(err error) bool {
	var toolErr *errors.ExternalToolError
	if !errors.As(err, &toolErr) {
		return false
	}
	return strings.Contains(toolErr.Stderr, "can't find session")
}

// CollectAll writes the combined logs of all active instances: one block per
// window in ascending name order, each introduced by a header line, with
// exactly one blank line between consecutive blocks and exactly one trailing
// line break after any non-empty log content. An absent session produces no
// output and is not an error.
func (c *Controller) CollectAll() error {
	sessionExists, err := c.mux.SessionExists(c.session)
	if err != nil {
		return err
	}
	if !sessionExists {
		return nil
	}

	names, err := c.mux.ListWindows(c.session)
	if err != nil {
		return err
	}
	sort.Strings(names)

	first := true
	for _, name := range names {
		if !first {
			fmt.Fprintln(c.out)
		}
		first = false

		fmt.Fprintf(c.out, "=== server: %s ===\n", name)

		logPath := filepath.Join(c.dirs.Path(name), c.logFile)
		if _, err := os.Stat(logPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.NewIOError("read", logPath, err)
		}
		content, err := os.ReadFile(logPath)
		if err != nil {
			return errors.NewIOError("read", logPath, err)
		}
		if len(content) == 0 {
			continue
		}
		if _, err := c.out.Write(content); err != nil {
			return errors.NewIOError("read", logPath, err)
		}
		if content[len(content)-1] != '\n' {
			fmt.Fprintln(c.out)
		}
	}
	return nil
}

// InstanceStatus describes one instance as seen by status: its window in the
// live session, its directory on disk, and the size of its captured output.
type InstanceStatus struct {
	Name      string
	HasWindow bool
	HasDir    bool
	LogBytes  int64
}

// Status merges the windows of the live session with the instance
// directories on disk, in ascending name order. An entry with a directory
// but no window is the recoverable inconsistency stop reports as an error;
// status only makes it visible.
func (c *Controller) Status() ([]InstanceStatus, error) {
	windows, err := c.mux.ListWindows(c.session)
	if err != nil {
		return nil, err
	}
	dirs, err := c.dirs.List()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*InstanceStatus)
	for _, name := range windows {
		byName[name] = &InstanceStatus{Name: name, HasWindow: true}
	}
	for _, name := range dirs {
		st, ok := byName[name]
		if !ok {
			st = &InstanceStatus{Name: name}
			byName[name] = st
		}
		st.HasDir = true
		if info, err := os.Stat(filepath.Join(c.dirs.Path(name), c.logFile)); err == nil {
			st.LogBytes = info.Size()
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]InstanceStatus, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, *byName[name])
	}
	return statuses, nil
}
