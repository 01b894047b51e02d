// Package instance manages per-instance working directories and the staging
// of the server artifact into them, plus validation of the user-supplied
// instance identity. Each running instance owns exactly one directory named
// after it under the manager's working directory; the directory holds the
// instance's private copy of the server artifact and its captured output.
package instance

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/avolkov/srvman/internal/errors"
)

// DirManager creates, stages, enumerates and removes instance working
// directories under Root.
type DirManager struct {
	// Root is the directory holding instance directories and the server
	// artifact, normally the process working directory.
	Root string
	// Artifact is the server artifact filename staged into each instance
	// directory, e.g. "miniweb".
	Artifact string
}

// NewDirManager returns a DirManager rooted at root staging artifact.
func NewDirManager(root, artifact string) *DirManager {
	return &DirManager{Root: root, Artifact: artifact}
}

// ArtifactPath returns the path of the source server artifact.
func (m *DirManager) ArtifactPath() string {
	return filepath.Join(m.Root, m.Artifact)
}

// ArtifactExists reports whether the server artifact is present in Root.
func (m *DirManager) ArtifactExists() bool {
	info, err := os.Stat(m.ArtifactPath())
	return err == nil && !info.IsDir()
}

// Path returns the working directory path for the named instance.
func (m *DirManager) Path(name string) string {
	return filepath.Join(m.Root, name)
}

// Exists reports whether the named instance directory is present.
func (m *DirManager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// Create makes the working directory for the named instance. The directory
// must not already exist.
func (m *DirManager) Create(name string) (string, error) {
	dir := m.Path(name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if os.IsExist(err) {
			return "", errors.NewAlreadyExistsError("directory", dir)
		}
		return "", errors.NewIOError("create", dir, err)
	}
	return dir, nil
}

// Stage copies the server artifact into the named instance directory,
// preserving the source file mode so a staged binary stays executable.
// The caller owns rollback of the directory on failure.
func (m *DirManager) Stage(name string) error {
	src := m.ArtifactPath()
	dest := filepath.Join(m.Path(name), m.Artifact)

	info, err := os.Stat(src)
	if err != nil {
		return errors.NewIOError("read", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.NewIOError("read", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.NewIOError("copy", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.NewIOError("copy", dest, err)
	}
	if err := out.Close(); err != nil {
		return errors.NewIOError("copy", dest, err)
	}
	return nil
}

// Remove deletes the named instance directory and everything in it.
func (m *DirManager) Remove(name string) error {
	dir := m.Path(name)
	if err := os.RemoveAll(dir); err != nil {
		return errors.NewIOError("remove", dir, err)
	}
	return nil
}

// RemoveQuiet deletes the named instance directory, ignoring errors.
// Used for best-effort rollback after a failed start.
func (m *DirManager) RemoveQuiet(name string) {
	_ = os.RemoveAll(m.Path(name))
}

// List returns the names of all instance directories under Root, in
// lexicographic order. Only directories whose names match the instance name
// pattern are considered; everything else in Root is ignored.
func (m *DirManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		return nil, errors.NewIOError("read", m.Root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && IsValidName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
