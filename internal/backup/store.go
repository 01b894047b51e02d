// Package backup implements the append-only archive of captured instance
// output. Every archival leaves exactly one backup artifact: the instance's
// log file moved under a timestamped name, or an empty placeholder when the
// instance produced no output. Once written, a backup file is never touched
// again.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/avolkov/srvman/internal/errors"
)

// Store archives instance logs under Dir using collision-free,
// timestamp-based names.
type Store struct {
	// Dir is the backup directory, created lazily on first archive.
	Dir string
	// Compress gzips archived logs. Placeholders for logless instances
	// are written as empty gzip streams so every stop still yields one
	// artifact under the same naming scheme.
	Compress bool

	// now returns the current Unix timestamp; overridable in tests.
	now func() int64
}

// NewStore returns a Store writing into dir.
func NewStore(dir string, compress bool) *Store {
	return &Store{
		Dir:      dir,
		Compress: compress,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// Archive moves the log file at logPath into the backup directory under a
// name derived from the instance name and the current Unix timestamp,
// returning the backup path. When logPath does not exist an empty
// placeholder is created instead. On filename collision the timestamp is
// incremented until a free path is found, so no backup is ever overwritten.
func (s *Store) Archive(name, logPath string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.NewIOError("create", s.Dir, err)
	}

	dest := s.freePath(name)

	if _, err := os.Stat(logPath); err != nil {
		if !os.IsNotExist(err) {
			return "", errors.NewIOError("read", logPath, err)
		}
		if err := s.writePlaceholder(dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	if s.Compress {
		if err := s.compressFile(logPath, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	if err := moveFile(logPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// freePath computes the first unoccupied backup path for name, starting from
// the current timestamp and incrementing on collision. If the clock is
// stepped backward between archivals the loop still terminates, it just
// reuses timestamps that sort out of order.
func (s *Store) freePath(name string) string {
	ts := s.now()
	for {
		dest := filepath.Join(s.Dir, s.filename(name, ts))
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
		ts++
	}
}

// filename returns the backup filename for an instance name and timestamp.
func (s *Store) filename(name string, ts int64) string {
	base := "out_" + name + "_" + strconv.FormatInt(ts, 10) + ".log"
	if s.Compress {
		base += ".gz"
	}
	return base
}

// writePlaceholder creates an empty backup artifact at dest.
func (s *Store) writePlaceholder(dest string) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIOError("create", dest, err)
	}
	if s.Compress {
		zw := gzip.NewWriter(f)
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return errors.NewIOError("create", dest, err)
		}
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("create", dest, err)
	}
	return nil
}

// compressFile gzips src into dest and removes src on success.
func (s *Store) compressFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewIOError("read", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIOError("create", dest, err)
	}
	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		_ = out.Close()
		_ = os.Remove(dest)
		return errors.NewIOError("move", dest, err)
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return errors.NewIOError("move", dest, err)
	}
	if err := out.Close(); err != nil {
		return errors.NewIOError("move", dest, err)
	}
	if err := os.Remove(src); err != nil {
		return errors.NewIOError("remove", src, err)
	}
	return nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// backup directory lives on a different filesystem.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.NewIOError("read", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIOError("create", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return errors.NewIOError("move", dest, err)
	}
	if err := out.Close(); err != nil {
		return errors.NewIOError("move", dest, err)
	}
	if err := os.Remove(src); err != nil {
		return errors.NewIOError("remove", src, err)
	}
	return nil
}
