package errors

import (
	"fmt"
	"os"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := NewNotFoundError("directory", "/work/web")
		want := "directory '/work/web' not found"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("message with session", func(t *testing.T) {
		err := NewNotFoundError("tmux window", "web").WithSession("srvman")
		want := "tmux window 'web' not found in session 'srvman'"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("classification", func(t *testing.T) {
		err := NewNotFoundError("directory", "/work/web")
		if !Is(err, ErrNotFound) {
			t.Error("should match ErrNotFound")
		}
		if !Is(err, ErrPreconditionFailed) {
			t.Error("should match ErrPreconditionFailed")
		}
		if Is(err, ErrAlreadyExists) {
			t.Error("should not match ErrAlreadyExists")
		}
		if Is(err, ErrExternalTool) {
			t.Error("should not match ErrExternalTool")
		}
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := NewAlreadyExistsError("directory", "/work/web")
		want := "directory '/work/web' already exists"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("message with session", func(t *testing.T) {
		err := NewAlreadyExistsError("tmux window", "web").WithSession("srvman")
		want := "tmux window 'web' already exists in session 'srvman'"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("classification", func(t *testing.T) {
		err := NewAlreadyExistsError("directory", "/work/web")
		if !Is(err, ErrAlreadyExists) {
			t.Error("should match ErrAlreadyExists")
		}
		if !Is(err, ErrPreconditionFailed) {
			t.Error("should match ErrPreconditionFailed")
		}
		if Is(err, ErrNotFound) {
			t.Error("should not match ErrNotFound")
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("message with field and value", func(t *testing.T) {
		err := NewValidationError("must be 1..32 lowercase Latin letters").
			WithField("name").WithValue("Web-1")
		want := "validation error [field=name, value=Web-1]: must be 1..32 lowercase Latin letters"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("bare message", func(t *testing.T) {
		err := NewValidationError("bad input")
		want := "validation error: bad input"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("classification", func(t *testing.T) {
		err := NewValidationError("bad input")
		if !Is(err, ErrInvalidInput) {
			t.Error("should match ErrInvalidInput")
		}
		if Is(err, ErrPreconditionFailed) {
			t.Error("should not match ErrPreconditionFailed")
		}
	})
}

func TestExternalToolError(t *testing.T) {
	args := []string{"tmux", "kill-window", "-t", "srvman:web"}

	t.Run("message with stderr", func(t *testing.T) {
		err := NewExternalToolError(args, "lost server\n", 1)
		want := "tmux command failed (tmux kill-window -t srvman:web): lost server"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("message without stderr falls back to exit code", func(t *testing.T) {
		err := NewExternalToolError(args, "  ", 127)
		want := "tmux command failed (tmux kill-window -t srvman:web): exit code 127"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("classification and fields", func(t *testing.T) {
		err := NewExternalToolError(args, "boom", 2)
		if !Is(err, ErrExternalTool) {
			t.Error("should match ErrExternalTool")
		}
		if !IsExternalToolFailure(err) {
			t.Error("IsExternalToolFailure should be true")
		}
		if Is(err, ErrPreconditionFailed) {
			t.Error("should not match ErrPreconditionFailed")
		}

		var toolErr *ExternalToolError
		if !As(err, &toolErr) {
			t.Fatal("As should extract *ExternalToolError")
		}
		if toolErr.ExitCode != 2 || toolErr.Stderr != "boom" {
			t.Errorf("fields = %+v", toolErr)
		}
	})
}

func TestIOError(t *testing.T) {
	cause := os.ErrPermission
	err := NewIOError("move", "/work/.backup/out_web_1.log", cause)

	if !Is(err, ErrIO) {
		t.Error("should match ErrIO")
	}
	if !Is(err, os.ErrPermission) {
		t.Error("should unwrap to the cause")
	}
	want := "failed to move /work/.backup/out_web_1.log: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsPreconditionFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", NewNotFoundError("directory", "/x"), true},
		{"already exists", NewAlreadyExistsError("directory", "/x"), true},
		{"wrapped not found", fmt.Errorf("stop: %w", NewNotFoundError("tmux session", "s")), true},
		{"validation", NewValidationError("bad"), false},
		{"external tool", NewExternalToolError([]string{"tmux"}, "", 1), false},
		{"plain", New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPreconditionFailure(tt.err); got != tt.want {
				t.Errorf("IsPreconditionFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := NewNotFoundError("directory", "/work/web")
	wrapped := Wrap(base, "stop failed")

	if wrapped.Error() != "stop failed: directory '/work/web' not found" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if !Is(wrapped, ErrPreconditionFailed) {
		t.Error("wrapping must preserve classification")
	}
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}

	wrappedf := Wrapf(base, "failed to stop instance %s", "web")
	if wrappedf.Error() != "failed to stop instance web: directory '/work/web' not found" {
		t.Errorf("Wrapf() = %q", wrappedf.Error())
	}
}
