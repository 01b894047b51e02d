package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler("web", 8080, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestWhoami(t *testing.T) {
	h := newTestHandler()

	for _, path := range []string{"/", "/whoami"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", path, nil)
			req.RemoteAddr = "192.0.2.7:51234"
			h.ServeHTTP(rec, req)

			if rec.Code != 200 {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q", ct)
			}

			var info Info
			if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if info.Instance != "web" {
				t.Errorf("instance = %q, want web", info.Instance)
			}
			if info.Port != 8080 {
				t.Errorf("port = %d, want 8080", info.Port)
			}
			if info.Path != path {
				t.Errorf("path = %q, want %q", info.Path, path)
			}
			if info.Client != "192.0.2.7" {
				t.Errorf("client = %q, want bare host", info.Client)
			}
			if !strings.Contains(info.Message, "web") {
				t.Errorf("message %q does not name the instance", info.Message)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler()

	for _, path := range []string{"/health", "/healthcheck"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

			if rec.Code != 200 {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if body := rec.Body.String(); body != "OK" {
				t.Errorf("body = %q, want OK", body)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
