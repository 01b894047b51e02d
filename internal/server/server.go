// Package server implements the miniweb HTTP responder managed by srvman.
// Each instance answers an identity endpoint and a health endpoint; its
// structured request log goes to stdout, where the manager's launch
// redirection captures it into the instance's log file.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// Info is the identity document served on / and /whoami.
type Info struct {
	Message   string  `json:"message"`
	Instance  string  `json:"instance"`
	PID       int     `json:"pid"`
	Port      int     `json:"port"`
	Host      string  `json:"host"`
	StartedAt string  `json:"started_at"`
	UptimeSec float64 `json:"uptime_sec"`
	Path      string  `json:"path"`
	Client    string  `json:"client"`
}

// Handler serves the miniweb endpoints for one named instance.
type Handler struct {
	instance string
	port     int
	hostname string
	started  time.Time
	log      *slog.Logger
}

// NewHandler returns a Handler for the named instance listening on port.
func NewHandler(instance string, port int, log *slog.Logger) *Handler {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Handler{
		instance: instance,
		port:     port,
		hostname: hostname,
		started:  time.Now(),
		log:      log,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/", "/whoami":
		h.serveWhoami(w, r)
	case "/health", "/healthcheck":
		h.serveHealth(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		h.log.Warn("request", "method", r.Method, "path", r.URL.Path, "status", http.StatusNotFound)
	}
}

func (h *Handler) serveWhoami(w http.ResponseWriter, r *http.Request) {
	client := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		client = host
	}

	info := Info{
		Message:   fmt.Sprintf("Hello from instance '%s'", h.instance),
		Instance:  h.instance,
		PID:       os.Getpid(),
		Port:      h.port,
		Host:      h.hostname,
		StartedAt: h.started.UTC().Format(time.RFC3339),
		UptimeSec: time.Since(h.started).Seconds(),
		Path:      r.URL.Path,
		Client:    client,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		h.log.Error("encode response", "err", err)
		return
	}
	h.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", http.StatusOK)
}

func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
	h.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", http.StatusOK)
}
