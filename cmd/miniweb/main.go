// miniweb is the minimal HTTP server managed by srvman. One process serves
// one named instance; srvman launches it inside a tmux window with stdout
// and stderr redirected into the instance's log file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/srvman/internal/instance"
	"github.com/avolkov/srvman/internal/server"
)

var (
	flagName string
	flagPort int
)

var rootCmd = &cobra.Command{
	Use:           "miniweb",
	Short:         "Minimal multi-instance web server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagName, "name", envOr("INSTANCE_NAME", "server"), "unique instance name [a-z]{1,32}")
	rootCmd.Flags().IntVar(&flagPort, "port", envIntOr("PORT", 8000), "port for the HTTP server")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func run(cmd *cobra.Command, args []string) error {
	if _, err := instance.ValidateName(flagName); err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instance", flagName)

	handler := server.NewHandler(flagName, flagPort, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", flagPort),
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "port", flagPort, "pid", os.Getpid())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	log.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
