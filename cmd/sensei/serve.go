package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mitthhuu3110/dsa-sensei/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tutor HTTP server",
	Long: `Start the HTTP server exposing the tutor API.

Endpoints:
  POST /ask                Answer a question about the indexed notes
  GET  /healthz            Health check
  GET  /metrics            Prometheus metrics
  GET  /api/v1/plan        Weekly study plan (?level=beginner|intermediate|advanced)
  POST /api/v1/interview   Interview drill questions for a topic

Examples:
  # Serve with defaults (chromem index, local embeddings)
  sensei serve

  # Configure via environment
  SENSEI_SERVER_PORT=9090 SENSEI_CORPUS_PATH=./notes sensei serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := httpapi.NewServer(httpapi.Config{
		Host: a.cfg.Server.Host,
		Port: a.cfg.Server.Port,
	}, a.tutor, a.logger.Named("http"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
