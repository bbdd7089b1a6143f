package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convive/application"
	"convive/logging"
	"convive/ports"
)

// Server represents the HTTP API server for convive
type Server struct {
	addr       string
	httpServer *http.Server
}

// NewServer creates a new HTTP server instance serving the data API
func NewServer(addr string, store ports.DataStore, sessions *application.SessionService, reports *application.ReportService, transfer *application.TransferService) *Server {
	handler := newHandler(store, sessions, reports, transfer)

	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           withRequestLogging(handler.routes()),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	// Handle graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logging.Logger.Info("Starting HTTP server", "address", s.addr)
	fmt.Printf("HTTP server listening on %s\n", s.addr)

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	// Wait for shutdown signal or listen failure
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-done:
	}
	logging.Logger.Info("Shutting down HTTP server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	logging.Logger.Info("HTTP server stopped")
	return nil
}

// withRequestLogging logs every request with its duration and status
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(started).String())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
