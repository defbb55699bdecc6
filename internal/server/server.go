package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

func NewServer(listenAddr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down within the shutdown timeout.
func Run(ctx context.Context, server *http.Server) error {
	logger := logger_i.NewLogger("Server")

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server is listening at", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server crashed", "error", err, "addr", server.Addr)
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Could not shutdown gracefully", "error", err)
		return err
	}
	logger.Info("Gracefully shut down")
	return nil
}
