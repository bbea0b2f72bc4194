package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// writeMargin is added to the upstream timeout so a slow answer, or the
// fallback sent after it times out, still reaches the client.
const writeMargin = 15 * time.Second

// WriteTimeout returns the response write deadline for an upstream timeout.
// Zero means no upstream limit and therefore no write deadline.
func WriteTimeout(upstream time.Duration) time.Duration {
	if upstream <= 0 {
		return 0
	}
	return upstream + writeMargin
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
// It returns nil after a clean shutdown.
func Serve(ctx context.Context, addr string, handler http.Handler, writeTimeout time.Duration, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeListener(ctx, ln, handler, writeTimeout, logger)
}

// ServeListener is Serve over an existing listener
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, writeTimeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("proxy listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("proxy server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("proxy forced to shutdown: %w", err)
	}

	logger.Info("proxy stopped")
	return nil
}
