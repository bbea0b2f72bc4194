package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/proxy"
)

// NewServeCmd creates the proxy server command
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat proxy for browser front-ends",
		Long: `Run an HTTP server exposing the answer service to web front-ends.

  POST /api/chat    {"messages":[...]} -> {"role":"assistant","content":"..."}
  GET  /api/health  upstream health
  GET  /healthz     liveness

Logs are written to stdout as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, deps, cfg, newServeLogger(cfg.Verbose))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, e.g. :3000)")
	return cmd
}

func newServeLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func runServe(ctx context.Context, deps *Dependencies, cfg config.Config, logger *slog.Logger) error {
	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeClient(client)

	srv := proxy.New(client,
		proxy.WithLogger(logger),
		proxy.WithAllowedOrigins(cfg.Serve.AllowedOrigins),
		proxy.WithTimeout(cfg.Timeout()),
	)

	logger.Info("starting proxy",
		"addr", cfg.Serve.Addr,
		"upstream", client.BaseURL(),
		"allowed_origins", cfg.Serve.AllowedOrigins,
	)

	return proxy.Serve(ctx, cfg.Serve.Addr, srv.Router(), srv.WriteTimeout(), logger)
}
