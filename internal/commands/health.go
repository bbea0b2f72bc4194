package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/diogo/fitbot/internal/config"
)

// NewHealthCmd creates the health probe command
func NewHealthCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the answer service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runHealth(cmd.Context(), deps, cfg, cmd.OutOrStdout())
		},
	}
}

func runHealth(ctx context.Context, deps *Dependencies, cfg config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeClient(client)

	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	status, err := client.Health(ctx)
	if err != nil {
		fmt.Fprintf(out, "%s %s\n", bad("✗ unreachable"), client.BaseURL())
		return fmt.Errorf("health check failed: %w", err)
	}

	state := status.Status
	if state == "" {
		state = "healthy"
	}

	if !status.Healthy() {
		fmt.Fprintf(out, "%s %s\n", bad("✗ "+state), client.BaseURL())
		return fmt.Errorf("answer service reports %q", state)
	}

	fmt.Fprintf(out, "%s %s %s\n", ok("✓ "+state), client.BaseURL(),
		dim(fmt.Sprintf("(%s)", status.Latency.Round(time.Millisecond))))
	if status.Timestamp != "" {
		fmt.Fprintf(out, "  %s %s\n", dim("server time:"), status.Timestamp)
	}
	return nil
}
