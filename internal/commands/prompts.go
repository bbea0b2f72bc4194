package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/diogo/fitbot/internal/config"
)

// NewPromptsCmd creates the command listing quick prompts
func NewPromptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the quick prompts and their chat shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			printPrompts(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printPrompts(out io.Writer, cfg config.Config) {
	key := color.New(color.FgCyan, color.Bold).SprintFunc()
	label := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "Quick prompts (mode: %s)\n\n", cfg.QuickPromptMode)
	for i, p := range cfg.Prompts() {
		if i < 9 {
			fmt.Fprintf(out, "  %s  %s\n", key(fmt.Sprintf("⌥%d", i+1)), label(p.Label))
		} else {
			fmt.Fprintf(out, "      %s\n", label(p.Label))
		}
		fmt.Fprintf(out, "      %s\n", dim(p.Prompt))
	}
}
