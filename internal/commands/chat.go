package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/models"
	"github.com/diogo/fitbot/internal/render"
	"github.com/diogo/fitbot/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	var quickMode string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with FitBot.

Quick prompts are bound to Alt+1..Alt+9. Ctrl+Y copies the last answer.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if quickMode != "" {
				mode, err := models.ParseQuickPromptMode(quickMode)
				if err != nil {
					return err
				}
				cfg.QuickPromptMode = mode
			}
			return runChat(deps, cfg)
		},
	}

	cmd.Flags().StringVar(&quickMode, "quick-mode", "", "Quick prompt behaviour: submit or prefill (default from config)")
	return cmd
}

func runChat(deps *Dependencies, cfg config.Config) error {
	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeClient(client)

	logger, closeLog, err := openLogFile(cfg.Verbose)
	defer closeLog()
	if err != nil && cfg.Verbose {
		fmt.Println(formatErrorMessage(err, "Logging disabled"))
	}
	logger.Info("chat started", "base_url", cfg.BaseURL, "quick_prompt_mode", string(cfg.QuickPromptMode))

	tui.ApplyTheme(cfg.TUITheme)

	opts := tui.DefaultOptions()
	opts.Prompts = cfg.Prompts()
	opts.Mode = cfg.QuickPromptMode
	opts.Timeout = cfg.Timeout()
	opts.Subtitle = client.BaseURL()
	opts.Logger = logger
	opts.Render = render.OptionsFromConfig(cfg)
	opts.AutoCopy = cfg.CopyToClipboard
	opts.Copy = deps.Copy

	return deps.TUI.RunChat(client, opts)
}
