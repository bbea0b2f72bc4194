package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure fitbot settings.

Subcommands print or change the stored configuration without the menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.TUI.RunConfig()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one stored setting",
		Long: fmt.Sprintf(`Change one stored setting.

Keys: %s`, strings.Join(config.SettableKeys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveConfig(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Configuration reset to defaults"))
			return nil
		},
	})

	return cmd
}

func printConfig(out io.Writer, cfg config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// runConfigSet edits the stored file only, so environment and flag
// overrides never leak into it
func runConfigSet(out io.Writer, key, value string) error {
	cfg, err := config.LoadConfigFile()
	if err != nil {
		return err
	}
	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("invalid value for tui_theme: unknown theme %q (known: %s)",
				value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s = %s\n", color.GreenString("✓"), key, value)
	return nil
}
