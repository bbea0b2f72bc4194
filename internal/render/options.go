// Package render provides markdown rendering utilities for terminal output.
package render

import (
	"os"

	"github.com/diogo/fitbot/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// Options configures how answers are rendered
type Options struct {
	Width int
	// Style is a glamour standard style, an alias from ResolveStyle, or a
	// path to a JSON style file
	Style            string
	EnableEmoji      bool
	PreserveNewLines bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return OptionsFromMarkdown(config.DefaultMarkdownConfig()).WithWidth(80)
}

// OptionsFromMarkdown maps the markdown section of the config
func OptionsFromMarkdown(md config.MarkdownConfig) Options {
	opts := Options{
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
	}
	if opts.Style == "" {
		opts.Style = StyleDark
	}
	return opts.WithWidth(80)
}

// OptionsFromConfig builds render options from the user configuration.
// GLAMOUR_STYLE takes precedence over the config file.
func OptionsFromConfig(cfg config.Config) Options {
	opts := OptionsFromMarkdown(cfg.Markdown)
	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
