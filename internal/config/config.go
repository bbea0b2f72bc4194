// Package config handles configuration loading and persistence for fitbot.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/diogo/fitbot/internal/models"
)

// Environment variables that override the config file
const (
	EnvHome            = "FITBOT_HOME"
	EnvBaseURL         = "FITBOT_BASE_URL"
	EnvTimeout         = "FITBOT_TIMEOUT"
	EnvQuickPromptMode = "FITBOT_QUICK_PROMPT_MODE"
	EnvVerbose         = "FITBOT_VERBOSE"
	EnvAddr            = "FITBOT_ADDR"
)

// MarkdownConfig configures markdown rendering of answers
type MarkdownConfig struct {
	Style            string `json:"style"`             // glamour style: "dark", "light", "dracula", "tokyo-night", "notty"
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// ServeConfig configures the proxy server
type ServeConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the answer service root; requests go to BaseURL + "/chat".
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds every outbound answer request.
	TimeoutSeconds  int                    `json:"timeout_seconds"`
	QuickPromptMode models.QuickPromptMode `json:"quick_prompt_mode"`
	QuickPrompts    []models.QuickPrompt   `json:"quick_prompts,omitempty"`
	CopyToClipboard bool                   `json:"copy_to_clipboard"`
	Verbose         bool                   `json:"verbose"`
	TUITheme        string                 `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig         `json:"markdown"`
	Serve           ServeConfig            `json:"serve"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		TimeoutSeconds:  60,
		QuickPromptMode: models.DefaultQuickPromptMode,
		QuickPrompts:    models.DefaultQuickPrompts(),
		CopyToClipboard: false,
		Verbose:         false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
		Serve: ServeConfig{
			Addr:           ":3000",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Prompts returns the configured quick prompts, falling back to the defaults
func (c Config) Prompts() []models.QuickPrompt {
	if len(c.QuickPrompts) == 0 {
		return models.DefaultQuickPrompts()
	}
	return c.QuickPrompts
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0, got %d", c.TimeoutSeconds)
	}
	if _, err := models.ParseQuickPromptMode(string(c.QuickPromptMode)); err != nil {
		return err
	}
	for i, p := range c.QuickPrompts {
		if strings.TrimSpace(p.Prompt) == "" {
			return fmt.Errorf("quick_prompts[%d] has an empty prompt", i)
		}
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".fitbot"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path of the TUI log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "fitbot.log"), nil
}

// LoadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return cfg, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadConfigFile loads the stored configuration without environment
// overrides; a missing file yields the defaults.
func LoadConfigFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize rewrites hand-edited values into their canonical form.
// Values that do not parse are left for Validate to report.
func (c *Config) normalize() {
	if mode, err := models.ParseQuickPromptMode(string(c.QuickPromptMode)); err == nil {
		c.QuickPromptMode = mode
	}
}

// ApplyEnv overrides fields from FITBOT_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok && v != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.TimeoutSeconds = secs
	}
	if v, ok := os.LookupEnv(EnvQuickPromptMode); ok && v != "" {
		mode, err := models.ParseQuickPromptMode(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvQuickPromptMode, err)
		}
		c.QuickPromptMode = mode
	}
	if v, ok := os.LookupEnv(EnvVerbose); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvVerbose, err)
		}
		c.Verbose = b
	}
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		c.Serve.Addr = v
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps config keys accepted by Set to their parsers
var setters = map[string]func(*Config, string) error{
	"base_url": func(c *Config, v string) error {
		c.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		secs, err := parseSeconds(v)
		if err != nil {
			return err
		}
		c.TimeoutSeconds = secs
		return nil
	},
	"quick_prompt_mode": func(c *Config, v string) error {
		mode, err := models.ParseQuickPromptMode(v)
		if err != nil {
			return err
		}
		c.QuickPromptMode = mode
		return nil
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.CopyToClipboard = b
		return nil
	},
	"verbose": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Verbose = b
		return nil
	},
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = strings.ToLower(v)
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"serve.addr": func(c *Config, v string) error {
		c.Serve.Addr = v
		return nil
	},
}

// Set updates a single field by its JSON key and validates the result
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(SettableKeys(), ", "))
	}

	next := *c
	if err := set(&next, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}

// SettableKeys returns the keys accepted by Set, sorted
func SettableKeys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseSeconds accepts either an integer number of seconds or a Go duration
func parseSeconds(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("want seconds or a duration like 30s, got %q", v)
	}
	return int(d / time.Second), nil
}
