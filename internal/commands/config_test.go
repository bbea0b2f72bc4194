package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/fitbot/internal/api"
	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/models"
)

func TestConfigCommand_OpensMenu(t *testing.T) {
	testEnv(t)
	deps, ui, _, _ := testDeps(&api.MockClient{})

	if _, _, err := runCLI(t, deps, "config"); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if ui.configCalls != 1 {
		t.Errorf("RunConfig calls = %d, want 1", ui.configCalls)
	}
}

func TestConfigCommand_Path(t *testing.T) {
	home := testEnv(t)
	deps, _, _, _ := testDeps(&api.MockClient{})

	out, _, err := runCLI(t, deps, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(home, "config.json") {
		t.Errorf("path = %q", out)
	}
}

func TestConfigCommand_SetThenShow(t *testing.T) {
	testEnv(t)
	deps, ui, _, _ := testDeps(&api.MockClient{})

	steps := [][]string{
		{"config", "set", "base_url", "http://fit.test:5000/"},
		{"config", "set", "timeout_seconds", "45s"},
		{"config", "set", "quick_prompt_mode", "prefill"},
		{"config", "set", "copy_to_clipboard", "true"},
	}
	for _, args := range steps {
		if _, _, err := runCLI(t, deps, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}
	if ui.configCalls != 0 {
		t.Error("subcommands should not open the menu")
	}

	out, _, err := runCLI(t, deps, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("show is not JSON: %v\n%s", err, out)
	}
	if cfg.BaseURL != "http://fit.test:5000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 45 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if cfg.QuickPromptMode != models.QuickPromptPrefill {
		t.Errorf("QuickPromptMode = %q", cfg.QuickPromptMode)
	}
	if !cfg.CopyToClipboard {
		t.Error("CopyToClipboard not saved")
	}
}

func TestConfigCommand_SetRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "model", "x"}},
		{"bad url", []string{"config", "set", "base_url", "localhost"}},
		{"zero timeout", []string{"config", "set", "timeout_seconds", "0"}},
		{"bad mode", []string{"config", "set", "quick_prompt_mode", "auto"}},
		{"missing value", []string{"config", "set", "verbose"}},
		{"unknown theme", []string{"config", "set", "tui_theme", "bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			deps, _, _, _ := testDeps(&api.MockClient{})
			if _, _, err := runCLI(t, deps, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigCommand_SetIgnoresEnvOverrides(t *testing.T) {
	testEnv(t)
	t.Setenv(config.EnvBaseURL, "http://from-env:9000")
	deps, _, _, _ := testDeps(&api.MockClient{})

	if _, _, err := runCLI(t, deps, "config", "set", "verbose", "true"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	stored, err := config.LoadConfigFile()
	if err != nil {
		t.Fatal(err)
	}
	if stored.BaseURL != models.DefaultBaseURL {
		t.Errorf("env override leaked into the file: %q", stored.BaseURL)
	}
}

func TestConfigCommand_SetTheme(t *testing.T) {
	testEnv(t)
	deps, _, _, _ := testDeps(&api.MockClient{})

	if _, _, err := runCLI(t, deps, "config", "set", "tui_theme", "Nord"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	stored, err := config.LoadConfigFile()
	if err != nil {
		t.Fatal(err)
	}
	if stored.TUITheme != "nord" {
		t.Errorf("TUITheme = %q, want nord", stored.TUITheme)
	}
}

func TestConfigCommand_Reset(t *testing.T) {
	testEnv(t)
	deps, _, _, _ := testDeps(&api.MockClient{})

	if _, _, err := runCLI(t, deps, "config", "set", "timeout_seconds", "10"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, deps, "config", "reset"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	stored, err := config.LoadConfigFile()
	if err != nil {
		t.Fatal(err)
	}
	if stored.TimeoutSeconds != config.DefaultConfig().TimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d after reset", stored.TimeoutSeconds)
	}
}
