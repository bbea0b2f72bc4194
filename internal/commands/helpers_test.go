package commands

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diogo/fitbot/internal/api"
	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/conversation"
	"github.com/diogo/fitbot/internal/tui"
)

// mockTUI records what the commands hand to the TUI
type mockTUI struct {
	mu          sync.Mutex
	asker       conversation.Asker
	chatOpts    tui.Options
	chatCalls   int
	configCalls int
	err         error
}

func (m *mockTUI) RunChat(asker conversation.Asker, opts tui.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asker = asker
	m.chatOpts = opts
	m.chatCalls++
	return m.err
}

func (m *mockTUI) RunConfig() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configCalls++
	return m.err
}

// clipRecorder stands in for the system clipboard
type clipRecorder struct {
	texts []string
	err   error
}

func (c *clipRecorder) write(s string) error {
	c.texts = append(c.texts, s)
	return c.err
}

// testEnv isolates config storage and resets package flags
func testEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvTimeout, "")
	t.Setenv(config.EnvQuickPromptMode, "")
	t.Setenv(config.EnvVerbose, "")
	t.Setenv(config.EnvAddr, "")

	baseURLFlag, timeoutFlag, verboseFlag = "", 0, false
	outputFlag, fileFlag, rawFlag = "", "", false
	t.Cleanup(func() {
		baseURLFlag, timeoutFlag, verboseFlag = "", 0, false
		outputFlag, fileFlag, rawFlag = "", "", false
	})
	return home
}

// testDeps wires a mock client, TUI and clipboard, recording the config
// each client was created with
func testDeps(client *api.MockClient) (*Dependencies, *mockTUI, *clipRecorder, *[]config.Config) {
	ui := &mockTUI{}
	clip := &clipRecorder{}
	var seen []config.Config
	deps := &Dependencies{
		NewClient: func(cfg config.Config) (api.AnswerClient, error) {
			seen = append(seen, cfg)
			return client, nil
		},
		TUI:  ui,
		Copy: clip.write,
	}
	return deps, ui, clip, &seen
}

// runCLI executes the command tree with args and captures its output
func runCLI(t *testing.T, deps *Dependencies, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
