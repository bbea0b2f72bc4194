package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/diogo/fitbot/internal/api"
	"github.com/diogo/fitbot/internal/config"
)

func TestRunServe_StopsWithContext(t *testing.T) {
	deps, _, _, seen := testDeps(&api.MockClient{BaseURLVal: "http://fit.test"})

	cfg := config.DefaultConfig()
	cfg.Serve.Addr = "127.0.0.1:0"

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, deps, cfg, logger) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}

	if len(*seen) != 1 {
		t.Errorf("client created %d times", len(*seen))
	}
	if !strings.Contains(logs.String(), `"upstream":"http://fit.test"`) {
		t.Errorf("startup log missing upstream: %s", logs.String())
	}
}

func TestRunServe_BadAddr(t *testing.T) {
	deps, _, _, _ := testDeps(&api.MockClient{})
	cfg := config.DefaultConfig()
	cfg.Serve.Addr = "256.0.0.1:bad"

	if err := runServe(context.Background(), deps, cfg, newLogger(nil, false)); err == nil {
		t.Error("expected listen error")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be hidden without verbose: %q", buf.String())
	}
	newLogger(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug should show with verbose: %q", buf.String())
	}
}
