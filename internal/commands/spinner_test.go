package commands

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(&out, "FitBot sedang mengetik")
	s.start()
	// Let it spin briefly
	time.Sleep(200 * time.Millisecond)
	s.stopWithSuccess("done")

	got := out.String()
	if !strings.Contains(got, "FitBot sedang mengetik") {
		t.Errorf("spinner never rendered its message: %q", got)
	}
	if !strings.Contains(got, "done") {
		t.Errorf("missing success message: %q", got)
	}
	if !strings.Contains(got, "\033[?25h") {
		t.Error("cursor should be restored")
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(&out, "Connecting")
	s.start()
	time.Sleep(30 * time.Millisecond)
	// Should stop cleanly on error (no panic)
	s.stopWithError()
}

func TestSpinner_DoubleStop(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(&out, "x")
	s.start()
	s.stopOnce()
	s.stopWithError()
}

func TestSpinnerLine_Clock(t *testing.T) {
	tests := []struct {
		name    string
		limit   time.Duration
		elapsed time.Duration
		want    string
	}{
		{"no limit", 0, 3 * time.Second, "3s"},
		{"with limit", 60 * time.Second, 3 * time.Second, "3s/60s"},
		{"past limit", 10 * time.Second, 12 * time.Second, "12s/10s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSpinnerTo(&syncBuffer{}, "waiting").withLimit(tt.limit)
			line := s.line(tt.elapsed)
			if !strings.Contains(line, tt.want) || !strings.Contains(line, "waiting") {
				t.Errorf("line() = %q, want it to contain %q", line, tt.want)
			}
		})
	}
}

func TestSpinnerBar_FillsTowardLimit(t *testing.T) {
	s := newSpinnerTo(&syncBuffer{}, "x").withLimit(10 * time.Second)

	tests := []struct {
		elapsed    time.Duration
		wantFilled int
	}{
		{0, 0},
		{5 * time.Second, spinnerBarWidth / 2},
		{10 * time.Second, spinnerBarWidth},
		{30 * time.Second, spinnerBarWidth},
	}
	for _, tt := range tests {
		bar := s.bar(tt.elapsed)
		if got := strings.Count(bar, "▰"); got != tt.wantFilled {
			t.Errorf("bar(%v) filled = %d, want %d", tt.elapsed, got, tt.wantFilled)
		}
		if got := strings.Count(bar, "▰") + strings.Count(bar, "▱"); got != spinnerBarWidth {
			t.Errorf("bar(%v) width = %d", tt.elapsed, got)
		}
	}
}
