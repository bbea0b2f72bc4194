package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/fitbot/internal/render"
)

// palette holds the CLI colors, taken from the active TUI theme
type palette struct {
	text, dim, mute lipgloss.Color
	primary         lipgloss.Color
	success, failed lipgloss.Color
	bar             []lipgloss.Color
}

func currentPalette() palette {
	t := render.GetTUITheme()
	return palette{
		text:    t.Text,
		dim:     t.TextDim,
		mute:    t.TextMute,
		primary: t.Primary,
		success: t.Secondary,
		failed:  t.Error,
		bar:     []lipgloss.Color{t.Primary, t.Accent, t.Secondary, t.Warning},
	}
}

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerBarWidth = 20

// spinner shows a waiting line on a terminal while a request is in flight.
// With a limit set, the bar fills toward it so a slow answer is visible.
type spinner struct {
	message string
	limit   time.Duration
	out     io.Writer
	colors  palette
	started time.Time

	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinnerTo(out io.Writer, message string) *spinner {
	return &spinner{
		message: message,
		out:     out,
		colors:  currentPalette(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// withLimit makes the bar track elapsed time against limit
func (s *spinner) withLimit(limit time.Duration) *spinner {
	s.limit = limit
	return s
}

func (s *spinner) start() {
	s.started = time.Now()
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprint(s.out, "\r\033[K"+s.line(time.Since(s.started)))
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// line renders one frame for the given elapsed time
func (s *spinner) line(elapsed time.Duration) string {
	c := s.colors
	glyph := lipgloss.NewStyle().
		Foreground(c.bar[s.frame%len(c.bar)]).
		Bold(true).
		Render(spinnerFrames[s.frame%len(spinnerFrames)])

	parts := []string{glyph, s.bar(elapsed), lipgloss.NewStyle().Foreground(c.text).Render(s.message)}

	clock := fmt.Sprintf("%ds", int(elapsed.Seconds()))
	if s.limit > 0 {
		clock += fmt.Sprintf("/%ds", int(s.limit.Seconds()))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(c.dim).Render(clock))

	return strings.Join(parts, " ")
}

// bar is a progress bar against the limit, or a moving wave without one
func (s *spinner) bar(elapsed time.Duration) string {
	c := s.colors
	filled := -1
	if s.limit > 0 {
		filled = int(float64(spinnerBarWidth) * float64(elapsed) / float64(s.limit))
		if filled > spinnerBarWidth {
			filled = spinnerBarWidth
		}
	}

	var b strings.Builder
	for i := 0; i < spinnerBarWidth; i++ {
		color := c.bar[(i+s.frame)%len(c.bar)]
		cell := "▰"
		if filled >= 0 && i >= filled {
			color, cell = c.mute, "▱"
		} else if filled < 0 && (i+s.frame)%6 > 3 {
			color, cell = c.mute, "▱"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(cell))
	}
	return b.String()
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and prints message with the elapsed time
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	c := s.colors
	check := lipgloss.NewStyle().Foreground(c.success).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(c.success).Render(message)
	took := lipgloss.NewStyle().Foreground(c.dim).Render(
		fmt.Sprintf("(%s)", time.Since(s.started).Round(100*time.Millisecond)))
	fmt.Fprintf(s.out, "%s %s %s\n", check, msg, took)
}

// stopWithError stops the spinner; the caller prints the error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
