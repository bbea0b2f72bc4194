package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/fitbot/internal/config"
	apierrors "github.com/diogo/fitbot/internal/errors"
	"github.com/diogo/fitbot/internal/render"
)

// askOptions controls how a one-shot answer is presented
type askOptions struct {
	// Raw prints only the answer text: no spinner, no markdown, no bubble
	Raw    bool
	Output string
	Stdout io.Writer
	Stderr io.Writer
}

// runAsk sends a single question and prints the answer.
// Failures are returned so the process exits non-zero.
func runAsk(ctx context.Context, deps *Dependencies, cfg config.Config, question string, opts askOptions) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuestion
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(opts.Stderr, cfg.Verbose)
	logger.Debug("asking", "base_url", cfg.BaseURL, "timeout", cfg.Timeout(), "chars", len(question))

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeClient(client)

	var spin *spinner
	if !opts.Raw {
		spin = newSpinnerTo(opts.Stderr, "FitBot sedang mengetik").withLimit(cfg.Timeout())
		spin.start()
	}

	startTime := time.Now()
	answer, err := client.Ask(ctx, question)
	requestDuration := time.Since(startTime)

	if err != nil {
		logger.Debug("ask failed", "reason", string(apierrors.GetReason(err)), "duration", requestDuration)
		wrapped := fmt.Errorf("request failed: %w", err)
		if opts.Raw {
			return wrapped
		}
		spin.stopWithError()
		fmt.Fprintln(opts.Stderr, formatErrorMessage(err, "Request failed"))
		return &reportedError{err: wrapped}
	}
	logger.Debug("ask succeeded", "duration", requestDuration.Round(time.Millisecond), "chars", len(answer))

	if opts.Raw {
		if opts.Output != "" {
			return writeAnswerFile(opts.Output, answer)
		}
		fmt.Fprint(opts.Stdout, answer)
		return nil
	}

	spin.stopWithSuccess("Done")
	return presentAnswer(deps, cfg, answer, opts)
}

// presentAnswer prints a decorated answer: clipboard and file notices on
// stderr, the rendered bubble on stdout unless it went to a file
func presentAnswer(deps *Dependencies, cfg config.Config, answer string, opts askOptions) error {
	c := currentPalette()
	say := func(color lipgloss.Color, format string, args ...any) {
		fmt.Fprintln(opts.Stderr, lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf(format, args...)))
	}

	fmt.Fprintln(opts.Stderr)

	if cfg.CopyToClipboard && deps.Copy != nil {
		if err := deps.Copy(answer); err != nil {
			say(c.failed, "⚠ Failed to copy to clipboard: %v", err)
		} else {
			say(c.success, "✓ Copied to clipboard")
		}
	}

	if opts.Output != "" {
		if err := writeAnswerFile(opts.Output, answer); err != nil {
			return err
		}
		say(c.success, "✓ Answer saved to %s", opts.Output)
		return nil
	}

	bubbleWidth := clampWidth(getTerminalWidth() - 4)
	label := lipgloss.NewStyle().Foreground(c.primary).Bold(true).Render("✦ FitBot")
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c.primary).
		Foreground(c.text).
		Padding(0, 1).
		Margin(1, 0).
		Width(bubbleWidth)

	rendered := render.Answer(answer, render.OptionsFromConfig(cfg).WithWidth(bubbleWidth-4))
	fmt.Fprintln(opts.Stdout, label)
	fmt.Fprintln(opts.Stdout, bubble.Render(rendered))
	return nil
}

func writeAnswerFile(path, answer string) error {
	if err := os.WriteFile(path, []byte(answer), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// clampWidth keeps the answer bubble readable on very narrow or wide terminals
func clampWidth(w int) int {
	if w < 40 {
		return 40
	}
	if w > 120 {
		return 120
	}
	return w
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// errorHints explains each failure reason in terms of what the user can do
var errorHints = map[apierrors.Reason]string{
	apierrors.ReasonTransport: "Is the answer service running? Check --base-url or 'fitbot health'",
	apierrors.ReasonTimeout:   "Request timed out. Try again or raise --timeout",
	apierrors.ReasonMalformed: `The service replied without an "answer" field`,
	apierrors.ReasonStatus:    "The answer service rejected the request. Check its logs",
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	c := currentPalette()
	errorStyle := lipgloss.NewStyle().Foreground(c.failed)
	dimStyle := lipgloss.NewStyle().Foreground(c.dim)

	lines := []string{errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err))}

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		lines = append(lines, dimStyle.Render("  Endpoint: "+endpoint))
	}

	// a response body replaces the generic hint
	if body := apierrors.GetResponseBody(err); body != "" {
		lines = append(lines, "", dimStyle.Render("  "+strings.ReplaceAll(body, "\n", "\n  ")))
	} else if hint, ok := errorHints[apierrors.GetReason(err)]; ok {
		lines = append(lines, dimStyle.Render("  Hint: "+hint))
	}

	return strings.Join(lines, "\n")
}
