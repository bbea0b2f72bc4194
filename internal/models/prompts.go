package models

import (
	"fmt"
	"strings"
)

// QuickPrompt is a predefined question offered as a shortcut
type QuickPrompt struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// QuickPromptMode selects what triggering a quick prompt does
type QuickPromptMode string

const (
	// QuickPromptSubmit sends the prompt immediately
	QuickPromptSubmit QuickPromptMode = "submit"
	// QuickPromptPrefill only places the prompt in the input buffer
	QuickPromptPrefill QuickPromptMode = "prefill"
)

// DefaultQuickPromptMode matches the main chat page, which auto-submits.
const DefaultQuickPromptMode = QuickPromptSubmit

// ParseQuickPromptMode parses a mode name (case-insensitive)
func ParseQuickPromptMode(s string) (QuickPromptMode, error) {
	switch QuickPromptMode(strings.ToLower(strings.TrimSpace(s))) {
	case QuickPromptSubmit:
		return QuickPromptSubmit, nil
	case QuickPromptPrefill:
		return QuickPromptPrefill, nil
	default:
		return "", fmt.Errorf("unknown quick prompt mode %q (want %q or %q)", s, QuickPromptSubmit, QuickPromptPrefill)
	}
}

// DefaultQuickPrompts returns the built-in quick prompts
func DefaultQuickPrompts() []QuickPrompt {
	return []QuickPrompt{
		{Label: "💪 Program Workout", Prompt: "Buatkan program workout untuk pemula"},
		{Label: "🥗 Nutrisi Sehat", Prompt: "Bagaimana nutrisi sehat dasar untuk permulaan fitness?"},
		{Label: "🏋️ Build Muscle", Prompt: "Bagaimana cara membangun otot dengan efektif?"},
	}
}
