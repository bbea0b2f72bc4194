package commands

import (
	"github.com/atotto/clipboard"

	"github.com/diogo/fitbot/internal/api"
	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/conversation"
	"github.com/diogo/fitbot/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(asker conversation.Asker, opts tui.Options) error
	RunConfig() error
}

// ClientFactory builds the answer client for a resolved configuration.
type ClientFactory func(cfg config.Config) (api.AnswerClient, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the answer service client.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Copy writes text to the clipboard.
	Copy func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(asker conversation.Asker, opts tui.Options) error {
	return tui.RunChat(asker, opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewAnswerClient is the production ClientFactory.
func NewAnswerClient(cfg config.Config) (api.AnswerClient, error) {
	return api.NewClient(cfg.BaseURL, api.WithTimeout(cfg.Timeout()))
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: NewAnswerClient,
		TUI:       &DefaultTUI{},
		Copy:      clipboard.WriteAll,
	}
}

// closeClient releases clients that hold connections
func closeClient(client api.AnswerClient) {
	if c, ok := client.(interface{ Close() }); ok {
		c.Close()
	}
}
