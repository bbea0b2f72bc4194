// Package conversation owns the state of a fitbot chat: the ordered message
// list, the pending input and the busy flag.
//
// A Controller accepts one submission at a time. While an exchange is in
// flight every new submission is silently dropped; it is a gate, not a queue.
// Failures of the answer service never escape the controller: they become a
// fixed fallback assistant message and the controller returns to idle.
package conversation

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	apierrors "github.com/diogo/fitbot/internal/errors"
	"github.com/diogo/fitbot/internal/models"
)

// DefaultTimeout bounds one exchange when no timeout option is given
const DefaultTimeout = 60 * time.Second

// Asker is the outbound call the controller makes for each submission
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskerFunc adapts a function to Asker
type AskerFunc func(ctx context.Context, question string) (string, error)

// Ask calls f
func (f AskerFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// Notifier is called after every append with the appended message.
// Hosts use it to scroll to the latest message.
type Notifier func(models.Message)

// Exchange is one accepted submission waiting for its answer
type Exchange struct {
	Question models.Message

	once  sync.Once
	reply models.Message
}

// Reply returns the settled assistant message, or the zero Message if the
// exchange has not been resolved
func (e *Exchange) Reply() models.Message {
	return e.reply
}

// Controller is the conversation state machine
type Controller struct {
	asker    Asker
	timeout  time.Duration
	mode     models.QuickPromptMode
	notify   Notifier
	logger   *slog.Logger
	now      func() time.Time
	greeting string

	mu       sync.Mutex
	messages []models.Message
	input    string
	status   models.Status
}

// Option configures a Controller
type Option func(*Controller)

// WithTimeout bounds each outbound call; zero or negative disables the bound
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithQuickPromptMode selects what QuickPrompt does. Names are matched
// case-insensitively; unknown names keep the default.
func WithQuickPromptMode(mode models.QuickPromptMode) Option {
	return func(c *Controller) {
		if parsed, err := models.ParseQuickPromptMode(string(mode)); err == nil {
			c.mode = parsed
		}
	}
}

// WithNotifier installs the append callback
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notify = n
	}
}

// WithGreeting seeds the conversation with an assistant message
func WithGreeting(text string) Option {
	return func(c *Controller) {
		c.greeting = text
	}
}

// WithLogger sets the logger used for failure diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for message timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates an idle controller that sends questions through asker
func New(asker Asker, opts ...Option) *Controller {
	c := &Controller{
		asker:   asker,
		timeout: DefaultTimeout,
		mode:    models.DefaultQuickPromptMode,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		status:  models.StatusIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	if strings.TrimSpace(c.greeting) != "" {
		c.messages = append(c.messages, models.NewMessage(models.RoleAssistant, c.greeting, c.now()))
	}

	return c
}

// Submit runs one complete exchange for text and blocks until it settles.
// It returns the assistant reply and true, or the zero Message and false when
// the submission was ignored (blank text, or another exchange in flight).
func (c *Controller) Submit(ctx context.Context, text string) (models.Message, bool) {
	ex, ok := c.Begin(text)
	if !ok {
		return models.Message{}, false
	}
	return c.Resolve(ctx, ex), true
}

// SubmitInput submits the pending input buffer
func (c *Controller) SubmitInput(ctx context.Context) (models.Message, bool) {
	return c.Submit(ctx, c.Input())
}

// Begin accepts a submission without waiting for the answer: it appends the
// user message, clears the input buffer and marks the controller busy. The
// returned Exchange must be passed to Resolve.
func (c *Controller) Begin(text string) (*Exchange, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.status != models.StatusIdle {
		c.mu.Unlock()
		c.logger.Debug("submission ignored while waiting for response")
		return nil, false
	}
	msg := models.NewMessage(models.RoleUser, text, c.now())
	c.messages = append(c.messages, msg)
	c.input = ""
	c.status = models.StatusWaiting
	c.mu.Unlock()

	c.logger.Debug("exchange started", "id", msg.ID, "chars", len(text))
	c.emit(msg)

	return &Exchange{Question: msg}, true
}

// Resolve issues the outbound call for ex, appends the answer (or the
// fallback) and returns the controller to idle. Resolving an exchange twice
// returns the first reply without another call.
func (c *Controller) Resolve(ctx context.Context, ex *Exchange) models.Message {
	ex.once.Do(func() {
		ex.reply = c.settle(c.ask(ctx, ex))
	})
	return ex.reply
}

// ask performs the outbound call and maps every failure to the fallback
func (c *Controller) ask(ctx context.Context, ex *Exchange) string {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := c.now()
	answer, err := c.asker.Ask(ctx, ex.Question.Content)
	if err != nil {
		c.logger.Warn("answer request failed",
			"id", ex.Question.ID,
			"reason", string(apierrors.GetReason(err)),
			"status", apierrors.GetHTTPStatus(err),
			"error", err,
		)
		return models.FallbackAnswer
	}

	c.logger.Debug("exchange settled", "id", ex.Question.ID, "elapsed", c.now().Sub(start))
	return answer
}

func (c *Controller) settle(content string) models.Message {
	c.mu.Lock()
	msg := models.NewMessage(models.RoleAssistant, content, c.now())
	c.messages = append(c.messages, msg)
	c.status = models.StatusIdle
	c.mu.Unlock()

	c.emit(msg)
	return msg
}

// QuickPrompt triggers a predefined prompt. In submit mode it behaves like
// Submit; in prefill mode it only replaces the input buffer and returns false.
// Quick prompts are ignored while an exchange is in flight.
func (c *Controller) QuickPrompt(ctx context.Context, text string) (models.Message, bool) {
	if c.Busy() {
		return models.Message{}, false
	}
	if c.mode == models.QuickPromptPrefill {
		c.SetInput(text)
		return models.Message{}, false
	}
	return c.Submit(ctx, text)
}

// Mode returns the configured quick prompt mode
func (c *Controller) Mode() models.QuickPromptMode {
	return c.mode
}

// SetInput replaces the pending input buffer
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Input returns the pending input buffer
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Messages returns a copy of the conversation in insertion order
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Last returns the most recent message
func (c *Controller) Last() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return models.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastAnswer returns the most recent assistant message
func (c *Controller) LastAnswer() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

// Status returns the busy/idle flag
func (c *Controller) Status() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Busy reports whether an exchange is in flight
func (c *Controller) Busy() bool {
	return c.Status() == models.StatusWaiting
}

// emit runs the notifier outside the lock
func (c *Controller) emit(msg models.Message) {
	if c.notify != nil {
		c.notify(msg)
	}
}
