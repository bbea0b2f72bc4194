package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/fitbot/internal/conversation"
	"github.com/diogo/fitbot/internal/models"
	"github.com/diogo/fitbot/internal/render"
)

const (
	inputPlaceholder = "Tanya tentang workout, nutrisi, atau tips fitness..."
	maxQuickPrompts  = 9
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// replyMsg carries the settled assistant message of an exchange
	replyMsg struct {
		reply models.Message
	}
	// appendedMsg is delivered for every message the controller appends
	appendedMsg struct {
		msg models.Message
	}
	noticeClearMsg struct{}
)

// Options configures the chat model
type Options struct {
	Prompts  []models.QuickPrompt
	Mode     models.QuickPromptMode
	Timeout  time.Duration
	Greeting string
	Subtitle string
	Logger   *slog.Logger
	Render   render.Options
	// AutoCopy copies every answer to the clipboard
	AutoCopy bool
	// Copy writes text to the clipboard; defaults to the system clipboard
	Copy func(string) error
}

// DefaultOptions returns chat options matching the web chat
func DefaultOptions() Options {
	return Options{
		Prompts:  models.DefaultQuickPrompts(),
		Mode:     models.DefaultQuickPromptMode,
		Timeout:  conversation.DefaultTimeout,
		Greeting: models.WelcomeMessage,
		Render:   render.DefaultOptions(),
	}
}

// Model represents the chat TUI state
type Model struct {
	ctrl     *conversation.Controller
	appended chan models.Message
	ctx      context.Context

	prompts    []models.QuickPrompt
	subtitle   string
	renderOpts render.Options
	autoCopy   bool
	copyFn     func(string) error
	logger     *slog.Logger

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	loading        bool
	ready          bool
	notice         string
	animationFrame int

	width  int
	height int
}

// NewChatModel creates a chat model whose conversation sends questions
// through asker
func NewChatModel(asker conversation.Asker, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	prompts := opts.Prompts
	if len(prompts) > maxQuickPrompts {
		prompts = prompts[:maxQuickPrompts]
	}

	// Buffered so the notifier never blocks the update loop; the viewport is
	// rebuilt from the controller so a dropped notification loses nothing.
	appended := make(chan models.Message, 16)
	notify := func(msg models.Message) {
		select {
		case appended <- msg:
		default:
		}
	}

	ctrl := conversation.New(asker,
		conversation.WithTimeout(opts.Timeout),
		conversation.WithQuickPromptMode(opts.Mode),
		conversation.WithGreeting(opts.Greeting),
		conversation.WithNotifier(notify),
		conversation.WithLogger(logger),
	)

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctrl:       ctrl,
		appended:   appended,
		ctx:        context.Background(),
		prompts:    prompts,
		subtitle:   opts.Subtitle,
		renderOpts: opts.Render,
		autoCopy:   opts.AutoCopy,
		copyFn:     copyFn,
		logger:     logger,
		textarea:   ta,
		spinner:    s,
	}
}

// Controller exposes the conversation behind the model
func (m Model) Controller() *conversation.Controller {
	return m.ctrl
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.waitForAppend(),
	)
}

// waitForAppend delivers the next controller notification
func (m Model) waitForAppend() tea.Cmd {
	ch := m.appended
	return func() tea.Msg {
		return appendedMsg{msg: <-ch}
	}
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearNotice(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return noticeClearMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		promptsHeight := 3
		inputHeight := 4
		statusHeight := 1
		noticeHeight := 1

		vpHeight := m.height - headerHeight - promptsHeight - inputHeight - statusHeight - noticeHeight - 2
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			switch input {
			case "exit", "quit", "/exit", "/quit":
				return m, tea.Quit
			}
			m.ctrl.SetInput(m.textarea.Value())
			return m.submit(m.ctrl.Input())

		case "ctrl+y":
			return m.copyLastAnswer()
		}

		if idx, ok := quickPromptIndex(key); ok {
			return m.triggerQuickPrompt(idx)
		}

		if m.loading {
			// input is frozen while waiting for a response
			break
		}
		m.textarea, cmd = m.textarea.Update(msg)
		m.ctrl.SetInput(m.textarea.Value())
		cmds = append(cmds, cmd)

	case appendedMsg:
		m.updateViewport()
		m.viewport.GotoBottom()
		cmds = append(cmds, m.waitForAppend())

	case replyMsg:
		m.loading = false
		m.updateViewport()
		m.viewport.GotoBottom()
		if m.autoCopy && msg.reply.Content != models.FallbackAnswer {
			if err := m.copyFn(msg.reply.Content); err != nil {
				m.logger.Warn("clipboard copy failed", "error", err)
			}
		}

	case noticeClearMsg:
		m.notice = ""

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit starts an exchange. The user message shows up at once; the answer
// arrives later as a replyMsg.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	ex, ok := m.ctrl.Begin(text)
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.loading = true
	m.notice = ""
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.resolve(ex),
		m.spinner.Tick,
		animationTick(),
	)
}

func (m Model) resolve(ex *conversation.Exchange) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return replyMsg{reply: ctrl.Resolve(ctx, ex)}
	}
}

// quickPromptIndex maps alt+1..alt+9 to a zero-based prompt index
func quickPromptIndex(key string) (int, bool) {
	if len(key) != 5 || !strings.HasPrefix(key, "alt+") {
		return 0, false
	}
	d := key[4]
	if d < '1' || d > '9' {
		return 0, false
	}
	return int(d - '1'), true
}

func (m Model) triggerQuickPrompt(idx int) (tea.Model, tea.Cmd) {
	if m.loading || idx >= len(m.prompts) {
		return m, nil
	}
	prompt := m.prompts[idx].Prompt

	if m.ctrl.Mode() == models.QuickPromptPrefill {
		m.ctrl.QuickPrompt(m.ctx, prompt)
		m.textarea.SetValue(m.ctrl.Input())
		return m, nil
	}
	return m.submit(prompt)
}

func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	answer, ok := m.ctrl.LastAnswer()
	if !ok {
		m.notice = "Belum ada jawaban untuk disalin"
		return m, clearNotice(2 * time.Second)
	}
	if err := m.copyFn(answer.Content); err != nil {
		m.logger.Warn("clipboard copy failed", "error", err)
		m.notice = fmt.Sprintf("Clipboard error: %v", err)
		return m, clearNotice(3 * time.Second)
	}
	m.notice = "Jawaban terakhir disalin ke clipboard"
	return m, clearNotice(2 * time.Second)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	headerParts := []string{titleStyle.Render("💪 FitBot")}
	if m.subtitle != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.subtitle),
		)
	}
	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...),
	)
	sections = append(sections, header)

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	if bar := m.renderQuickPrompts(); bar != "" {
		sections = append(sections, bar)
	}

	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("Kamu"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderQuickPrompts() string {
	if len(m.prompts) == 0 {
		return ""
	}

	chips := make([]string, 0, len(m.prompts))
	for i, p := range m.prompts {
		label := fmt.Sprintf("%s %s", quickPromptKeyStyle.Render(fmt.Sprintf("⌥%d", i+1)), p.Label)
		style := quickPromptStyle
		if m.loading {
			label = fmt.Sprintf("⌥%d %s", i+1, p.Label)
			style = quickPromptDisabledStyle
		}
		chips = append(chips, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderLoadingAnimation() string {
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}
	frame := m.animationFrame

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" FitBot sedang mengetik ")
	return fmt.Sprintf("%s %s %s %s", m.spinner.View(), bar.String(), text, dots.String())
}

func (m Model) renderStatusBar(width int) string {
	bar := renderShortcuts(
		[2]string{"Enter", "Send"},
		[2]string{"⌥1-9", "Quick prompt"},
		[2]string{"Ctrl+Y", "Copy answer"},
		[2]string{"↑↓", "Scroll"},
		[2]string{"Esc", "Quit"},
	)
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport rebuilds the transcript from the controller
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		stamp := timestampStyle.Render(" " + msg.Timestamp.Format("15:04"))

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ Kamu") + stamp
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ FitBot") + stamp
			rendered := render.Answer(msg.Content, m.renderOpts.WithWidth(bubbleWidth-4))
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(asker conversation.Asker, opts Options) error {
	m := NewChatModel(asker, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
