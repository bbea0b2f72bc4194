package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/fitbot/internal/config"
	"github.com/diogo/fitbot/internal/models"
	"github.com/diogo/fitbot/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewThemeSelect
	viewTUIThemeSelect
)

// Menu item indices for main view
const (
	menuQuickPromptMode = iota
	menuCopyToClipboard
	menuVerbose
	menuTheme
	menuTUITheme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	view           configView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a menu editing cfg; every change is persisted with save
func NewConfigModel(cfg config.Config, configPath string, save func(config.Config) error) ConfigModel {
	if save == nil {
		save = config.SaveConfig
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		view:            viewMain,
		themeCursor:     indexOf(render.ThemeNames(), render.ResolveStyle(cfg.Markdown.Style)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), cfg.TUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

// Config returns the edited configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// listLen returns the number of rows in the current view
func (m ConfigModel) listLen() int {
	switch m.view {
	case viewThemeSelect:
		return len(render.ThemeNames())
	case viewTUIThemeSelect:
		return len(render.TUIThemeNames())
	default:
		return menuItemCount
	}
}

// cursorPtr returns the cursor of the current view
func (m *ConfigModel) cursorPtr() *int {
	switch m.view {
	case viewThemeSelect:
		return &m.themeCursor
	case viewTUIThemeSelect:
		return &m.tuiThemeCursor
	default:
		return &m.cursor
	}
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			c, n := m.cursorPtr(), m.listLen()
			*c = (*c - 1 + n) % n

		case "down", "j":
			c, n := m.cursorPtr(), m.listLen()
			*c = (*c + 1) % n

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// persist saves the config and reports the outcome in the feedback line.
// A failed save puts prev back so the menu never shows an unsaved value.
func (m ConfigModel) persist(prev config.Config, success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		if prev.TUITheme != m.config.TUITheme {
			ApplyTheme(prev.TUITheme)
		}
		m.config = prev
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	m.view = viewMain
	return m, clearFeedback(m.feedbackTimeout)
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	prev := m.config

	switch m.view {
	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		return m.persist(prev, "Markdown theme set to "+m.config.Markdown.Style)

	case viewTUIThemeSelect:
		name := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = name
		ApplyTheme(name)
		return m.persist(prev, "TUI theme set to "+name)
	}

	switch m.cursor {
	case menuQuickPromptMode:
		if m.config.QuickPromptMode == models.QuickPromptPrefill {
			m.config.QuickPromptMode = models.QuickPromptSubmit
		} else {
			m.config.QuickPromptMode = models.QuickPromptPrefill
		}
		return m.persist(prev, "Quick prompts now "+string(m.config.QuickPromptMode))

	case menuCopyToClipboard:
		m.config.CopyToClipboard = !m.config.CopyToClipboard
		return m.persist(prev, "Copy to clipboard "+enabledWord(m.config.CopyToClipboard))

	case menuVerbose:
		m.config.Verbose = !m.config.Verbose
		return m.persist(prev, "Verbose logging "+enabledWord(m.config.Verbose))

	case menuTheme:
		m.view = viewThemeSelect
	case menuTUITheme:
		m.view = viewTUIThemeSelect
	case menuExit:
		return m, tea.Quit
	}

	return m, nil
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the menu
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("💪 FitBot Settings")))

	paths := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Service"),
		fmt.Sprintf("   Base URL: %s", configValueStyle.Render(m.config.BaseURL)),
		fmt.Sprintf("   Timeout:  %s", configValueStyle.Render(m.config.Timeout().String())),
		fmt.Sprintf("   Config:   %s", configPathStyle.Render(m.configPath)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))

	var body string
	switch m.view {
	case viewThemeSelect:
		body = m.renderChoice("Select Markdown Theme", render.ThemeNames(), m.themeCursor, render.ResolveStyle(m.config.Markdown.Style))
	case viewTUIThemeSelect:
		body = m.renderChoice("Select TUI Theme", render.TUIThemeNames(), m.tuiThemeCursor, m.config.TUITheme)
	default:
		body = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	bar := renderShortcuts(
		[2]string{"↑↓", "Navigate"},
		[2]string{"Enter", "Select"},
		[2]string{"Esc", back},
	)
	sections = append(sections, configStatusBarStyle.Width(contentWidth).Render(bar))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuRow renders one selectable row with its value right of a padded label
func menuRow(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Render(fmt.Sprintf("%-20s", label)) + value
}

func (m ConfigModel) renderMainMenu() string {
	boolValue := func(v bool) string {
		if v {
			return configEnabledStyle.Render("enabled")
		}
		return configDisabledStyle.Render("disabled")
	}

	rows := []string{
		configSectionTitleStyle.Render("Settings"),
		"",
		menuRow(m.cursor == menuQuickPromptMode, "Quick Prompt Mode", configValueStyle.Render(string(m.config.QuickPromptMode))),
		menuRow(m.cursor == menuCopyToClipboard, "Copy to Clipboard", boolValue(m.config.CopyToClipboard)),
		menuRow(m.cursor == menuVerbose, "Verbose Logging", boolValue(m.config.Verbose)),
		menuRow(m.cursor == menuTheme, "Markdown Theme", configValueStyle.Render(m.config.Markdown.Style)),
		menuRow(m.cursor == menuTUITheme, "TUI Theme", configValueStyle.Render(m.config.TUITheme)),
		"",
		menuRow(m.cursor == menuExit, "Exit", ""),
	}
	return strings.Join(rows, "\n")
}

func (m ConfigModel) renderChoice(title string, names []string, cursor int, current string) string {
	rows := []string{configSectionTitleStyle.Render(title), ""}
	for i, name := range names {
		mark := ""
		if name == current {
			mark = configCurrentStyle.Render(" (current)")
		}
		rows = append(rows, menuRow(i == cursor, name, "")+mark)
	}
	return strings.Join(rows, "\n")
}

// RunConfig starts the settings menu for the stored configuration
func RunConfig() error {
	cfg, err := config.LoadConfigFile()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	path, _ := config.GetConfigPath()

	ApplyTheme(cfg.TUITheme)

	p := tea.NewProgram(
		NewConfigModel(cfg, path, config.SaveConfig),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
