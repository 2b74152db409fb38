package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/kana"
)

// Settings view styles
var (
	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				MarginBottom(1)

	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	settingsTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 2)

	settingsTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	settingsKeyStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc")).
				Width(18)

	settingsRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	settingsMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	settingsSavedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true)

	settingsHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				MarginTop(1)
)

var settingsTabs = []string{"Quiz", "Data", "Log"}

// scriptChoices is the cycle for the scripts setting.
var scriptChoices = [][]kana.Script{
	{kana.Hiragana, kana.Katakana},
	{kana.Hiragana},
	{kana.Katakana},
}

// SettingsChangedMsg carries the edited quiz configuration.
type SettingsChangedMsg struct {
	Quiz config.QuizConfig
}

// SettingsModel shows the configuration and edits the quiz section.
type SettingsModel struct {
	config *config.Config
	path   string

	tab    int
	status string
	err    error

	width  int
	height int
}

// NewSettingsModel creates a settings view for cfg, saved to path.
func NewSettingsModel(cfg *config.Config, path string) SettingsModel {
	if cfg == nil {
		cfg = config.Default()
	}
	return SettingsModel{config: cfg, path: path}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m SettingsModel) changed() tea.Cmd {
	quiz := m.config.Quiz
	quiz.Scripts = append([]kana.Script(nil), quiz.Scripts...)
	return func() tea.Msg {
		return SettingsChangedMsg{Quiz: quiz}
	}
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % len(settingsTabs)
		return m, nil
	case "shift+tab", "left", "h":
		m.tab = (m.tab + len(settingsTabs) - 1) % len(settingsTabs)
		return m, nil
	case "w":
		m.err = config.Save(m.path, m.config)
		m.status = ""
		if m.err == nil {
			m.status = "saved to " + m.path
		}
		return m, nil
	}

	if m.tab != 0 {
		return m, nil
	}

	quiz := &m.config.Quiz
	switch key.String() {
	case "m":
		if quiz.Mode == config.ModeInfinite {
			quiz.Mode = config.ModeSession
		} else {
			quiz.Mode = config.ModeInfinite
		}
	case "f":
		if quiz.Feedback == config.FeedbackLive {
			quiz.Feedback = config.FeedbackSubmit
		} else {
			quiz.Feedback = config.FeedbackLive
		}
	case "s":
		next := scriptChoices[(scriptIndex(quiz.Scripts)+1)%len(scriptChoices)]
		quiz.Scripts = append([]kana.Script(nil), next...)
	case "+", "=":
		quiz.SessionLength += 5
	case "-":
		quiz.SessionLength = max(quiz.SessionLength-5, 5)
	default:
		return m, nil
	}
	m.status = ""
	return m, m.changed()
}

func scriptIndex(scripts []kana.Script) int {
	for i, choice := range scriptChoices {
		if len(choice) != len(scripts) {
			continue
		}
		match := true
		for j := range choice {
			if choice[j] != scripts[j] {
				match = false
			}
		}
		if match {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(settingsTitleStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Config: " + m.path))
	b.WriteString("\n\n")

	var tabs []string
	for i, t := range settingsTabs {
		style := settingsTabStyle
		if i == m.tab {
			style = settingsTabActiveStyle
		}
		tabs = append(tabs, style.Render(t))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(settingsMutedStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 10))))
	b.WriteString("\n\n")

	switch m.tab {
	case 0:
		b.WriteString(m.renderQuiz())
	case 1:
		b.WriteString(m.renderData())
	case 2:
		b.WriteString(m.renderLog())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("Error: " + m.err.Error()))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(settingsSavedStyle.Render(m.status))
	}

	b.WriteString("\n")
	help := "tab/←→: switch tabs • w: write config"
	if m.tab == 0 {
		help = "m: mode • f: feedback • s: scripts • +/-: length • " + help
	}
	b.WriteString(settingsHelpStyle.Render(help))
	return b.String()
}

func settingsRow(key, value string) string {
	return settingsKeyStyle.Render(key) + settingsRowStyle.Render(value) + "\n"
}

func orDefault(s, def string) string {
	if s == "" {
		return settingsMutedStyle.Render(def)
	}
	return s
}

func (m SettingsModel) renderQuiz() string {
	q := m.config.Quiz
	scripts := make([]string, len(q.Scripts))
	for i, s := range q.Scripts {
		scripts[i] = string(s)
	}

	var b strings.Builder
	b.WriteString(settingsRow("mode", q.Mode))
	b.WriteString(settingsRow("session length", fmt.Sprint(q.SessionLength)))
	b.WriteString(settingsRow("scripts", strings.Join(scripts, ", ")))
	b.WriteString(settingsRow("groups", orDefault(strings.Join(q.Groups, ", "), "all")))
	b.WriteString(settingsRow("feedback", q.Feedback))
	return b.String()
}

func (m SettingsModel) renderData() string {
	d := m.config.Data
	var b strings.Builder
	b.WriteString(settingsRow("dictionary", orDefault(d.Dictionary, "built in")))
	b.WriteString(settingsRow("store", orDefault(d.Store, "default")))
	if len(d.Words) == 0 {
		b.WriteString(settingsRow("word sets", settingsMutedStyle.Render("built in")))
	}
	for i, w := range d.Words {
		key := ""
		if i == 0 {
			key = "word sets"
		}
		b.WriteString(settingsRow(key, w))
	}
	return b.String()
}

func (m SettingsModel) renderLog() string {
	l := m.config.Log
	var b strings.Builder
	b.WriteString(settingsRow("level", l.Level))
	b.WriteString(settingsRow("format", l.Format))
	b.WriteString(settingsRow("file", orDefault(l.File, "stderr")))
	return b.String()
}
