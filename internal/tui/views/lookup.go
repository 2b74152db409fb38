// Package views provides the individual views for the TUI.
package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kana/internal/clipboard"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/words"
	"github.com/mattn/go-runewidth"
)

// Lookup view styles
var (
	lookupTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				Background(lipgloss.Color("#1a1a2e")).
				Padding(0, 1)

	lookupSearchStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#ffe66d")).
				Padding(0, 1).
				Margin(1, 0)

	lookupRomajiStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ecdc4")).
				Bold(true)

	lookupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc"))

	lookupUnitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d"))

	lookupMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	lookupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true)

	lookupCopiedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true)
)

type lookupClearCopiedMsg struct{}

// lookupRow is one answer unit of the looked-up text.
type lookupRow struct {
	unit      kana.Unit
	group     string
	spellings []string
}

// LookupModel shows how kana text splits into answer units and which
// spellings each unit accepts.
type LookupModel struct {
	checker *romaji.Checker
	set     *words.Set

	input  textinput.Model
	text   string
	romaji string
	rows   []lookupRow
	word   *kana.JapaneseWord
	err    error
	copied bool

	width  int
	height int
}

// NewLookupModel creates a lookup view.
func NewLookupModel(checker *romaji.Checker) LookupModel {
	ti := textinput.New()
	ti.Placeholder = "Enter kana..."
	ti.Focus()
	ti.CharLimit = 50
	ti.Width = 30

	return LookupModel{checker: checker, input: ti}
}

// SetWordSet sets the set consulted for meanings.
func (m *LookupModel) SetWordSet(set *words.Set) {
	m.set = set
}

// SetSize updates the view dimensions.
func (m *LookupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InputFocused reports whether keystrokes go to the search field.
func (m LookupModel) InputFocused() bool {
	return m.input.Focused()
}

func (m *LookupModel) lookup() {
	m.text = strings.TrimSpace(m.input.Value())
	m.rows = nil
	m.romaji = ""
	m.word = nil
	if m.text == "" {
		return
	}

	table, err := m.checker.Loader().Table(context.Background())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	m.romaji = table.ToRomaji(m.text)
	for _, u := range romaji.Tokenize(m.text) {
		group := "-"
		if g := words.UnitGroups(table, string(u)); len(g) > 0 {
			group = strings.Join(g, "+")
		}
		m.rows = append(m.rows, lookupRow{
			unit:      u,
			group:     group,
			spellings: table.ValidRomaji(u),
		})
	}
	if m.set != nil {
		m.word = m.set.Lookup(m.text)
	}
}

// Update handles messages.
func (m LookupModel) Update(msg tea.Msg) (LookupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupClearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			if msg.String() == "enter" {
				m.lookup()
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "/", "i", "enter":
			m.input.SetValue("")
			return m, m.input.Focus()
		case "y":
			if m.romaji == "" {
				return m, nil
			}
			if err := clipboard.Write(m.romaji); err != nil {
				m.err = err
				return m, nil
			}
			m.copied = true
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return lookupClearCopiedMsg{}
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the lookup view.
func (m LookupModel) View() string {
	var b strings.Builder

	b.WriteString(lookupTitleStyle.Render("Lookup"))
	b.WriteString("\n")
	b.WriteString(lookupSearchStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(lookupErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.text != "" && m.err == nil {
		b.WriteString(lookupUnitStyle.Render(m.text))
		b.WriteString("  ")
		b.WriteString(lookupRomajiStyle.Render(m.romaji))
		if m.word != nil && m.word.Meaning != "" {
			b.WriteString("  ")
			b.WriteString(lookupMutedStyle.Render(m.word.Meaning))
		}
		if m.copied {
			b.WriteString("  ")
			b.WriteString(lookupCopiedStyle.Render("copied"))
		}
		b.WriteString("\n\n")
		b.WriteString(m.renderRows())
	}

	b.WriteString("\n")
	if m.input.Focused() {
		b.WriteString(lookupMutedStyle.Render("enter: look up"))
	} else {
		b.WriteString(lookupMutedStyle.Render("/: new lookup • y: copy romaji"))
	}
	return b.String()
}

func (m LookupModel) renderRows() string {
	const unitCol, groupCol = 8, 18

	var b strings.Builder
	b.WriteString(lookupHeaderStyle.Render(
		runewidth.FillRight("Unit", unitCol) + runewidth.FillRight("Group", groupCol) + "Spellings"))
	b.WriteString("\n")

	for _, r := range m.rows {
		spellings := "?"
		if len(r.spellings) > 0 {
			spellings = strings.Join(r.spellings, " / ")
		}
		b.WriteString(lookupUnitStyle.Render(runewidth.FillRight(string(r.unit), unitCol)))
		b.WriteString(lookupMutedStyle.Render(runewidth.FillRight(r.group, groupCol)))
		b.WriteString(spellings)
		b.WriteString("\n")
	}
	return b.String()
}
