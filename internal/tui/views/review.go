package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/session"
	"github.com/f3rmion/kana/internal/store"
	"github.com/f3rmion/kana/internal/words"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// Review view styles
var (
	reviewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				Background(lipgloss.Color("#1a1a2e")).
				Padding(0, 1)

	reviewHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc")).
				MarginTop(1)

	reviewUnitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true)

	reviewBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	reviewMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	reviewErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true)
)

// reviewLimit caps the stored units shown.
const reviewLimit = 20

// DrillMsg asks the app to quiz the given set.
type DrillMsg struct {
	Set *words.Set
}

type reviewLoadedMsg struct {
	units []store.UnitCount
	err   error
}

// ReviewModel lists the units missed in this session and overall.
type ReviewModel struct {
	checker *romaji.Checker
	store   *store.Store
	log     *zap.Logger

	tally  []session.UnitCount
	stored []store.UnitCount
	err    error

	width  int
	height int
}

// NewReviewModel creates a review view. st may be nil.
func NewReviewModel(checker *romaji.Checker, st *store.Store, log *zap.Logger) ReviewModel {
	if log == nil {
		log = zap.NewNop()
	}
	return ReviewModel{checker: checker, store: st, log: log}
}

// SetSize updates the view dimensions.
func (m *ReviewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTally sets the mistakes of the running session.
func (m *ReviewModel) SetTally(tally []session.UnitCount) {
	m.tally = tally
}

// Refresh reloads the stored mistake counts.
func (m ReviewModel) Refresh() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		units, err := st.ReviewUnits(context.Background(), reviewLimit)
		return reviewLoadedMsg{units: units, err: err}
	}
}

func (m ReviewModel) clear() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		if err := st.ClearMistakes(context.Background()); err != nil {
			return reviewLoadedMsg{err: err}
		}
		return reviewLoadedMsg{}
	}
}

// units merges session and stored mistakes, session first.
func (m ReviewModel) units() []kana.Unit {
	var out []kana.Unit
	seen := make(map[kana.Unit]bool)
	for _, uc := range m.tally {
		if !seen[uc.Unit] {
			seen[uc.Unit] = true
			out = append(out, uc.Unit)
		}
	}
	for _, uc := range m.stored {
		if !seen[uc.Unit] {
			seen[uc.Unit] = true
			out = append(out, uc.Unit)
		}
	}
	return out
}

func (m ReviewModel) drill() tea.Cmd {
	units := m.units()
	if len(units) == 0 {
		return nil
	}
	checker := m.checker
	return func() tea.Msg {
		table, err := checker.Loader().Table(context.Background())
		if err != nil {
			return reviewLoadedMsg{err: err}
		}
		return DrillMsg{Set: words.ReviewDrills(table, units)}
	}
}

// Update handles messages.
func (m ReviewModel) Update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.log.Error("loading review units", zap.Error(msg.err))
			return m, nil
		}
		m.stored = msg.units
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.Refresh()
		case "d", "enter":
			return m, m.drill()
		case "c":
			m.stored = nil
			return m, m.clear()
		}
	}
	return m, nil
}

// View renders the review view.
func (m ReviewModel) View() string {
	var b strings.Builder

	b.WriteString(reviewTitleStyle.Render("Review"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(reviewErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(reviewHeaderStyle.Render("This session"))
	b.WriteString("\n")
	if len(m.tally) == 0 {
		b.WriteString(reviewMutedStyle.Render("  no mistakes yet"))
		b.WriteString("\n")
	}
	for _, uc := range m.tally {
		b.WriteString(reviewRow(uc.Unit, uc.Count))
	}

	if m.store != nil {
		b.WriteString(reviewHeaderStyle.Render("All time"))
		b.WriteString("\n")
		if len(m.stored) == 0 {
			b.WriteString(reviewMutedStyle.Render("  nothing recorded"))
			b.WriteString("\n")
		}
		for _, uc := range m.stored {
			b.WriteString(reviewRow(uc.Unit, uc.Count))
		}
	}

	b.WriteString("\n")
	b.WriteString(reviewMutedStyle.Render("d: drill these units • r: refresh • c: clear history"))
	return b.String()
}

func reviewRow(unit kana.Unit, count int) string {
	bar := strings.Repeat("█", min(count, 30))
	return fmt.Sprintf("  %s %s %s\n",
		reviewUnitStyle.Render(runewidth.FillRight(string(unit), 6)),
		reviewBarStyle.Render(bar),
		reviewMutedStyle.Render(fmt.Sprintf("×%d", count)),
	)
}
