// Package components provides shared UI components for the TUI and CLI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/mattn/go-runewidth"
)

// Placeholder is shown for a unit the learner typed nothing for.
const Placeholder = "·"

// Column is one unit of a per-unit diff, sized to its widest row.
type Column struct {
	Kana    string
	Typed   string
	Hint    string // primary spelling, set only for wrong units
	Correct bool
	Width   int
}

// Columns lays out a detection result. Kana is double width in a
// terminal, so widths are measured in cells, not runes.
func Columns(res kana.ErrorDetectionResult) []Column {
	cols := make([]Column, 0, len(res.Characters))
	for _, c := range res.Characters {
		col := Column{
			Kana:    string(c.Unit),
			Typed:   c.UserInput,
			Correct: c.Correct,
		}
		if col.Typed == "" {
			col.Typed = Placeholder
		}
		if !c.Correct && len(c.ValidRomaji) > 0 {
			col.Hint = c.ValidRomaji[0]
		}
		col.Width = max(
			runewidth.StringWidth(col.Kana),
			runewidth.StringWidth(col.Typed),
			runewidth.StringWidth(col.Hint),
		)
		cols = append(cols, col)
	}
	return cols
}

// DiffStyles colour the rows of a diff.
type DiffStyles struct {
	Kana    lipgloss.Style
	Correct lipgloss.Style
	Wrong   lipgloss.Style
	Hint    lipgloss.Style
	Extra   lipgloss.Style
}

// DefaultDiffStyles match the TUI palette.
func DefaultDiffStyles() DiffStyles {
	return DiffStyles{
		Kana:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d")).Bold(true),
		Correct: lipgloss.NewStyle().Foreground(lipgloss.Color("#a8e6cf")),
		Wrong:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true).Underline(true),
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true),
		Extra:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Strikethrough(true),
	}
}

// PlainDiffStyles render without any decoration.
func PlainDiffStyles() DiffStyles {
	plain := lipgloss.NewStyle()
	return DiffStyles{Kana: plain, Correct: plain, Wrong: plain, Hint: plain, Extra: plain}
}

// RenderDiff draws the kana row over the typed row, one column per unit.
// With hints, a third row shows the expected spelling under wrong units.
// Unmatched trailing input is appended to the typed row after a "+".
func RenderDiff(res kana.ErrorDetectionResult, st DiffStyles, hints bool) string {
	cols := Columns(res)
	if len(cols) == 0 {
		return ""
	}

	var kanaRow, typedRow, hintRow []string
	anyHint := false
	for _, c := range cols {
		kanaRow = append(kanaRow, st.Kana.Render(runewidth.FillRight(c.Kana, c.Width)))

		typed := runewidth.FillRight(c.Typed, c.Width)
		if c.Correct {
			typedRow = append(typedRow, st.Correct.Render(typed))
		} else {
			typedRow = append(typedRow, st.Wrong.Render(typed))
		}

		hintRow = append(hintRow, st.Hint.Render(runewidth.FillRight(c.Hint, c.Width)))
		if c.Hint != "" {
			anyHint = true
		}
	}

	typedLine := strings.Join(typedRow, " ")
	if res.ExtraInput != "" {
		typedLine += " " + st.Extra.Render("+"+res.ExtraInput)
	}

	lines := []string{strings.Join(kanaRow, " "), typedLine}
	if hints && anyHint {
		lines = append(lines, strings.Join(hintRow, " "))
	}
	return strings.Join(lines, "\n")
}

// Summary describes a result in one line.
func Summary(res kana.ErrorDetectionResult) string {
	total := res.CorrectCount + res.IncorrectCount
	s := fmt.Sprintf("%d/%d units correct", res.CorrectCount, total)
	if res.ExtraInput != "" {
		s += fmt.Sprintf(", extra input %q", res.ExtraInput)
	}
	return s
}
