package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kana/internal/clipboard"
	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/session"
	"github.com/f3rmion/kana/internal/store"
	"github.com/f3rmion/kana/internal/tui/bigchar"
	"github.com/f3rmion/kana/internal/tui/components"
	"go.uber.org/zap"
)

// Quiz view styles
var (
	quizTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 1)

	quizStatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	quizKanaStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436")).
			Padding(1, 4).
			Margin(1, 0)

	quizBigKanaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffe66d")).
				Margin(1, 0)

	quizMeaningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	quizInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffe66d")).
			Padding(0, 1).
			Margin(1, 0)

	quizCorrectStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true)

	quizWrongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	quizBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(1, 2).
			Margin(1, 0)

	quizHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

type quizState int

const (
	quizLoading quizState = iota
	quizUnavailable
	quizEmpty
	quizAsking
	quizAnswered
	quizFinished
)

// TableLoadedMsg reports the outcome of loading the kana table.
type TableLoadedMsg struct {
	Err error
}

type quizStoredMsg struct {
	op  string
	err error
}

type quizClearCopiedMsg struct{}

// QuizSettings controls how a quiz run is scored and paced.
type QuizSettings struct {
	Mode     session.Mode
	Length   int
	Feedback string
}

// QuizSettingsFrom maps the user config onto quiz settings.
func QuizSettingsFrom(cfg config.QuizConfig) QuizSettings {
	mode := session.Infinite
	if cfg.Mode == config.ModeSession {
		mode = session.Fixed
	}
	return QuizSettings{Mode: mode, Length: cfg.SessionLength, Feedback: cfg.Feedback}
}

// QuizModel asks kana words and checks the typed romaji.
type QuizModel struct {
	checker  *romaji.Checker
	store    *store.Store
	log      *zap.Logger
	big      *bigchar.Renderer
	settings QuizSettings
	opts     []session.Option

	setName string
	words   []kana.JapaneseWord
	sess    *session.Session
	word    kana.JapaneseWord

	state   quizState
	loadErr error
	input   textinput.Model

	result    kana.ErrorDetectionResult
	hasResult bool
	accepted  bool

	status string
	copied bool

	width  int
	height int
}

// NewQuizModel creates a quiz view. st may be nil, in which case nothing
// is persisted.
func NewQuizModel(checker *romaji.Checker, st *store.Store, log *zap.Logger, settings QuizSettings, opts ...session.Option) QuizModel {
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "type the romaji..."
	ti.CharLimit = 64
	ti.Width = 40

	return QuizModel{
		checker:  checker,
		store:    st,
		log:      log,
		settings: settings,
		opts:     opts,
		input:    ti,
	}
}

// SetBigChar sets the renderer used for the kana prompt.
func (m *QuizModel) SetBigChar(r *bigchar.Renderer) {
	m.big = r
}

// SetSize updates the view dimensions.
func (m *QuizModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(min(width-10, 60), 10)
}

// SetWords replaces the word list. A running session is restarted once
// the table is available.
func (m *QuizModel) SetWords(name string, words []kana.JapaneseWord) tea.Cmd {
	m.setName = name
	m.words = words
	if m.state == quizLoading || m.state == quizUnavailable {
		return nil
	}
	return m.start()
}

// SetSettings applies new settings from the next session on.
func (m *QuizModel) SetSettings(s QuizSettings) {
	m.settings = s
}

// InputFocused reports whether keystrokes go to the answer field.
func (m QuizModel) InputFocused() bool {
	return m.state == quizAsking
}

// Tally returns the mistakes of the running session.
func (m QuizModel) Tally() []session.UnitCount {
	if m.sess == nil {
		return nil
	}
	return m.sess.Tally()
}

// Init starts loading the kana table.
func (m QuizModel) Init() tea.Cmd {
	return m.loadTable()
}

func (m QuizModel) loadTable() tea.Cmd {
	checker := m.checker
	return func() tea.Msg {
		_, err := checker.Loader().Table(context.Background())
		return TableLoadedMsg{Err: err}
	}
}

func (m *QuizModel) start() tea.Cmd {
	m.hasResult = false
	m.status = ""
	if len(m.words) == 0 {
		m.sess = nil
		m.state = quizEmpty
		m.input.Blur()
		return nil
	}

	m.sess = session.New(m.settings.Mode, m.settings.Length, m.words, m.opts...)
	m.log.Debug("quiz session started",
		zap.String("set", m.setName),
		zap.String("mode", string(m.settings.Mode)),
		zap.Int("words", len(m.words)),
	)
	return m.advance()
}

// advance asks the next word or finishes the session.
func (m *QuizModel) advance() tea.Cmd {
	m.hasResult = false
	m.accepted = false
	m.input.Reset()

	word, ok := m.sess.Next()
	if !ok {
		return m.finish()
	}
	m.word = word
	m.state = quizAsking
	return m.input.Focus()
}

func (m *QuizModel) finish() tea.Cmd {
	m.state = quizFinished
	m.input.Blur()
	m.log.Info("quiz session finished",
		zap.Int("answered", m.sess.Answered),
		zap.Int("correct", m.sess.Correct),
		zap.Int("best_streak", m.sess.BestStreak),
	)

	if m.store == nil || m.sess.Answered == 0 {
		return nil
	}
	st := m.store
	sum := store.SessionSummary{
		Mode:       string(m.sess.Mode),
		StartedAt:  m.sess.StartedAt,
		Answered:   m.sess.Answered,
		Correct:    m.sess.Correct,
		BestStreak: m.sess.BestStreak,
	}
	return func() tea.Msg {
		_, err := st.RecordSession(context.Background(), sum)
		return quizStoredMsg{op: "session", err: err}
	}
}

func (m *QuizModel) unavailable(err error) {
	m.state = quizUnavailable
	m.loadErr = err
	m.input.Blur()
	m.log.Warn("answer checking disabled", zap.Error(err))
}

// check runs the detector on the current input.
func (m *QuizModel) check() bool {
	res, err := m.checker.DetectErrors(context.Background(), m.word.Kana, m.input.Value())
	if err != nil {
		m.unavailable(err)
		return false
	}
	m.result = res
	m.hasResult = true
	return true
}

func (m *QuizModel) submit() tea.Cmd {
	answer := m.input.Value()
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	ok, res, err := m.checker.Grade(context.Background(), answer, m.word)
	if err != nil {
		m.unavailable(err)
		return nil
	}

	m.result = res
	m.hasResult = true
	m.accepted = ok
	m.sess.Record(ok, m.result)
	m.state = quizAnswered
	m.input.Blur()
	m.log.Debug("answer checked",
		zap.String("kana", m.word.Kana),
		zap.String("answer", answer),
		zap.Bool("correct", ok),
		zap.Int("incorrect_units", m.result.IncorrectCount),
	)

	if ok {
		return nil
	}
	return m.storeMistakes(m.result)
}

func (m QuizModel) storeMistakes(res kana.ErrorDetectionResult) tea.Cmd {
	units := res.IncorrectUnits()
	if m.store == nil || len(units) == 0 {
		return nil
	}
	counts := make(map[kana.Unit]int, len(units))
	for _, u := range units {
		counts[u]++
	}
	st := m.store
	return func() tea.Msg {
		return quizStoredMsg{op: "mistakes", err: st.AddMistakes(context.Background(), counts)}
	}
}

func quizClearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return quizClearCopiedMsg{}
	})
}

// Update handles messages.
func (m QuizModel) Update(msg tea.Msg) (QuizModel, tea.Cmd) {
	switch msg := msg.(type) {
	case TableLoadedMsg:
		if msg.Err != nil {
			m.unavailable(msg.Err)
			return m, nil
		}
		m.loadErr = nil
		return m, m.start()

	case quizStoredMsg:
		if msg.err != nil {
			m.log.Error("saving quiz progress", zap.String("op", msg.op), zap.Error(msg.err))
			m.status = "could not save " + msg.op
		}
		return m, nil

	case quizClearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == quizAsking {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m QuizModel) handleKey(msg tea.KeyMsg) (QuizModel, tea.Cmd) {
	switch m.state {
	case quizUnavailable:
		if msg.String() == "r" {
			m.checker.Loader().Reset()
			m.state = quizLoading
			m.loadErr = nil
			return m, m.loadTable()
		}

	case quizAsking:
		if msg.String() == "enter" {
			cmd := m.submit()
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.settings.Feedback == config.FeedbackLive {
			if m.input.Value() == "" {
				m.hasResult = false
			} else {
				m.check()
			}
		}
		return m, cmd

	case quizAnswered:
		switch msg.String() {
		case "enter", " ", "n":
			return m, m.advance()
		case "e":
			return m, m.finish()
		case "y":
			if err := clipboard.Write(m.word.Romaji); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.copied = true
			return m, quizClearCopiedAfter(2 * time.Second)
		}

	case quizFinished:
		if msg.String() == "enter" || msg.String() == "n" {
			return m, m.start()
		}
	}
	return m, nil
}

// View renders the quiz.
func (m QuizModel) View() string {
	var b strings.Builder

	b.WriteString(quizTitleStyle.Render("Quiz"))
	if m.setName != "" {
		b.WriteString(" ")
		b.WriteString(quizMeaningStyle.Render(m.setName))
	}
	if m.sess != nil {
		b.WriteString("  ")
		b.WriteString(quizStatsStyle.Render(m.stats()))
	}
	b.WriteString("\n\n")

	switch m.state {
	case quizLoading:
		b.WriteString(quizMeaningStyle.Render("Loading kana table..."))
	case quizUnavailable:
		b.WriteString(quizWrongStyle.Render("Answer checking is unavailable"))
		b.WriteString("\n")
		if m.loadErr != nil {
			b.WriteString(quizMeaningStyle.Render(m.loadErr.Error()))
			b.WriteString("\n")
		}
		b.WriteString(quizHelpStyle.Render("r: retry loading"))
	case quizEmpty:
		b.WriteString(quizMeaningStyle.Render("No words match the current filters."))
		b.WriteString("\n")
		b.WriteString(quizHelpStyle.Render("Open a word set or change the settings."))
	case quizAsking, quizAnswered:
		b.WriteString(m.renderQuestion())
	case quizFinished:
		b.WriteString(m.renderFinished())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(quizWrongStyle.Render(m.status))
	}
	return b.String()
}

func (m QuizModel) stats() string {
	s := fmt.Sprintf("✓ %d/%d • streak %d (best %d)",
		m.sess.Correct, m.sess.Answered, m.sess.Streak, m.sess.BestStreak)
	if left := m.sess.Remaining(); left >= 0 {
		s += fmt.Sprintf(" • %d left", left)
	}
	return s
}

func (m QuizModel) renderPrompt() string {
	n := len([]rune(m.word.Kana))
	if m.big.Available() && n > 0 && n <= 5 {
		cols := max(min((m.width-4)/n-1, 20), 8)
		if art := m.big.Render(m.word.Kana, cols, cols/2); art != "" {
			return quizBigKanaStyle.Render(art)
		}
	}
	return quizKanaStyle.Render(m.word.Kana)
}

func (m QuizModel) renderQuestion() string {
	var b strings.Builder

	b.WriteString(m.renderPrompt())
	b.WriteString("\n")
	if m.word.Meaning != "" {
		b.WriteString(quizMeaningStyle.Render(m.word.Meaning))
		b.WriteString("\n")
	}

	if m.state == quizAsking {
		b.WriteString(quizInputStyle.Render(m.input.View()))
		b.WriteString("\n")
	}

	if m.hasResult {
		b.WriteString(components.RenderDiff(m.result, components.DefaultDiffStyles(), m.state == quizAnswered))
		b.WriteString("\n")
	}

	if m.state == quizAsking {
		b.WriteString(quizHelpStyle.Render("enter: check"))
		return b.String()
	}

	b.WriteString("\n")
	if m.accepted {
		b.WriteString(quizCorrectStyle.Render("✓ correct"))
	} else {
		b.WriteString(quizWrongStyle.Render("✗ " + m.word.Romaji))
	}
	b.WriteString("  ")
	b.WriteString(quizMeaningStyle.Render(components.Summary(m.result)))
	if m.copied {
		b.WriteString("  ")
		b.WriteString(quizCorrectStyle.Render("copied"))
	}
	b.WriteString("\n")
	b.WriteString(quizHelpStyle.Render("enter: next • y: copy romaji • e: end session"))
	return b.String()
}

func (m QuizModel) renderFinished() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Answered    %d\n", m.sess.Answered)
	fmt.Fprintf(&b, "Correct     %d (%.0f%%)\n", m.sess.Correct, m.sess.Accuracy()*100)
	fmt.Fprintf(&b, "Best streak %d\n", m.sess.BestStreak)

	if tally := m.sess.Tally(); len(tally) > 0 {
		b.WriteString("\nTo review:")
		for i, uc := range tally {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "  %s ×%d", uc.Unit, uc.Count)
		}
	}

	return quizBoxStyle.Render(b.String()) + "\n" + quizHelpStyle.Render("enter: new session")
}
