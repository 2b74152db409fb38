package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/library"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/store"
	"github.com/f3rmion/kana/internal/tui/bigchar"
	"github.com/f3rmion/kana/internal/tui/views"
	"github.com/f3rmion/kana/internal/words"
	"go.uber.org/zap"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewQuiz ViewType = iota
	ViewLookup
	ViewReview
	ViewFilePicker
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	Icon     string
	View     ViewType
	Shortcut string
}

// WordSetLoadedMsg is sent when word sets have been opened.
type WordSetLoadedMsg struct {
	Set  *words.Set
	Refs []string
	Err  error
}

// Options wires the app to its dependencies.
type Options struct {
	Checker    *romaji.Checker
	Config     *config.Config
	ConfigPath string
	Store      *store.Store // nil disables history
	WordSets   []string     // built-in names or files; empty means Config.Data.Words
	DeckDir    string       // where the file picker starts
	BigChar    *bigchar.Renderer
	Logger     *zap.Logger
}

// AppModel is the main TUI model
type AppModel struct {
	checker *romaji.Checker
	library *library.Library
	config  *config.Config
	log     *zap.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	quizView       views.QuizModel
	lookupView     views.LookupModel
	reviewView     views.ReviewModel
	filePickerView views.FilePickerModel
	settingsView   views.SettingsModel

	// Word sets
	refs         []string
	wordSet      *words.Set
	loadingWords bool

	status   string
	showHelp bool
}

// NewApp creates the TUI application.
func NewApp(opts Options) AppModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	checker := opts.Checker
	if checker == nil {
		checker = romaji.NewChecker(romaji.NewLoader(nil, romaji.WithLogger(log)))
	}
	big := opts.BigChar
	if big == nil {
		big = bigchar.Default()
	}
	refs := opts.WordSets
	if len(refs) == 0 {
		refs = cfg.Data.Words
	}

	menuItems := []MenuItem{
		{Label: "Quiz", Icon: "問", View: ViewQuiz, Shortcut: "1"},
		{Label: "Lookup", Icon: "字", View: ViewLookup, Shortcut: "2"},
		{Label: "Review", Icon: "復", View: ViewReview, Shortcut: "3"},
		{Label: "Open Set", Icon: "開", View: ViewFilePicker, Shortcut: "4"},
		{Label: "Settings", Icon: "設", View: ViewSettings, Shortcut: "5"},
	}

	quiz := views.NewQuizModel(checker, opts.Store, log.Named("quiz"), views.QuizSettingsFrom(cfg.Quiz))
	quiz.SetBigChar(big)

	return AppModel{
		checker:      checker,
		library:      library.New(checker, opts.Store, log.Named("library")),
		config:       cfg,
		log:          log,
		sidebarWidth: 18,
		currentView:  ViewQuiz,
		menuItems:    menuItems,

		quizView:       quiz,
		lookupView:     views.NewLookupModel(checker),
		reviewView:     views.NewReviewModel(checker, opts.Store, log.Named("review")),
		filePickerView: views.NewFilePickerModel(opts.DeckDir, views.WordSetExtensions...),
		settingsView:   views.NewSettingsModel(cfg, opts.ConfigPath),

		refs:         refs,
		loadingWords: true,
	}
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// Init loads the kana table and the word sets.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.quizView.Init(), m.loadWordSets(m.refs))
}

func (m AppModel) loadWordSets(refs []string) tea.Cmd {
	lib := m.library
	return func() tea.Msg {
		set, err := lib.OpenAll(context.Background(), refs)
		return WordSetLoadedMsg{Set: set, Refs: refs, Err: err}
	}
}

// applyWordSet hands the filtered word set to the quiz.
func (m *AppModel) applyWordSet() tea.Cmd {
	if m.wordSet == nil {
		return nil
	}
	filtered := m.wordSet.Filter(words.FilterOptions{
		Scripts: m.config.Quiz.Scripts,
		Groups:  m.config.Quiz.Groups,
	})
	m.lookupView.SetWordSet(m.wordSet)
	m.log.Debug("word set applied",
		zap.String("set", m.wordSet.Name),
		zap.Int("words", m.wordSet.Len()),
		zap.Int("matching", filtered.Len()),
	)
	return m.quizView.SetWords(m.wordSet.Name, filtered.Words())
}

func (m *AppModel) switchTo(view ViewType) tea.Cmd {
	m.currentView = view
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == view {
			m.selectedMenu = i
			break
		}
	}
	if view == ViewReview {
		m.reviewView.SetTally(m.quizView.Tally())
		return m.reviewView.Refresh()
	}
	return nil
}

// inputFocused reports whether the active view is taking text input.
func (m AppModel) inputFocused() bool {
	if m.sidebarActive {
		return false
	}
	switch m.currentView {
	case ViewQuiz:
		return m.quizView.InputFocused()
	case ViewLookup:
		return m.lookupView.InputFocused()
	}
	return false
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2
		m.quizView.SetSize(contentWidth, contentHeight)
		m.lookupView.SetSize(contentWidth, contentHeight)
		m.reviewView.SetSize(contentWidth, contentHeight)
		m.filePickerView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.TableLoadedMsg:
		var cmds []tea.Cmd
		if msg.Err == nil && m.wordSet == nil && !m.loadingWords {
			m.loadingWords = true
			cmds = append(cmds, m.loadWordSets(m.refs))
		}
		var cmd tea.Cmd
		m.quizView, cmd = m.quizView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case WordSetLoadedMsg:
		m.loadingWords = false
		if msg.Err != nil {
			m.log.Error("opening word set", zap.Strings("refs", msg.Refs), zap.Error(msg.Err))
			m.status = "Error: " + msg.Err.Error()
			return m, nil
		}
		m.status = ""
		m.refs = msg.Refs
		m.wordSet = msg.Set
		cmd := m.applyWordSet()
		return m, tea.Batch(cmd, m.switchTo(ViewQuiz))

	case views.FileSelectedMsg:
		m.status = "Opening " + msg.Path + "..."
		m.loadingWords = true
		return m, m.loadWordSets([]string{msg.Path})

	case views.DrillMsg:
		cmd := m.quizView.SetWords(msg.Set.Name, msg.Set.Words())
		return m, tea.Batch(cmd, m.switchTo(ViewQuiz))

	case views.SettingsChangedMsg:
		m.config.Quiz = msg.Quiz
		m.quizView.SetSettings(views.QuizSettingsFrom(msg.Quiz))
		return m, m.applyWordSet()
	}

	// Everything else may be a reply to any view's command.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.quizView, cmd = m.quizView.Update(msg)
	cmds = append(cmds, cmd)
	m.lookupView, cmd = m.lookupView.Update(msg)
	cmds = append(cmds, cmd)
	m.reviewView, cmd = m.reviewView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.sidebarActive = !m.sidebarActive
		return m, nil
	case "esc":
		if m.sidebarActive {
			return m, tea.Quit
		}
		m.sidebarActive = true
		return m, nil
	}

	if !m.inputFocused() {
		switch key {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "1", "2", "3", "4", "5":
			return m, m.switchTo(m.menuItems[int(key[0]-'1')].View)
		}
	}

	if m.sidebarActive {
		switch key {
		case "j", "down":
			if m.selectedMenu < len(m.menuItems)-1 {
				m.selectedMenu++
			}
		case "k", "up":
			if m.selectedMenu > 0 {
				m.selectedMenu--
			}
		case "enter", "l", "right":
			return m, m.switchTo(m.menuItems[m.selectedMenu].View)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewQuiz:
		m.quizView, cmd = m.quizView.Update(msg)
	case ViewLookup:
		m.lookupView, cmd = m.lookupView.Update(msg)
	case ViewReview:
		m.reviewView, cmd = m.reviewView.Update(msg)
	case ViewFilePicker:
		m.filePickerView, cmd = m.filePickerView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewQuiz:
		content = m.quizView.View()
	case ViewLookup:
		content = m.lookupView.View()
	case ViewReview:
		content = m.reviewView.View()
	case ViewFilePicker:
		content = m.filePickerView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}
	if m.status != "" {
		content += "\n\n" + StatusStyle.Render(m.status)
	}

	mainContent := ContentStyle.
		Width(m.width - m.sidebarWidth - 4).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m AppModel) renderSidebar() string {
	items := []string{SidebarTitleStyle.Render("  かな kana  "), ""}

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Icon + " " + item.Label

		style := SidebarItemStyle
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		}
		items = append(items, style.Render(label))
	}

	used := len(items) + 4
	for i := 0; i < m.height-used-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Global Keys", [][2]string{
		{"1-5", "Switch views"},
		{"tab", "Toggle sidebar focus"},
		{"esc", "Sidebar, then quit"},
		{"?", "Show this help"},
		{"q", "Quit"},
	}},
	{"Quiz", [][2]string{
		{"enter", "Check answer / next word"},
		{"y", "Copy romaji"},
		{"e", "End session"},
		{"r", "Retry loading the kana table"},
	}},
	{"Lookup", [][2]string{
		{"enter", "Split into units"},
		{"/", "New lookup"},
		{"y", "Copy romaji"},
	}},
	{"Review", [][2]string{
		{"d", "Drill missed units"},
		{"c", "Clear history"},
	}},
	{"Settings", [][2]string{
		{"m f s", "Mode, feedback, scripts"},
		{"+/-", "Session length"},
		{"w", "Write config file"},
	}},
}

func (m AppModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(ColorAccent).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	var b strings.Builder
	b.WriteString(titleStyle.Render("kana - romaji drills"))
	b.WriteString("\n")
	for _, s := range helpSections {
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString(keyStyle.Render(k[0]) + descStyle.Render(k[1]) + "\n")
		}
	}
	b.WriteString("\n" + HelpStyle.Italic(true).Render("Press any key to close"))

	box := HelpBoxStyle.Width(50).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
