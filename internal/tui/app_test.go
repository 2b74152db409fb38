package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/tui/bigchar"
	"github.com/f3rmion/kana/internal/tui/views"
	"github.com/f3rmion/kana/internal/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestApp(t *testing.T) AppModel {
	t.Helper()
	m := NewApp(Options{
		Checker:    romaji.NewChecker(romaji.NewLoader(nil)),
		Config:     config.Default(),
		ConfigPath: t.TempDir() + "/config.yaml",
		WordSets:   []string{"months"},
		DeckDir:    t.TempDir(),
		BigChar:    bigchar.New(nil),
		Logger:     zaptest.NewLogger(t),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, views.TableLoadedMsg{})
	m = update(t, m, m.loadWordSets(m.refs)())
	return m
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_LoadsWordSetIntoQuiz(t *testing.T) {
	m := newTestApp(t)

	require.NotNil(t, m.wordSet)
	assert.Equal(t, "months", m.wordSet.Name)
	assert.False(t, m.loadingWords)
	assert.Equal(t, ViewQuiz, m.currentView)
	assert.True(t, m.quizView.InputFocused())
	assert.Contains(t, m.View(), "Quiz")
}

func TestApp_DigitsGoToFocusedInput(t *testing.T) {
	m := newTestApp(t)

	m = update(t, m, key("2"))
	assert.Equal(t, ViewQuiz, m.currentView, "typing into the answer must not switch views")

	m = update(t, m, key("esc"))
	assert.True(t, m.sidebarActive)
	m = update(t, m, key("2"))
	assert.Equal(t, ViewLookup, m.currentView)
	assert.False(t, m.sidebarActive)
}

func TestApp_SidebarNavigation(t *testing.T) {
	m := newTestApp(t)
	m = update(t, m, key("esc"))

	m = update(t, m, key("j"))
	m = update(t, m, key("j"))
	m = update(t, m, key("enter"))
	assert.Equal(t, ViewReview, m.currentView)

	m = update(t, m, key("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Press any key to close")
	m = update(t, m, key("x"))
	assert.False(t, m.showHelp)
}

func TestApp_DrillSwitchesToQuiz(t *testing.T) {
	m := newTestApp(t)
	m = update(t, m, key("esc"))
	m = update(t, m, key("3"))
	require.Equal(t, ViewReview, m.currentView)

	set := words.NewSet("review", kana.JapaneseWord{Kana: "つ", Romaji: "tsu", Type: kana.Hiragana})
	m = update(t, m, views.DrillMsg{Set: set})
	assert.Equal(t, ViewQuiz, m.currentView)
	assert.Equal(t, "months", m.wordSet.Name, "drills leave the loaded set alone")
	assert.Contains(t, m.View(), "review")
}

func TestApp_SettingsRefilter(t *testing.T) {
	m := newTestApp(t)

	quiz := m.config.Quiz
	quiz.Scripts = []kana.Script{kana.Katakana}
	m = update(t, m, views.SettingsChangedMsg{Quiz: quiz})

	assert.False(t, m.quizView.InputFocused())
	assert.Contains(t, m.View(), "No words match")
}

func TestApp_WordSetError(t *testing.T) {
	m := newTestApp(t)
	m = update(t, m, WordSetLoadedMsg{Refs: []string{"broken.apkg"}, Err: errors.New("bad deck")})

	assert.Equal(t, "months", m.wordSet.Name)
	assert.Contains(t, m.View(), "bad deck")
}

func TestApp_ReloadsWordsAfterRetry(t *testing.T) {
	m := NewApp(Options{
		Checker:  romaji.NewChecker(romaji.NewLoader(nil)),
		WordSets: []string{"days"},
		BigChar:  bigchar.New(nil),
	})
	m = update(t, m, WordSetLoadedMsg{Refs: []string{"days"}, Err: romaji.ErrDataUnavailable})
	assert.False(t, m.loadingWords)

	next, cmd := m.Update(views.TableLoadedMsg{})
	m = next.(AppModel)
	assert.True(t, m.loadingWords)
	require.NotNil(t, cmd)
}
