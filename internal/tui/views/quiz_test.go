package views

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/session"
	"github.com/f3rmion/kana/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var sushi = kana.JapaneseWord{Kana: "すし", Romaji: "sushi", Type: kana.Hiragana, Meaning: "sushi"}

func newTestQuiz(t *testing.T, checker *romaji.Checker, st *store.Store, settings QuizSettings) QuizModel {
	t.Helper()
	if checker == nil {
		checker = romaji.NewChecker(romaji.NewLoader(nil))
	}
	m := NewQuizModel(checker, st, zaptest.NewLogger(t), settings, session.WithRand(rand.New(rand.NewSource(1))))
	m.SetSize(80, 40)
	require.Nil(t, m.SetWords("test", []kana.JapaneseWord{sushi}))
	return m
}

func loadQuiz(t *testing.T, m QuizModel) QuizModel {
	t.Helper()
	msg := m.Init()()
	m, _ = m.Update(msg)
	return m
}

func typeText(m QuizModel, text string) QuizModel {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func pressKey(m QuizModel, key string) (QuizModel, tea.Cmd) {
	if key == "enter" {
		return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func TestQuiz_FixedSession(t *testing.T) {
	m := newTestQuiz(t, nil, nil, QuizSettings{Mode: session.Fixed, Length: 2, Feedback: config.FeedbackLive})
	assert.Equal(t, quizLoading, m.state)
	assert.False(t, m.InputFocused())

	m = loadQuiz(t, m)
	require.Equal(t, quizAsking, m.state)
	assert.True(t, m.InputFocused())
	assert.Equal(t, "すし", m.word.Kana)

	m = typeText(m, "susi")
	require.True(t, m.hasResult, "live feedback checks on every keystroke")
	assert.True(t, m.result.IsFullyCorrect)

	m, _ = pressKey(m, "enter")
	assert.Equal(t, quizAnswered, m.state)
	assert.True(t, m.accepted)
	assert.Equal(t, 1, m.sess.Correct)
	assert.Contains(t, m.View(), "correct")

	m, _ = pressKey(m, "enter")
	require.Equal(t, quizAsking, m.state)
	assert.Empty(t, m.input.Value())
	assert.False(t, m.hasResult)

	m = typeText(m, "sushu")
	m, _ = pressKey(m, "enter")
	assert.Equal(t, quizAnswered, m.state)
	assert.False(t, m.accepted)
	assert.Equal(t, []kana.Unit{"し"}, m.result.IncorrectUnits())
	assert.Equal(t, []session.UnitCount{{Unit: "し", Count: 1}}, m.Tally())

	m, _ = pressKey(m, "enter")
	assert.Equal(t, quizFinished, m.state)
	assert.Contains(t, m.View(), "Best streak 1")

	m, _ = pressKey(m, "enter")
	assert.Equal(t, quizAsking, m.state, "enter starts a new session")
	assert.Equal(t, 0, m.sess.Answered)
}

func TestQuiz_SubmitFeedback(t *testing.T) {
	m := loadQuiz(t, newTestQuiz(t, nil, nil, QuizSettings{Mode: session.Infinite, Feedback: config.FeedbackSubmit}))

	m = typeText(m, "su")
	assert.False(t, m.hasResult)

	m = typeText(m, "shi")
	m, _ = pressKey(m, "enter")
	assert.True(t, m.hasResult)
	assert.True(t, m.accepted)
}

func TestQuiz_EmptyAnswerIgnored(t *testing.T) {
	m := loadQuiz(t, newTestQuiz(t, nil, nil, QuizSettings{Mode: session.Infinite, Feedback: config.FeedbackLive}))

	m, cmd := pressKey(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, quizAsking, m.state)
	assert.Equal(t, 0, m.sess.Answered)
}

func TestQuiz_EndInfiniteSession(t *testing.T) {
	m := loadQuiz(t, newTestQuiz(t, nil, nil, QuizSettings{Mode: session.Infinite, Feedback: config.FeedbackLive}))

	m = typeText(m, "sushi")
	m, _ = pressKey(m, "enter")
	m, _ = pressKey(m, "e")
	assert.Equal(t, quizFinished, m.state)
	assert.Equal(t, 1, m.sess.Answered)
}

func TestQuiz_NoWords(t *testing.T) {
	m := newTestQuiz(t, nil, nil, QuizSettings{Mode: session.Infinite, Feedback: config.FeedbackLive})
	m = loadQuiz(t, m)

	m.SetWords("empty", nil)
	assert.Equal(t, quizEmpty, m.state)
	assert.Contains(t, m.View(), "No words match")
}

func TestQuiz_RetryAfterLoadFailure(t *testing.T) {
	calls := 0
	source := func(ctx context.Context) (*romaji.Dictionary, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("disk on fire")
		}
		return romaji.DefaultDictionary()
	}
	checker := romaji.NewChecker(romaji.NewLoader(source))

	m := loadQuiz(t, newTestQuiz(t, checker, nil, QuizSettings{Mode: session.Infinite, Feedback: config.FeedbackLive}))
	require.Equal(t, quizUnavailable, m.state)
	assert.ErrorIs(t, m.loadErr, romaji.ErrDataUnavailable)
	assert.False(t, m.InputFocused(), "answers cannot be typed without a table")
	assert.Contains(t, m.View(), "r: retry")

	m, cmd := pressKey(m, "x")
	assert.Nil(t, cmd)
	assert.Equal(t, quizUnavailable, m.state)

	m, cmd = pressKey(m, "r")
	require.NotNil(t, cmd)
	assert.Equal(t, quizLoading, m.state)

	m, _ = m.Update(cmd())
	assert.Equal(t, quizAsking, m.state)
	assert.Equal(t, 2, calls)
}

func TestQuiz_PersistsMistakes(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "kana.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := loadQuiz(t, newTestQuiz(t, nil, st, QuizSettings{Mode: session.Fixed, Length: 1, Feedback: config.FeedbackLive}))

	m = typeText(m, "sasi")
	m, cmd := pressKey(m, "enter")
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Empty(t, m.status)

	units, err := st.ReviewUnits(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, kana.Unit("す"), units[0].Unit)

	m, cmd = pressKey(m, "enter")
	require.Equal(t, quizFinished, m.state)
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Empty(t, m.status)

	sessions, err := st.Sessions(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].Answered)
	assert.Equal(t, 0, sessions[0].Correct)
}

func TestQuiz_SpokenParticleIsNotAMistake(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "kana.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := newTestQuiz(t, nil, st, QuizSettings{Mode: session.Infinite, Feedback: config.FeedbackSubmit})
	require.Nil(t, m.SetWords("greetings", []kana.JapaneseWord{
		{Kana: "こんにちは", Romaji: "konnichiha", Type: kana.Hiragana},
	}))
	m = loadQuiz(t, m)
	require.Equal(t, quizAsking, m.state)

	m = typeText(m, "konnichiwa")
	m, cmd := pressKey(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, quizAnswered, m.state)
	assert.True(t, m.accepted)
	assert.True(t, m.result.IsFullyCorrect)
	assert.Empty(t, m.Tally())

	units, err := st.ReviewUnits(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, units)
}
