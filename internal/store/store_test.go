package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/words"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "kana.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWordSetCache(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	set := words.NewSet("starter",
		kana.JapaneseWord{Kana: "すし", Romaji: "sushi", Type: kana.Hiragana},
		kana.JapaneseWord{Kana: "ねこ", Romaji: "neko", Type: kana.Hiragana, Groups: []string{"base"}},
	)
	require.NoError(t, s.SaveWordSet(ctx, set, ""))

	got, err := s.LoadWordSet(ctx, "starter", set.Hash())
	require.NoError(t, err)
	assert.Equal(t, set.Words(), got.Words())

	got, err = s.LoadWordSet(ctx, "starter", "")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	_, err = s.LoadWordSet(ctx, "starter", "other-hash")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LoadWordSet(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	// Saving again replaces the cached copy.
	set.Add(kana.JapaneseWord{Kana: "いぬ", Romaji: "inu"})
	require.NoError(t, s.SaveWordSet(ctx, set, ""))
	got, err = s.LoadWordSet(ctx, "starter", set.Hash())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	// A source hash replaces the content hash as the cache key.
	require.NoError(t, s.SaveWordSet(ctx, set, "deck-v1"))
	_, err = s.LoadWordSet(ctx, "starter", set.Hash())
	assert.ErrorIs(t, err, ErrNotFound)
	got, err = s.LoadWordSet(ctx, "starter", "deck-v1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

func TestRecordSession(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	start := time.Unix(1_700_000_000, 0)
	id, err := s.RecordSession(ctx, SessionSummary{
		Mode: "session", StartedAt: start, FinishedAt: start.Add(time.Minute),
		Answered: 10, Correct: 7, BestStreak: 4,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	_, err = s.RecordSession(ctx, SessionSummary{
		ID: "fixed", Mode: "infinite", StartedAt: start, FinishedAt: start.Add(time.Hour),
	})
	require.NoError(t, err)

	sessions, err := s.Sessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "fixed", sessions[0].ID)
	assert.Equal(t, id, sessions[1].ID)
	assert.Equal(t, 7, sessions[1].Correct)
	assert.Equal(t, start, sessions[1].StartedAt)

	_, err = s.RecordSession(ctx, SessionSummary{ID: "fixed"})
	assert.Error(t, err, "duplicate id")
}

func TestMistakes(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.AddMistakes(ctx, map[kana.Unit]int{"し": 2, "つ": 1, "ぬ": 0}))
	require.NoError(t, s.AddMistakes(ctx, map[kana.Unit]int{"つ": 3}))
	require.NoError(t, s.AddMistakes(ctx, nil))

	units, err := s.ReviewUnits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, kana.Unit("つ"), units[0].Unit)
	assert.Equal(t, 4, units[0].Count)
	assert.Equal(t, kana.Unit("し"), units[1].Unit)

	top, err := s.ReviewUnits(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	require.NoError(t, s.ClearMistakes(ctx))
	units, err = s.ReviewUnits(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kana.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.AddMistakes(ctx, map[kana.Unit]int{"ふ": 1}))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	units, err := s.ReviewUnits(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}
