package romaji

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func countingSource(calls *int32, release <-chan struct{}, err error) Source {
	return func(ctx context.Context) (*Dictionary, error) {
		atomic.AddInt32(calls, 1)
		if release != nil {
			<-release
		}
		if err != nil {
			return nil, err
		}
		return DefaultDictionary()
	}
}

func TestLoader_SingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	loader := NewLoader(countingSource(&calls, release, nil), WithLogger(zaptest.NewLogger(t)))

	const callers = 16
	tables := make([]*Table, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], errs[i] = loader.Table(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, tables[0], tables[i])
	}
	assert.True(t, loader.Loaded())
}

func TestLoader_CachesFailureUntilReset(t *testing.T) {
	var calls int32
	boom := errors.New("disk on fire")
	loader := NewLoader(countingSource(&calls, nil, boom))

	_, err := loader.Table(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "disk on fire")

	_, err = loader.Table(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "failure must not trigger a retry")
	assert.False(t, loader.Loaded())

	loader.Reset()
	_, err = loader.Table(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoader_ResetReloads(t *testing.T) {
	var calls int32
	loader := NewLoader(countingSource(&calls, nil, nil))

	first, err := loader.Table(context.Background())
	require.NoError(t, err)

	loader.Reset()
	assert.False(t, loader.Loaded())

	second, err := loader.Table(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoader_ResetDuringLoadDropsStaleResult(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context) (*Dictionary, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
			return nil, errors.New("stale read")
		}
		return DefaultDictionary()
	})

	done := make(chan error, 1)
	go func() {
		_, err := loader.Table(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 },
		time.Second, time.Millisecond)

	loader.Reset()
	close(release)
	assert.ErrorIs(t, <-done, ErrDataUnavailable)

	table, err := loader.Table(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoader_ContextCanceled(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	defer close(release)
	loader := NewLoader(countingSource(&calls, release, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Table(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_NilDictionary(t *testing.T) {
	loader := NewLoader(func(ctx context.Context) (*Dictionary, error) { return nil, nil })
	_, err := loader.Table(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoader_DefaultsToEmbedded(t *testing.T) {
	loader := NewLoader(nil)
	table, err := loader.Table(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shi", table.LookupPrimary("し"))
}

func TestChecker(t *testing.T) {
	ctx := context.Background()
	checker := NewChecker(NewLoader(nil))

	got, err := checker.ToRomaji(ctx, "にっぽん")
	require.NoError(t, err)
	assert.Equal(t, "nippon", got)

	ok, err := checker.Validate(ctx, "konnichiwa", kana.JapaneseWord{Kana: "こんにちは", Romaji: "konnichiha"})
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := checker.DetectErrors(ctx, "すし", "susi")
	require.NoError(t, err)
	assert.True(t, res.IsFullyCorrect)

	ok, res, err = checker.Grade(ctx, "konnichiwa", kana.JapaneseWord{Kana: "こんにちは", Romaji: "konnichiha"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, res.IsFullyCorrect)

	valid, err := checker.ValidRomaji(ctx, "っき")
	require.NoError(t, err)
	assert.Equal(t, []string{"kki"}, valid)

	assert.Equal(t, []kana.Unit{"に", "っぽ", "ん"}, checker.Tokenize("にっぽん"))
	assert.Equal(t, "shi", checker.Normalize("SI"))
}

func TestChecker_PropagatesDataUnavailable(t *testing.T) {
	ctx := context.Background()
	checker := NewChecker(NewLoader(FileSource("/nonexistent/kana.json")))

	_, err := checker.ToRomaji(ctx, "か")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	ok, err := checker.Validate(ctx, "ka", kana.JapaneseWord{Kana: "か", Romaji: "ka"})
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.False(t, ok, "an answer must never be accepted without a table")

	_, err = checker.DetectErrors(ctx, "か", "ka")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = checker.ValidRomaji(ctx, "か")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	// Pure operations keep working.
	assert.Len(t, checker.Tokenize("かき"), 2)
}
