package romaji

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source produces the dictionary a Loader builds its table from.
type Source func(ctx context.Context) (*Dictionary, error)

// EmbeddedSource reads the dictionary compiled into the binary.
func EmbeddedSource() Source {
	return func(ctx context.Context) (*Dictionary, error) {
		return DefaultDictionary()
	}
}

// FileSource reads the dictionary from path.
func FileSource(path string) Source {
	return func(ctx context.Context) (*Dictionary, error) {
		return LoadDictionary(path)
	}
}

// Loader builds the Table lazily and memoizes it for the process lifetime.
// Concurrent callers share one in-flight load. A failed load is remembered
// and returned to every caller until Reset is called; Loader never retries
// on its own.
type Loader struct {
	source Source
	log    *zap.Logger

	group singleflight.Group

	mu    sync.RWMutex
	table *Table
	err   error
	gen   uint64 // bumped by Reset; loads from an older gen are dropped
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report loads and failures.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a loader for source. A nil source means the embedded
// dictionary.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	if source == nil {
		source = EmbeddedSource()
	}
	l := &Loader{source: source, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Table returns the lookup table, loading it on first use.
func (l *Loader) Table(ctx context.Context) (*Table, error) {
	l.mu.RLock()
	table, err := l.table, l.err
	l.mu.RUnlock()
	if table != nil || err != nil {
		return table, err
	}

	ch := l.group.DoChan("table", func() (interface{}, error) {
		return l.load(ctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	}
}

func (l *Loader) load(ctx context.Context) (*Table, error) {
	l.mu.RLock()
	table, err, gen := l.table, l.err, l.gen
	l.mu.RUnlock()
	if table != nil || err != nil {
		return table, err
	}

	dict, err := l.source(ctx)
	if err == nil && dict == nil {
		err = errors.New("source returned no dictionary")
	}
	if err != nil {
		if !errors.Is(err, ErrDataUnavailable) {
			err = fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		l.log.Error("kana dictionary load failed", zap.Error(err))
		l.mu.Lock()
		if l.gen == gen {
			l.err = err
		}
		l.mu.Unlock()
		return nil, err
	}

	table = NewTable(dict)
	l.log.Debug("kana dictionary loaded",
		zap.Int("entries", dict.Size()),
		zap.Int("units", table.Len()),
	)

	l.mu.Lock()
	if l.gen == gen {
		l.table = table
	}
	l.mu.Unlock()
	return table, nil
}

// Loaded reports whether a table is available without loading.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table != nil
}

// Reset forgets a cached table or failure so the next call loads again.
// A load still in flight when Reset runs does not update the cache.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.table = nil
	l.err = nil
	l.gen++
	l.mu.Unlock()
	l.group.Forget("table")
}
