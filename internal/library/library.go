// Package library resolves word-set references (built-in names, JSONL
// files and Anki decks) into filled quiz sets, caching file imports in the
// store.
package library

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/f3rmion/kana/internal/anki"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/store"
	"github.com/f3rmion/kana/internal/words"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// DefaultSet is opened when no reference is given.
const DefaultSet = "kana"

// Library opens word sets against one checker's table.
type Library struct {
	checker *romaji.Checker
	store   *store.Store
	log     *zap.Logger
}

// New creates a library. st may be nil to disable caching.
func New(checker *romaji.Checker, st *store.Store, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{checker: checker, store: st, log: log}
}

// IsBuiltin reports whether ref names a computed set.
func IsBuiltin(ref string) bool {
	return slices.Contains(words.BuiltinNames(), ref)
}

// Open resolves ref: a built-in set name, a .jsonl word file or an .apkg
// deck. It fails with romaji.ErrDataUnavailable when the table cannot be
// loaded, since sets are filled from it.
func (l *Library) Open(ctx context.Context, ref string) (*words.Set, error) {
	table, err := l.checker.Loader().Table(ctx)
	if err != nil {
		return nil, err
	}

	if IsBuiltin(ref) {
		set, err := words.Builtin(ref, table, table.Dictionary())
		if err != nil {
			return nil, err
		}
		set.Fill(table)
		return set, nil
	}
	return l.openFile(ctx, table, ref)
}

func (l *Library) openFile(ctx context.Context, table *romaji.Table, path string) (*words.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word set: %w", err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if l.store != nil {
		set, err := l.store.LoadWordSet(ctx, name, hash)
		if err == nil {
			l.log.Debug("word set cache hit", zap.String("name", name), zap.Int("words", set.Len()))
			return set, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			l.log.Warn("reading word set cache", zap.String("name", name), zap.Error(err))
		}
	}

	var set *words.Set
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".apkg":
		set, err = importDeck(path, name)
	case ".jsonl":
		set, err = words.Read(name, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported word set type %q: %s", ext, path)
	}
	if err != nil {
		return nil, err
	}
	set.Fill(table)

	l.log.Info("word set loaded", zap.String("path", path), zap.Int("words", set.Len()))
	if l.store != nil {
		if err := l.store.SaveWordSet(ctx, set, hash); err != nil {
			l.log.Warn("caching word set", zap.String("name", name), zap.Error(err))
		}
	}
	return set, nil
}

func importDeck(path, name string) (*words.Set, error) {
	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()
	return pkg.ImportWords(name, anki.ImportOptions{})
}

// maxParallel caps how many references OpenAll opens at once.
const maxParallel = 4

// OpenAll opens refs concurrently and merges them, in the order given,
// into one set. Words already present in an earlier set are not repeated.
// No refs means DefaultSet.
func (l *Library) OpenAll(ctx context.Context, refs []string) (*words.Set, error) {
	if len(refs) == 0 {
		refs = []string{DefaultSet}
	}
	if len(refs) == 1 {
		return l.Open(ctx, refs[0])
	}

	sets, err := l.openParallel(ctx, refs)
	if err != nil {
		return nil, err
	}

	merged := words.NewSet("")
	names := make([]string, 0, len(sets))
	for _, set := range sets {
		names = append(names, set.Name)
		for _, w := range set.Words() {
			merged.Add(w)
		}
	}
	merged.Name = strings.Join(names, "+")
	return merged, nil
}

func (l *Library) openParallel(ctx context.Context, refs []string) ([]*words.Set, error) {
	pool, err := ants.NewPool(min(len(refs), maxParallel),
		ants.WithPanicHandler(func(p any) {
			l.log.Error("word set worker panic", zap.Any("panic", p), zap.Stack("stack"))
		}),
		ants.WithNonblocking(false),
	)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	sets := make([]*words.Set, len(refs))
	errs := make([]error, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			sets[i], errs[i] = l.Open(ctx, ref)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for i, ref := range refs {
		if errs[i] == nil && sets[i] == nil {
			errs[i] = errors.New("worker failed")
		}
		if errs[i] != nil {
			return nil, fmt.Errorf("opening %s: %w", ref, errs[i])
		}
	}
	return sets, nil
}
