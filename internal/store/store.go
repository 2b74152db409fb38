// Package store persists prebuilt word sets, session summaries and the
// per-unit mistake tally in a local SQLite database.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/words"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a cached word set is missing or stale.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS word_sets (
	name       TEXT PRIMARY KEY,
	hash       TEXT NOT NULL,
	body       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	answered    INTEGER NOT NULL,
	correct     INTEGER NOT NULL,
	best_streak INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS mistakes (
	unit       TEXT PRIMARY KEY,
	count      INTEGER NOT NULL,
	last_seen  INTEGER NOT NULL
);
`

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	log.Debug("store opened", zap.String("path", path))
	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveWordSet caches set under its name, replacing an older version.
// sourceHash identifies the input the set was built from; when empty the
// hash of the set itself is stored.
func (s *Store) SaveWordSet(ctx context.Context, set *words.Set, sourceHash string) error {
	var buf bytes.Buffer
	if err := set.Write(&buf); err != nil {
		return err
	}
	if sourceHash == "" {
		sourceHash = set.Hash()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO word_sets (name, hash, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET hash = excluded.hash, body = excluded.body, updated_at = excluded.updated_at`,
		set.Name, sourceHash, buf.Bytes(), s.now().Unix())
	if err != nil {
		return fmt.Errorf("saving word set %s: %w", set.Name, err)
	}
	return nil
}

// LoadWordSet returns the cached set called name. When hash is non-empty
// the cached copy must have been built from content with that hash;
// otherwise ErrNotFound is returned so the caller rebuilds it.
func (s *Store) LoadWordSet(ctx context.Context, name, hash string) (*words.Set, error) {
	var (
		storedHash string
		body       []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT hash, body FROM word_sets WHERE name = ?`, name).Scan(&storedHash, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word set %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading word set %s: %w", name, err)
	}
	if hash != "" && hash != storedHash {
		s.log.Debug("cached word set is stale", zap.String("name", name))
		return nil, fmt.Errorf("word set %s (stale): %w", name, ErrNotFound)
	}

	return words.Read(name, bytes.NewReader(body))
}

// SessionSummary is the persisted outcome of one quiz session.
type SessionSummary struct {
	ID         string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Answered   int
	Correct    int
	BestStreak int
}

// RecordSession stores a finished session. An empty ID is replaced by a
// new UUID, which is returned.
func (s *Store) RecordSession(ctx context.Context, sum SessionSummary) (string, error) {
	if sum.ID == "" {
		sum.ID = uuid.NewString()
	}
	if sum.FinishedAt.IsZero() {
		sum.FinishedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, mode, started_at, finished_at, answered, correct, best_streak)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.Mode, sum.StartedAt.Unix(), sum.FinishedAt.Unix(), sum.Answered, sum.Correct, sum.BestStreak)
	if err != nil {
		return "", fmt.Errorf("recording session: %w", err)
	}
	return sum.ID, nil
}

// Sessions returns the most recent sessions, newest first.
func (s *Store) Sessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, started_at, finished_at, answered, correct, best_streak
		FROM sessions ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			sum             SessionSummary
			started, finish int64
		)
		if err := rows.Scan(&sum.ID, &sum.Mode, &started, &finish, &sum.Answered, &sum.Correct, &sum.BestStreak); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sum.StartedAt, sum.FinishedAt = time.Unix(started, 0), time.Unix(finish, 0)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// AddMistakes adds counts to the per-unit mistake tally.
func (s *Store) AddMistakes(ctx context.Context, counts map[kana.Unit]int) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().Unix()
	for unit, n := range counts {
		if n <= 0 {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mistakes (unit, count, last_seen) VALUES (?, ?, ?)
			ON CONFLICT(unit) DO UPDATE SET count = count + excluded.count, last_seen = excluded.last_seen`,
			string(unit), n, now)
		if err != nil {
			return fmt.Errorf("adding mistake %s: %w", unit, err)
		}
	}
	return tx.Commit()
}

// UnitCount is a unit with how often it was answered wrong.
type UnitCount struct {
	Unit     kana.Unit
	Count    int
	LastSeen time.Time
}

// ReviewUnits returns the most often missed units, most missed first.
func (s *Store) ReviewUnits(ctx context.Context, limit int) ([]UnitCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit, count, last_seen FROM mistakes
		ORDER BY count DESC, last_seen DESC, unit LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying mistakes: %w", err)
	}
	defer rows.Close()

	var out []UnitCount
	for rows.Next() {
		var (
			uc   UnitCount
			unit string
			seen int64
		)
		if err := rows.Scan(&unit, &uc.Count, &seen); err != nil {
			return nil, fmt.Errorf("scanning mistake: %w", err)
		}
		uc.Unit, uc.LastSeen = kana.Unit(unit), time.Unix(seen, 0)
		out = append(out, uc)
	}
	return out, rows.Err()
}

// ClearMistakes empties the mistake tally.
func (s *Store) ClearMistakes(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM mistakes`); err != nil {
		return fmt.Errorf("clearing mistakes: %w", err)
	}
	return nil
}
