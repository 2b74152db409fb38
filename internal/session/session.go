// Package session keeps score for a run of quiz questions.
package session

import (
	"math/rand"
	"sort"
	"time"

	"github.com/f3rmion/kana/internal/kana"
)

// Mode selects how long a session runs.
type Mode string

const (
	Infinite Mode = "infinite" // words repeat, reshuffled after each pass
	Fixed    Mode = "session"  // ends after Length answers
)

// Session tracks score, streaks and mistakes. It is not safe for
// concurrent use.
type Session struct {
	Mode   Mode
	Length int

	StartedAt  time.Time
	Answered   int
	Correct    int
	Streak     int
	BestStreak int

	words   []kana.JapaneseWord
	order   []int
	pos     int
	rng     *rand.Rand
	current *kana.JapaneseWord
	tally   map[kana.Unit]int
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithClock sets the start time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.StartedAt = now() }
}

// New starts a session over words. In Fixed mode a non-positive length
// means one pass over the words.
func New(mode Mode, length int, words []kana.JapaneseWord, opts ...Option) *Session {
	s := &Session{
		Mode:      mode,
		Length:    length,
		StartedAt: time.Now(),
		words:     words,
		tally:     make(map[kana.Unit]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.Mode == Fixed && s.Length <= 0 {
		s.Length = len(words)
	}
	s.shuffle()
	return s
}

func (s *Session) shuffle() {
	s.order = s.rng.Perm(len(s.words))
	s.pos = 0
}

// Next returns the next word to ask, or false when the session is done
// or has no words. Asking Next twice without Record skips a word.
func (s *Session) Next() (kana.JapaneseWord, bool) {
	if s.Done() || len(s.words) == 0 {
		s.current = nil
		return kana.JapaneseWord{}, false
	}
	if s.pos >= len(s.order) {
		s.shuffle()
	}

	w := s.words[s.order[s.pos]]
	s.pos++
	s.current = &w
	return w, true
}

// Current returns the word last returned by Next.
func (s *Session) Current() (kana.JapaneseWord, bool) {
	if s.current == nil {
		return kana.JapaneseWord{}, false
	}
	return *s.current, true
}

// Record scores an answer. The incorrect units of a rejected answer are
// added to the mistake tally; an accepted answer adds nothing.
func (s *Session) Record(correct bool, result kana.ErrorDetectionResult) {
	s.Answered++
	s.current = nil
	if correct {
		s.Correct++
		s.Streak++
		if s.Streak > s.BestStreak {
			s.BestStreak = s.Streak
		}
		return
	}

	s.Streak = 0
	for _, u := range result.IncorrectUnits() {
		s.tally[u]++
	}
}

// Done reports whether a Fixed session has reached its length.
func (s *Session) Done() bool {
	return s.Mode == Fixed && s.Answered >= s.Length
}

// Remaining returns the answers left in a Fixed session, or -1.
func (s *Session) Remaining() int {
	if s.Mode != Fixed {
		return -1
	}
	return max(s.Length-s.Answered, 0)
}

// Accuracy returns the fraction of correct answers.
func (s *Session) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// UnitCount is one entry of the mistake tally.
type UnitCount struct {
	Unit  kana.Unit
	Count int
}

// Tally returns missed units, most missed first, ties by unit.
func (s *Session) Tally() []UnitCount {
	out := make([]UnitCount, 0, len(s.tally))
	for u, n := range s.tally {
		out = append(out, UnitCount{Unit: u, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Mistakes returns a copy of the raw tally.
func (s *Session) Mistakes() map[kana.Unit]int {
	out := make(map[kana.Unit]int, len(s.tally))
	for u, n := range s.tally {
		out[u] = n
	}
	return out
}
