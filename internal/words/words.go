// Package words loads the quiz word sets and builds the computed ones
// (per-group kana drills, numbers and dates).
package words

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
)

// ErrNotFound is returned when a word is not in the set.
var ErrNotFound = errors.New("word not found")

// Group tag added to words that contain a sokuon.
const GroupSokuon = "sokuon"

// Set is an ordered collection of quiz words keyed by kana.
type Set struct {
	Name  string
	words []kana.JapaneseWord
	index map[string]int
}

// NewSet creates a set from words. Later duplicates of the same kana are
// dropped.
func NewSet(name string, words ...kana.JapaneseWord) *Set {
	s := &Set{Name: name, index: make(map[string]int)}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add appends w unless a word with the same kana exists. It reports
// whether w was added.
func (s *Set) Add(w kana.JapaneseWord) bool {
	w.Kana = strings.TrimSpace(w.Kana)
	if w.Kana == "" {
		return false
	}
	if _, ok := s.index[w.Kana]; ok {
		return false
	}
	s.index[w.Kana] = len(s.words)
	s.words = append(s.words, w)
	return true
}

// LoadFile reads a JSONL word file, one JapaneseWord per line.
func LoadFile(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := Read(name, file)
	if err != nil {
		return nil, fmt.Errorf("reading word file %s: %w", path, err)
	}
	return s, nil
}

// Read decodes JSONL from r. Blank and malformed lines are skipped.
func Read(name string, r io.Reader) (*Set, error) {
	s := NewSet(name)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var w kana.JapaneseWord
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			// Skip malformed entries
			continue
		}
		s.Add(w)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Write encodes the set as JSONL.
func (s *Set) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, word := range s.words {
		if err := enc.Encode(word); err != nil {
			return fmt.Errorf("encoding %s: %w", word.Kana, err)
		}
	}
	return nil
}

// Hash identifies the content of the set. It changes whenever any word
// or the order of words changes.
func (s *Set) Hash() string {
	h := sha256.New()
	_ = s.Write(h)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the word with the given kana, or nil.
func (s *Set) Lookup(text string) *kana.JapaneseWord {
	i, ok := s.index[strings.TrimSpace(text)]
	if !ok {
		return nil
	}
	w := s.words[i]
	return &w
}

// Get is Lookup with an error for missing words.
func (s *Set) Get(text string) (kana.JapaneseWord, error) {
	if w := s.Lookup(text); w != nil {
		return *w, nil
	}
	return kana.JapaneseWord{}, fmt.Errorf("%w: %s", ErrNotFound, text)
}

// Len returns the number of words.
func (s *Set) Len() int {
	return len(s.words)
}

// Words returns a copy of the words in order.
func (s *Set) Words() []kana.JapaneseWord {
	out := make([]kana.JapaneseWord, len(s.words))
	copy(out, s.words)
	return out
}

// FilterOptions selects words by script and group tag. Empty fields
// match everything.
type FilterOptions struct {
	Scripts []kana.Script
	Groups  []string
}

// Filter returns a new set with the words matching opts. A word matches
// the group filter if it carries any of the listed groups.
func (s *Set) Filter(opts FilterOptions) *Set {
	out := NewSet(s.Name)
	for _, w := range s.words {
		if len(opts.Scripts) > 0 && !containsScript(opts.Scripts, w.Type) {
			continue
		}
		if len(opts.Groups) > 0 && !anyGroup(w, opts.Groups) {
			continue
		}
		out.Add(w)
	}
	return out
}

// Fill completes words loaded without romaji, script or group tags.
// Romaji comes from the table's canonical conversion; group tags are the
// dictionary groups of the word's units.
func (s *Set) Fill(table *romaji.Table) {
	for i := range s.words {
		w := &s.words[i]
		if w.Romaji == "" {
			w.Romaji = table.ToRomaji(w.Kana)
		}
		if w.Type == "" {
			w.Type = DetectScript(w.Kana)
		}
		if len(w.Groups) == 0 {
			w.Groups = UnitGroups(table, w.Kana)
		}
	}
}

// UnitGroups lists the distinct dictionary groups of the units in text,
// in order of first appearance. Sokuon units add GroupSokuon.
func UnitGroups(table *romaji.Table, text string) []string {
	var groups []string
	seen := make(map[string]bool)
	add := func(g string) {
		if g != "" && !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	for _, u := range romaji.Tokenize(text) {
		runes := []rune(string(u))
		if len(runes) > 1 && romaji.IsSokuon(runes[0]) {
			add(GroupSokuon)
			u = kana.Unit(runes[1:])
		}
		add(table.GroupOf(u))
	}
	return groups
}

// DetectScript returns the script most of text is written in.
func DetectScript(text string) kana.Script {
	var hira, kata int
	for _, r := range text {
		switch {
		case r >= 0x3041 && r <= 0x309F:
			hira++
		case r >= 0x30A0 && r <= 0x30FF:
			kata++
		}
	}
	if kata > hira {
		return kana.Katakana
	}
	return kana.Hiragana
}

func containsScript(scripts []kana.Script, s kana.Script) bool {
	for _, x := range scripts {
		if x == s {
			return true
		}
	}
	return false
}

func anyGroup(w kana.JapaneseWord, groups []string) bool {
	for _, g := range groups {
		if w.InGroup(g) {
			return true
		}
	}
	return false
}
