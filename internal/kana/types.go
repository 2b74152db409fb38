// Package kana provides the core types shared by the quiz, checker and
// storage packages.
package kana

// Script identifies which kana syllabary a word is written in.
type Script string

const (
	Hiragana Script = "hiragana"
	Katakana Script = "katakana"
)

// Valid reports whether s is one of the known scripts.
func (s Script) Valid() bool {
	return s == Hiragana || s == Katakana
}

// Unit is one learner-facing answer chunk: a single kana, a digraph
// (きゃ) or a sokuon-fused pair/triple (っき, っきゃ).
type Unit string

// JapaneseWord is a quiz item. It is read-only once loaded.
type JapaneseWord struct {
	Kana    string   `yaml:"kana" json:"kana"`                           // Text the learner reads (e.g., "すし")
	Romaji  string   `yaml:"romaji" json:"romaji"`                       // Canonical romanization (e.g., "sushi")
	Type    Script   `yaml:"type" json:"type"`                           // hiragana or katakana
	Meaning string   `yaml:"meaning,omitempty" json:"meaning,omitempty"` // Optional English gloss
	Kanji   string   `yaml:"kanji,omitempty" json:"kanji,omitempty"`     // Optional kanji spelling
	Groups  []string `yaml:"groups,omitempty" json:"groups,omitempty"`   // Answer-unit groups this word belongs to
}

// InGroup reports whether the word carries the given group tag.
func (w JapaneseWord) InGroup(group string) bool {
	for _, g := range w.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// CharacterResult is the verdict for a single tokenized unit.
type CharacterResult struct {
	Unit        Unit     `json:"unit"`
	ValidRomaji []string `json:"valid_romaji"` // Every accepted spelling, primary first
	UserInput   string   `json:"user_input"`   // Slice of the answer aligned to this unit
	Correct     bool     `json:"correct"`
}

// ErrorDetectionResult aggregates per-unit verdicts for one answer.
type ErrorDetectionResult struct {
	Characters     []CharacterResult `json:"characters"`
	IsFullyCorrect bool              `json:"is_fully_correct"` // every unit correct and no extra input
	CorrectCount   int               `json:"correct_count"`
	IncorrectCount int               `json:"incorrect_count"`
	ExtraInput     string            `json:"extra_input"` // unmatched trailing input, "" if none
}

// IncorrectUnits returns the units the learner got wrong, in order.
func (r ErrorDetectionResult) IncorrectUnits() []Unit {
	var units []Unit
	for _, c := range r.Characters {
		if !c.Correct {
			units = append(units, c.Unit)
		}
	}
	return units
}
