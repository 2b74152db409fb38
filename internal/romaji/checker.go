package romaji

import (
	"context"

	"github.com/f3rmion/kana/internal/kana"
)

// Checker is the entry point used by the quiz: it pairs the pure
// functions with a lazily loaded table and surfaces ErrDataUnavailable
// instead of checking answers against a missing table.
type Checker struct {
	loader *Loader
}

// NewChecker wraps loader.
func NewChecker(loader *Loader) *Checker {
	return &Checker{loader: loader}
}

// Loader exposes the underlying loader (for Reset on retry).
func (c *Checker) Loader() *Loader {
	return c.loader
}

// Tokenize splits kana into answer units.
func (c *Checker) Tokenize(text string) []kana.Unit {
	return Tokenize(text)
}

// Normalize canonicalizes typed romaji.
func (c *Checker) Normalize(text string) string {
	return Normalize(text)
}

// ToRomaji converts kana to canonical romaji.
func (c *Checker) ToRomaji(ctx context.Context, text string) (string, error) {
	t, err := c.loader.Table(ctx)
	if err != nil {
		return "", err
	}
	return t.ToRomaji(text), nil
}

// Validate reports whether input is an acceptable answer for word.
func (c *Checker) Validate(ctx context.Context, input string, word kana.JapaneseWord) (bool, error) {
	t, err := c.loader.Table(ctx)
	if err != nil {
		return false, err
	}
	return t.Validate(input, word), nil
}

// DetectErrors produces the per-unit verdict for input against text.
func (c *Checker) DetectErrors(ctx context.Context, text, input string) (kana.ErrorDetectionResult, error) {
	t, err := c.loader.Table(ctx)
	if err != nil {
		return kana.ErrorDetectionResult{}, err
	}
	return t.DetectErrors(text, input), nil
}

// ValidRomaji lists the accepted spellings of a unit.
func (c *Checker) ValidRomaji(ctx context.Context, unit kana.Unit) ([]string, error) {
	t, err := c.loader.Table(ctx)
	if err != nil {
		return nil, err
	}
	return t.ValidRomaji(unit), nil
}

// Grade validates input against word and returns the per-unit verdict.
func (c *Checker) Grade(ctx context.Context, input string, word kana.JapaneseWord) (bool, kana.ErrorDetectionResult, error) {
	t, err := c.loader.Table(ctx)
	if err != nil {
		return false, kana.ErrorDetectionResult{}, err
	}
	correct, res := t.Grade(input, word)
	return correct, res, nil
}
