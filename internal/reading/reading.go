// Package reading derives kana readings for Japanese text written with
// kanji, using the kagome morphological analyzer and its IPA dictionary.
package reading

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Reader turns mixed kanji/kana text into hiragana.
type Reader struct {
	t *tokenizer.Tokenizer
}

// New loads the IPA dictionary. It takes about a second and a fair amount
// of memory, so build one Reader and only when readings are needed.
func New() (*Reader, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("creating tokenizer: %w", err)
	}
	return &Reader{t: t}, nil
}

// Reading returns the hiragana reading of text. ok is false when some
// token has no known reading and is not kana itself, e.g. Latin letters
// or a kanji missing from the dictionary.
func (r *Reader) Reading(text string) (string, bool) {
	var sb strings.Builder
	for _, tok := range r.t.Tokenize(strings.TrimSpace(text)) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		reading, ok := tok.Reading()
		if !ok || reading == "" || reading == "*" {
			if !IsKana(tok.Surface) {
				return "", false
			}
			reading = tok.Surface
		}
		sb.WriteString(reading)
	}

	out := ToHiragana(sb.String())
	return out, out != ""
}

// ToHiragana maps katakana to hiragana. The long vowel mark and runes
// outside the katakana block are kept.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - ('ァ' - 'ぁ')
		}
		return r
	}, s)
}

// IsKana reports whether s is non-empty and written only in hiragana and
// katakana (including ー).
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.In(r, unicode.Hiragana, unicode.Katakana) && r != 'ー' {
			return false
		}
	}
	return true
}
