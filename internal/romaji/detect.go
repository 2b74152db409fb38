package romaji

import (
	"strings"

	"github.com/f3rmion/kana/internal/kana"
)

// DetectErrors checks input against the reading of text unit by unit.
//
// The expected romaji of every unit is concatenated and aligned with the
// learner's input by edit distance; the alignment is then cut back into
// per-unit segments at the expected-side boundaries. Input left over after
// the last unit is reported as ExtraInput. A unit is correct when its
// segment matches any valid spelling, not only the primary one.
func (t *Table) DetectErrors(text, input string) kana.ErrorDetectionResult {
	units := Tokenize(strings.TrimSpace(text))
	if len(units) == 0 {
		return kana.ErrorDetectionResult{Characters: []kana.CharacterResult{}}
	}

	var expected strings.Builder
	lengths := make([]int, len(units))
	for i, u := range units {
		r := t.expectedRomaji(u)
		expected.WriteString(r)
		lengths[i] = len([]rune(r))
	}

	// Normalize minus the n collapse, so a typed "nn" still covers ん.
	answer := rewriteVariants(input)
	al := Align(expected.String(), answer)

	result := kana.ErrorDetectionResult{
		Characters: make([]kana.CharacterResult, 0, len(units)),
	}

	col := 0
	for i, u := range units {
		var segment strings.Builder
		for consumed := 0; consumed < lengths[i] && col < len(al.Expected); col++ {
			if al.Expected[col] != Gap {
				consumed++
			}
			if al.Actual[col] != Gap {
				segment.WriteRune(al.Actual[col])
			}
		}

		valid := t.ValidRomaji(u)
		if len(valid) == 0 {
			valid = []string{string(u)}
		}
		cr := kana.CharacterResult{
			Unit:        u,
			ValidRomaji: valid,
			UserInput:   segment.String(),
			Correct:     matchesAny(segment.String(), valid),
		}
		if cr.Correct {
			result.CorrectCount++
		} else {
			result.IncorrectCount++
		}
		result.Characters = append(result.Characters, cr)
	}

	var extra strings.Builder
	for ; col < len(al.Actual); col++ {
		if al.Actual[col] != Gap {
			extra.WriteRune(al.Actual[col])
		}
	}
	result.ExtraInput = extra.String()
	result.IsFullyCorrect = result.IncorrectCount == 0 && result.ExtraInput == ""

	return result
}

// matchesAny compares a normalized segment with each spelling, both as
// written and normalized.
func matchesAny(segment string, spellings []string) bool {
	seg := Normalize(segment)
	if seg == "" {
		return false
	}
	for _, s := range spellings {
		s = strings.ToLower(s)
		if seg == s || seg == Normalize(s) {
			return true
		}
	}
	return false
}
