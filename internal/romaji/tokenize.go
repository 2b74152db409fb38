package romaji

import "github.com/f3rmion/kana/internal/kana"

// IsSokuon reports whether r is the small tsu in either script.
func IsSokuon(r rune) bool {
	return r == 'っ' || r == 'ッ'
}

// IsYGlide reports whether r is a small ya/yu/yo in either script.
func IsYGlide(r rune) bool {
	switch r {
	case 'ゃ', 'ゅ', 'ょ', 'ャ', 'ュ', 'ョ':
		return true
	}
	return false
}

// isDigraph reports whether base followed by glide forms one syllable.
func isDigraph(base, glide rune) bool {
	return IsYGlide(glide) && !IsYGlide(base) && !IsSokuon(base)
}

// Tokenize splits kana into the units a learner answers one at a time.
// It is a pure function of its input: single left-to-right scan, longest
// match first (sokuon+digraph, sokuon+kana, digraph, single kana).
func Tokenize(text string) []kana.Unit {
	runes := []rune(text)
	units := make([]kana.Unit, 0, len(runes))

	for i := 0; i < len(runes); {
		r := runes[i]

		if IsSokuon(r) {
			switch {
			case i+2 < len(runes) && isDigraph(runes[i+1], runes[i+2]):
				units = append(units, kana.Unit(runes[i:i+3]))
				i += 3
			case i+1 < len(runes):
				units = append(units, kana.Unit(runes[i:i+2]))
				i += 2
			default:
				units = append(units, kana.Unit(runes[i:i+1]))
				i++
			}
			continue
		}

		if i+1 < len(runes) && isDigraph(r, runes[i+1]) {
			units = append(units, kana.Unit(runes[i:i+2]))
			i += 2
			continue
		}

		units = append(units, kana.Unit(runes[i:i+1]))
		i++
	}
	return units
}
