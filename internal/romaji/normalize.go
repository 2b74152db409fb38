package romaji

import (
	"strings"

	"golang.org/x/text/width"
)

// spellingVariants maps alternate romanizations (Nihon-shiki/Kunrei) to
// the Hepburn spelling used by the dictionary.
var spellingVariants = map[string]string{
	// Digraphs (3 letters)
	"sya": "sha", "syu": "shu", "syo": "sho",
	"tya": "cha", "tyu": "chu", "tyo": "cho",
	"zya": "ja", "zyu": "ju", "zyo": "jo",
	// Single units (2 letters)
	"si": "shi", "ti": "chi", "tu": "tsu",
	"hu": "fu", "zi": "ji", "di": "ji",
}

// clusters are Hepburn consonant clusters copied through as a whole so
// that their tail is not mistaken for a variant ("shu" must not become "sfu").
var clusters = map[string]bool{"sh": true, "ch": true, "ts": true}

// Normalize canonicalizes romaji typed by a learner so that equivalent
// spellings compare equal. Full-width input is folded to ASCII, the text is
// lowercased and trimmed, variants are rewritten longest match first, the
// apostrophe in "n'" is dropped and runs of "n" collapse to one. Normalize
// is idempotent.
func Normalize(text string) string {
	return collapseN(rewriteVariants(text))
}

// rewriteVariants is Normalize without the "n" collapse. The error
// detector aligns on this form: collapsing "konnichiha" to "konichiha"
// would rob ん of its letter before alignment.
func rewriteVariants(text string) string {
	text = strings.ToLower(strings.TrimSpace(width.Fold.String(text)))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text) + 4)

	for i := 0; i < len(text); {
		// n' separates ん from a following vowel or y.
		if text[i] == 'n' && i+1 < len(text) && text[i+1] == '\'' {
			b.WriteByte('n')
			for i++; i < len(text) && text[i] == '\''; i++ {
			}
			continue
		}
		if i+3 <= len(text) {
			if repl, ok := spellingVariants[text[i:i+3]]; ok {
				b.WriteString(repl)
				i += 3
				continue
			}
		}
		if i+2 <= len(text) {
			window := text[i : i+2]
			if repl, ok := spellingVariants[window]; ok {
				b.WriteString(repl)
				i += 2
				continue
			}
			if clusters[window] {
				b.WriteString(window)
				i += 2
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// collapseN reduces every run of 'n' to a single 'n'.
func collapseN(s string) string {
	if !strings.Contains(s, "nn") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == 'n' && i > 0 && s[i-1] == 'n' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Equal reports whether two romaji strings match after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
