package romaji

import (
	"strings"

	"github.com/f3rmion/kana/internal/kana"
)

// isConsonant reports whether b is a romaji consonant letter that can be
// doubled by a sokuon.
func isConsonant(b byte) bool {
	return b >= 'a' && b <= 'z' && !strings.ContainsRune("aeiou", rune(b))
}

// lookupWindow tries the 2-rune window at i, then the 1-rune window, and
// returns the primary spelling and the number of runes it covers.
func (t *Table) lookupWindow(runes []rune, i int) (string, int) {
	if i+2 <= len(runes) {
		if primary := t.LookupPrimary(kana.Unit(runes[i : i+2])); primary != "" {
			return primary, 2
		}
	}
	if i < len(runes) {
		if primary := t.LookupPrimary(kana.Unit(runes[i : i+1])); primary != "" {
			return primary, 1
		}
	}
	return "", 0
}

// ToRomaji converts a kana string to its canonical romaji, greedily from
// left to right. A sokuon doubles the first consonant of the following
// syllable. Characters with no mapping pass through unchanged.
func (t *Table) ToRomaji(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(runes) * 3)

	for i := 0; i < len(runes); {
		if IsSokuon(runes[i]) {
			if next, _ := t.lookupWindow(runes, i+1); next != "" && isConsonant(next[0]) {
				b.WriteByte(next[0])
				i++
				continue
			}
		}

		if primary, n := t.lookupWindow(runes, i); n > 0 {
			b.WriteString(primary)
			i += n
			continue
		}

		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// geminate doubles the leading consonant of spelling. Spellings starting
// with "ch" also get the Hepburn "tch" form, listed second.
func geminate(spelling string) []string {
	if spelling == "" || !isConsonant(spelling[0]) {
		return []string{spelling}
	}
	forms := []string{spelling[:1] + spelling}
	if strings.HasPrefix(spelling, "ch") {
		forms = append(forms, "t"+spelling)
	}
	return forms
}

// splitSokuon returns the unit without its leading sokuon and whether one
// was present.
func splitSokuon(unit kana.Unit) (kana.Unit, bool) {
	runes := []rune(string(unit))
	if len(runes) > 1 && IsSokuon(runes[0]) {
		return kana.Unit(runes[1:]), true
	}
	return unit, false
}

// ValidRomaji returns every accepted spelling of a tokenized unit, primary
// first. Sokuon-fused units expand each spelling of the base unit with a
// doubled consonant ("っき" → "kki"). Unknown units yield nil.
func (t *Table) ValidRomaji(unit kana.Unit) []string {
	base, fused := splitSokuon(unit)
	if !fused {
		return t.LookupAll(unit)
	}

	var out []string
	seen := make(map[string]bool)
	for _, s := range t.LookupAll(base) {
		for _, form := range geminate(s) {
			if !seen[form] {
				seen[form] = true
				out = append(out, form)
			}
		}
	}
	return out
}

// expectedRomaji is the primary spelling a unit contributes to the full
// expected answer. Units without a mapping contribute their own text.
func (t *Table) expectedRomaji(unit kana.Unit) string {
	if valid := t.ValidRomaji(unit); len(valid) > 0 {
		return valid[0]
	}
	return string(unit)
}
