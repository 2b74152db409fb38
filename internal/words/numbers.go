package words

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
)

// MaxNumber is the largest number NumberKana can read.
const MaxNumber = 99_999_999

var digitKana = [10]string{"", "いち", "に", "さん", "よん", "ご", "ろく", "なな", "はち", "きゅう"}

var digitKanji = [10]string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// Irregular readings of digit × place.
var hundreds = map[int]string{1: "ひゃく", 3: "さんびゃく", 6: "ろっぴゃく", 8: "はっぴゃく"}

var thousands = map[int]string{1: "せん", 3: "さんぜん", 8: "はっせん"}

// NumberKana returns the reading of n, for 0 <= n <= MaxNumber.
func NumberKana(n int) (string, error) {
	if n < 0 || n > MaxNumber {
		return "", fmt.Errorf("number %d out of range 0..%d", n, MaxNumber)
	}
	if n == 0 {
		return "ぜろ", nil
	}

	var b strings.Builder
	if man := n / 10_000; man > 0 {
		// 10,000,000 is いっせんまん, not せんまん.
		if man/1000 == 1 {
			b.WriteString("いっせん")
			man %= 1000
		}
		b.WriteString(belowTenThousand(man))
		b.WriteString("まん")
	}
	b.WriteString(belowTenThousand(n % 10_000))
	return b.String(), nil
}

func belowTenThousand(n int) string {
	var b strings.Builder

	if d := n / 1000; d > 0 {
		if r, ok := thousands[d]; ok {
			b.WriteString(r)
		} else {
			b.WriteString(digitKana[d] + "せん")
		}
	}
	if d := n / 100 % 10; d > 0 {
		if r, ok := hundreds[d]; ok {
			b.WriteString(r)
		} else {
			b.WriteString(digitKana[d] + "ひゃく")
		}
	}
	if d := n / 10 % 10; d > 0 {
		if d > 1 {
			b.WriteString(digitKana[d])
		}
		b.WriteString("じゅう")
	}
	if d := n % 10; d > 0 {
		b.WriteString(digitKana[d])
	}
	return b.String()
}

// NumberKanji writes n with kanji numerals (e.g. 三百五).
func NumberKanji(n int) string {
	if n == 0 {
		return "零"
	}
	var b strings.Builder
	if man := n / 10_000; man > 0 {
		b.WriteString(kanjiBelowTenThousand(man))
		b.WriteString("万")
	}
	b.WriteString(kanjiBelowTenThousand(n % 10_000))
	return b.String()
}

func kanjiBelowTenThousand(n int) string {
	var b strings.Builder
	for _, p := range []struct {
		div  int
		unit string
	}{{1000, "千"}, {100, "百"}, {10, "十"}} {
		d := n / p.div % 10
		if d == 0 {
			continue
		}
		if d > 1 {
			b.WriteString(digitKanji[d])
		}
		b.WriteString(p.unit)
	}
	b.WriteString(digitKanji[n%10])
	return b.String()
}

// NumberWord returns the quiz word for n.
func NumberWord(table *romaji.Table, n int) (kana.JapaneseWord, error) {
	reading, err := NumberKana(n)
	if err != nil {
		return kana.JapaneseWord{}, err
	}
	return kana.JapaneseWord{
		Kana:    reading,
		Romaji:  table.ToRomaji(reading),
		Type:    kana.Hiragana,
		Meaning: strconv.Itoa(n),
		Kanji:   NumberKanji(n),
		Groups:  []string{"numbers"},
	}, nil
}

// NumberSet builds the words for from <= n < to.
func NumberSet(table *romaji.Table, from, to int) (*Set, error) {
	s := NewSet("numbers")
	for n := from; n < to; n++ {
		w, err := NumberWord(table, n)
		if err != nil {
			return nil, err
		}
		s.Add(w)
	}
	return s, nil
}
