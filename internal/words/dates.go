package words

import (
	"fmt"
	"time"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
)

// Days whose reading is not number + にち.
var irregularDays = map[int]string{
	1:  "ついたち",
	2:  "ふつか",
	3:  "みっか",
	4:  "よっか",
	5:  "いつか",
	6:  "むいか",
	7:  "なのか",
	8:  "ようか",
	9:  "ここのか",
	10: "とおか",
	14: "じゅうよっか",
	20: "はつか",
	24: "にじゅうよっか",
}

// Months whose number is read differently from NumberKana.
var irregularMonths = map[int]string{
	4: "しがつ",
	7: "しちがつ",
	9: "くがつ",
}

// DayOfMonthKana returns the reading of day d of a month (1..31).
func DayOfMonthKana(d int) (string, error) {
	if d < 1 || d > 31 {
		return "", fmt.Errorf("day %d out of range 1..31", d)
	}
	if r, ok := irregularDays[d]; ok {
		return r, nil
	}

	// 7 and 9 take the しち/く readings before にち.
	n, _ := NumberKana(d - d%10)
	if d < 10 {
		n = ""
	}
	switch d % 10 {
	case 7:
		return n + "しちにち", nil
	case 9:
		return n + "くにち", nil
	}
	reading, _ := NumberKana(d)
	return reading + "にち", nil
}

// MonthKana returns the reading of month m (1..12).
func MonthKana(m int) (string, error) {
	if m < 1 || m > 12 {
		return "", fmt.Errorf("month %d out of range 1..12", m)
	}
	if r, ok := irregularMonths[m]; ok {
		return r, nil
	}
	n, _ := NumberKana(m)
	return n + "がつ", nil
}

// DayOfMonthWord returns the quiz word for day d.
func DayOfMonthWord(table *romaji.Table, d int) (kana.JapaneseWord, error) {
	reading, err := DayOfMonthKana(d)
	if err != nil {
		return kana.JapaneseWord{}, err
	}
	return kana.JapaneseWord{
		Kana:    reading,
		Romaji:  table.ToRomaji(reading),
		Type:    kana.Hiragana,
		Meaning: ordinal(d) + " (day of month)",
		Kanji:   NumberKanji(d) + "日",
		Groups:  []string{"days"},
	}, nil
}

// MonthWord returns the quiz word for month m.
func MonthWord(table *romaji.Table, m int) (kana.JapaneseWord, error) {
	reading, err := MonthKana(m)
	if err != nil {
		return kana.JapaneseWord{}, err
	}
	return kana.JapaneseWord{
		Kana:    reading,
		Romaji:  table.ToRomaji(reading),
		Type:    kana.Hiragana,
		Meaning: time.Month(m).String(),
		Kanji:   NumberKanji(m) + "月",
		Groups:  []string{"months"},
	}, nil
}

// DaySet builds the words for every day of a month.
func DaySet(table *romaji.Table) *Set {
	s := NewSet("days")
	for d := 1; d <= 31; d++ {
		w, _ := DayOfMonthWord(table, d)
		s.Add(w)
	}
	return s
}

// MonthSet builds the words for every month.
func MonthSet(table *romaji.Table) *Set {
	s := NewSet("months")
	for m := 1; m <= 12; m++ {
		w, _ := MonthWord(table, m)
		s.Add(w)
	}
	return s
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
