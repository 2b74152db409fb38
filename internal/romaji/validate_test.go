package romaji

import (
	"testing"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	table := defaultTable(t)

	konnichiha := kana.JapaneseWord{Kana: "こんにちは", Romaji: "konnichiha", Type: kana.Hiragana}
	sushi := kana.JapaneseWord{Kana: "すし", Romaji: "sushi", Type: kana.Hiragana}

	tests := []struct {
		name  string
		input string
		word  kana.JapaneseWord
		want  bool
	}{
		{"exact", "sushi", sushi, true},
		{"case_and_space", "  SUSHI  ", sushi, true},
		{"kunrei", "susi", sushi, true},
		{"wrong", "sashi", sushi, false},
		{"empty", "", sushi, false},
		{"particle_spoken", "konnichiwa", konnichiha, true},
		{"particle_written", "konnichiha", konnichiha, true},
		{"particle_single_n", "konichiwa", konnichiha, true},
		{"particle_wrong_stem", "konbanwa", konnichiha, false},
		{"he_as_e", "e", kana.JapaneseWord{Kana: "へ", Romaji: "he"}, true},
		{"wo_as_o", "o", kana.JapaneseWord{Kana: "を", Romaji: "wo"}, true},
		{"wa_without_particle", "wa", kana.JapaneseWord{Kana: "わ", Romaji: "wa"}, true},
		{"ha_not_particle_kana", "wa", kana.JapaneseWord{Kana: "ハ", Romaji: "ha"}, false},
		{"missing_romaji", "sushi", kana.JapaneseWord{Kana: "すし"}, true},
		{"doubled_n", "konnnichiha", konnichiha, true},
		{"n_apostrophe", "sen'en", kana.JapaneseWord{Kana: "せんえん", Romaji: "senen"}, true},
		{"n_apostrophe_before_y", "hon'ya", kana.JapaneseWord{Kana: "ほんや"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Validate(tt.input, tt.word))
		})
	}
}

func TestGrade_SpokenParticle(t *testing.T) {
	table := defaultTable(t)
	konnichiha := kana.JapaneseWord{Kana: "こんにちは", Romaji: "konnichiha"}

	ok, res := table.Grade("konnichiwa", konnichiha)
	assert.True(t, ok)
	assert.True(t, res.IsFullyCorrect)
	assert.Equal(t, 5, res.CorrectCount)
	assert.Zero(t, res.IncorrectCount)
	assert.Empty(t, res.IncorrectUnits())
	assert.Equal(t, "wa", res.Characters[4].UserInput)

	ok, res = table.Grade("o", kana.JapaneseWord{Kana: "を", Romaji: "wo"})
	assert.True(t, ok)
	assert.True(t, res.IsFullyCorrect)
}

func TestGrade_WrongAnswerKeepsVerdict(t *testing.T) {
	table := defaultTable(t)

	ok, res := table.Grade("konbanwa", kana.JapaneseWord{Kana: "こんにちは", Romaji: "konnichiha"})
	assert.False(t, ok)
	assert.False(t, res.IsFullyCorrect)
	assert.NotEmpty(t, res.IncorrectUnits())

	// The particle reading does not apply to a plain わ/ハ word.
	ok, res = table.Grade("wa", kana.JapaneseWord{Kana: "ハ", Romaji: "ha"})
	assert.False(t, ok)
	assert.Equal(t, []kana.Unit{"ハ"}, res.IncorrectUnits())
}
