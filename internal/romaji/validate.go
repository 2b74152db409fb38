package romaji

import (
	"strings"

	"github.com/f3rmion/kana/internal/kana"
)

// particle describes a kana whose grammatical-particle pronunciation
// differs from its written romaji.
type particle struct {
	kana    string
	written string
	spoken  string
}

var particles = []particle{
	{kana: "は", written: "ha", spoken: "wa"},
	{kana: "へ", written: "he", spoken: "e"},
	{kana: "を", written: "wo", spoken: "o"},
}

// Validate reports whether input is an acceptable answer for word. Checks
// run in order: exact match with the canonical romaji, match after
// normalization, then the particle endings は/へ/を read as wa/e/o.
func (t *Table) Validate(input string, word kana.JapaneseWord) bool {
	answer := strings.ToLower(strings.TrimSpace(input))
	expected := strings.ToLower(strings.TrimSpace(word.Romaji))
	if expected == "" {
		expected = t.ToRomaji(strings.TrimSpace(word.Kana))
	}

	if answer == expected {
		return true
	}

	normAnswer := Normalize(answer)
	if normAnswer != "" && normAnswer == Normalize(expected) {
		return true
	}

	return matchesParticleEnding(answer, strings.TrimSpace(word.Kana), expected)
}

// matchesParticleEnding accepts "...wa" for a word written "...ha" and
// ending in は, and likewise for へ and を.
func matchesParticleEnding(answer, text, expected string) bool {
	for _, p := range particles {
		if !strings.HasSuffix(text, p.kana) || !strings.HasSuffix(expected, p.written) {
			continue
		}
		if !strings.HasSuffix(answer, p.spoken) {
			continue
		}

		stem := strings.TrimSuffix(expected, p.written)
		answerStem := strings.TrimSuffix(answer, p.spoken)
		if answerStem == stem || Normalize(answerStem) == Normalize(stem) {
			return true
		}
	}
	return false
}

// Grade validates input against word and runs the detector on it. When
// the answer is accepted because of a particle ending, the final unit is
// marked correct so the per-unit verdict agrees with the whole-answer one.
func (t *Table) Grade(input string, word kana.JapaneseWord) (bool, kana.ErrorDetectionResult) {
	correct := t.Validate(input, word)
	res := t.DetectErrors(word.Kana, input)
	if correct && !res.IsFullyCorrect {
		acceptSpokenParticle(&res)
	}
	return correct, res
}

// acceptSpokenParticle marks a trailing は/へ/を correct when the learner
// typed its spoken form.
func acceptSpokenParticle(res *kana.ErrorDetectionResult) {
	n := len(res.Characters)
	if n == 0 {
		return
	}
	last := &res.Characters[n-1]
	if last.Correct {
		return
	}
	for _, p := range particles {
		if string(last.Unit) != p.kana || Normalize(last.UserInput) != p.spoken {
			continue
		}
		last.Correct = true
		res.CorrectCount++
		res.IncorrectCount--
		res.IsFullyCorrect = res.IncorrectCount == 0 && res.ExtraInput == ""
		return
	}
}
