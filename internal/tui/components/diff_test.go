package components

import (
	"strings"
	"testing"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sushiResult() kana.ErrorDetectionResult {
	return kana.ErrorDetectionResult{
		Characters: []kana.CharacterResult{
			{Unit: "す", ValidRomaji: []string{"su"}, UserInput: "su", Correct: true},
			{Unit: "し", ValidRomaji: []string{"shi", "si"}, UserInput: "sa", Correct: false},
		},
		CorrectCount:   1,
		IncorrectCount: 1,
		ExtraInput:     "x",
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(sushiResult())
	require.Len(t, cols, 2)

	assert.Equal(t, Column{Kana: "す", Typed: "su", Correct: true, Width: 2}, cols[0])
	assert.Equal(t, Column{Kana: "し", Typed: "sa", Hint: "shi", Width: 3}, cols[1])
}

func TestColumnsPlaceholder(t *testing.T) {
	res := kana.ErrorDetectionResult{
		Characters: []kana.CharacterResult{
			{Unit: "きゃ", ValidRomaji: []string{"kya"}},
		},
	}
	cols := Columns(res)
	require.Len(t, cols, 1)
	assert.Equal(t, Placeholder, cols[0].Typed)
	assert.Equal(t, 4, cols[0].Width)
}

func TestRenderDiffPlain(t *testing.T) {
	out := RenderDiff(sushiResult(), PlainDiffStyles(), true)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "す し", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "su sa  +x", lines[1])
	assert.Equal(t, "   shi", lines[2])
}

func TestRenderDiffNoHints(t *testing.T) {
	out := RenderDiff(sushiResult(), PlainDiffStyles(), false)
	assert.Len(t, strings.Split(out, "\n"), 2)

	correct := kana.ErrorDetectionResult{
		Characters: []kana.CharacterResult{
			{Unit: "ね", ValidRomaji: []string{"ne"}, UserInput: "ne", Correct: true},
		},
		CorrectCount:   1,
		IsFullyCorrect: true,
	}
	out = RenderDiff(correct, PlainDiffStyles(), true)
	assert.Equal(t, "ね\nne", out)
}

func TestRenderDiffEmpty(t *testing.T) {
	assert.Empty(t, RenderDiff(kana.ErrorDetectionResult{}, PlainDiffStyles(), true))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, `1/2 units correct, extra input "x"`, Summary(sushiResult()))
	assert.Equal(t, "0/0 units correct", Summary(kana.ErrorDetectionResult{}))
}
