package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"スシ", "すし"},
		{"キョウ", "きょう"},
		{"ラーメン", "らーめん"},
		{"ヴ", "ゔ"},
		{"すし", "すし"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHiragana(tt.in), tt.in)
	}
}

func TestIsKana(t *testing.T) {
	assert.True(t, IsKana("すし"))
	assert.True(t, IsKana("ラーメン"))
	assert.False(t, IsKana(""))
	assert.False(t, IsKana("寿司"))
	assert.False(t, IsKana("sushi"))
}

func TestReading(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the IPA dictionary")
	}
	r, err := New()
	require.NoError(t, err)

	got, ok := r.Reading("猫")
	assert.True(t, ok)
	assert.Equal(t, "ねこ", got)

	got, ok = r.Reading("すし")
	assert.True(t, ok)
	assert.Equal(t, "すし", got)

	_, ok = r.Reading("")
	assert.False(t, ok)
}
