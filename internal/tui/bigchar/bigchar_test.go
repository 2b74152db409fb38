package bigchar

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func goFace(t *testing.T) *Renderer {
	t.Helper()
	face, err := ParseFace(goregular.TTF)
	require.NoError(t, err)
	return New(face)
}

func TestRender_Shape(t *testing.T) {
	r := goFace(t)
	require.True(t, r.Available())

	out := r.Render("AB", 8, 4)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 8*2+1, utf8.RuneCountInString(line))
	}
	assert.True(t, strings.ContainsAny(out, "█▀▄"), "glyphs should leave ink")
}

func TestRender_Cached(t *testing.T) {
	r := goFace(t)
	first := r.Render("A", 6, 3)
	assert.Equal(t, first, r.Render("A", 6, 3))
	assert.Len(t, r.cache, 1)
}

func TestRender_NoFont(t *testing.T) {
	var nilRenderer *Renderer
	assert.False(t, nilRenderer.Available())
	assert.Equal(t, "", New(nil).Render("あ", 8, 4))
	assert.Equal(t, "", goFace(t).Render("", 8, 4))
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 255})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(2, 1, color.Gray{Y: 255})

	assert.Equal(t, "█▀▄", halfBlocks(img, 3, 1))
}

func TestScaleDown(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for x := 0; x < 2; x++ {
		for y := 0; y < 4; y++ {
			src.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	dst := scaleDown(src, 2, 2)
	assert.Equal(t, uint8(200), dst.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), dst.GrayAt(1, 1).Y)
}
