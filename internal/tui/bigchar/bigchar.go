// Package bigchar renders the kana prompt as large block art using
// half-block characters, so it can be read from across the room.
package bigchar

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontPaths are the system fonts tried by Default, Japanese-capable first.
var FontPaths = []string{
	// macOS
	"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/OTF/NotoSansCJKjp-Regular.otf",
	"/usr/share/fonts/truetype/takao-gothic/TakaoGothic.ttf",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	// Windows
	"C:\\Windows\\Fonts\\meiryo.ttc",
	"C:\\Windows\\Fonts\\msgothic.ttc",
}

// brightness above which a pixel counts as ink
const threshold = 40

// ParseFace builds a 64px face from font or font-collection data.
func ParseFace(data []byte) (font.Face, error) {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		fnt, err := coll.Font(0)
		if err != nil {
			return nil, err
		}
		return opentype.NewFace(fnt, opts)
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, opts)
}

// Renderer draws text with one face and caches the results.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	text       string
	cols, rows int
}

// New returns a renderer for face. A nil face renders nothing.
func New(face font.Face) *Renderer {
	return &Renderer{face: face, cache: make(map[cacheKey]string)}
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Default returns a renderer using the first loadable font in FontPaths.
// The fonts are only read on first use.
func Default() *Renderer {
	defaultOnce.Do(func() {
		for _, path := range FontPaths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if face, err := ParseFace(data); err == nil {
				defaultRenderer = New(face)
				return
			}
		}
		defaultRenderer = New(nil)
	})
	return defaultRenderer
}

// Available reports whether the renderer has a font.
func (r *Renderer) Available() bool {
	return r != nil && r.face != nil
}

// Render draws each character of text in a cols×rows cell block and
// joins the blocks side by side. It returns "" without a font.
func (r *Renderer) Render(text string, cols, rows int) string {
	if !r.Available() || text == "" || cols <= 0 || rows <= 0 {
		return ""
	}

	key := cacheKey{text, cols, rows}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[key]; ok {
		return s
	}

	lines := make([]string, rows)
	for i, ch := range []rune(text) {
		block := strings.Split(r.renderRune(ch, cols, rows), "\n")
		for row := range lines {
			if i > 0 {
				lines[row] += " "
			}
			lines[row] += block[row]
		}
	}

	s := strings.Join(lines, "\n")
	r.cache[key] = s
	return s
}

// renderRune draws ch on a grayscale canvas at the face's natural size,
// then scales it down to cols×(rows*2) pixels.
func (r *Renderer) renderRune(ch rune, cols, rows int) string {
	bounds, _, _ := r.face.GlyphBounds(ch)
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	const padding = 4
	srcWidth := max(glyphWidth+padding*2, 64)
	srcHeight := max(glyphHeight+padding*2, 64)

	canvas := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: r.face,
		Dot: fixed.P(
			(srcWidth-glyphWidth)/2-bounds.Min.X.Floor(),
			srcHeight-padding-bounds.Max.Y.Ceil(),
		),
	}
	d.DrawString(string(ch))

	return halfBlocks(scaleDown(canvas, cols, rows*2), cols, rows)
}

// scaleDown scales a grayscale image by area averaging.
func scaleDown(src *image.Gray, w, h int) *image.Gray {
	sw, sh := src.Bounds().Max.X, src.Bounds().Max.Y
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xr, yr := float64(sw)/float64(w), float64(sh)/float64(h)

	for dy := 0; dy < h; dy++ {
		y1, y2 := int(float64(dy)*yr), min(int(float64(dy+1)*yr), sh)
		for dx := 0; dx < w; dx++ {
			x1, x2 := int(float64(dx)*xr), min(int(float64(dx+1)*xr), sw)

			sum, n := 0, 0
			for sy := y1; sy < y2; sy++ {
				for sx := x1; sx < x2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					n++
				}
			}
			if n > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / n)})
			}
		}
	}
	return dst
}

// halfBlocks maps pixel pairs to ▀ ▄ █ or space, one cell per two rows.
func halfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			top := ink(img, col, row*2)
			bottom := ink(img, col, row*2+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func ink(img *image.Gray, x, y int) bool {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return false
	}
	return img.GrayAt(x, y).Y > threshold
}
