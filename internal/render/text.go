package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	fallbackGlyph = "?"
	textDPI       = 72
)

type faces struct {
	font *opentype.Font

	mu    sync.Mutex
	cache map[float64]font.Face
}

func newFaces() (*faces, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: could not parse font: %w", err)
	}
	return &faces{font: parsed, cache: make(map[float64]font.Face)}, nil
}

func (f *faces) face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.cache[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     textDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: could not create face: %w", err)
	}

	f.cache[size] = face
	return face, nil
}

// ResolveSymbol maps a symbol override to the text drawn for it. Known
// symbol names go through the table, a single grapheme is drawn as is,
// anything else is "?".
func ResolveSymbol(override string, table map[string]string) string {
	if glyph, ok := table[override]; ok {
		return glyph
	}
	if uniseg.GraphemeClusterCount(override) == 1 {
		return override
	}
	return fallbackGlyph
}

func covered(face font.Face, text string) bool {
	for _, r := range text {
		if _, ok := face.GlyphAdvance(r); !ok {
			return false
		}
	}
	return true
}

// drawText centers text on (cx, cy). Text the face cannot draw becomes "?".
func drawText(dst *image.RGBA, face font.Face, text string, cx, cy float32, fill color.Color) {
	if !covered(face, text) {
		text = fallbackGlyph
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: face,
	}

	metrics := face.Metrics()
	width := drawer.MeasureString(text)
	height := metrics.CapHeight
	if height <= 0 {
		height = metrics.Ascent - metrics.Descent
	}

	drawer.Dot = fixed.Point26_6{
		X: toFixed(cx) - width/2,
		Y: toFixed(cy) + height/2,
	}
	drawer.DrawString(text)
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
