package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/lucax88x/wentspaces/internal/layout"
	"github.com/rivo/uniseg"
)

// SpaceColors overrides the palette of one space.
type SpaceColors struct {
	Foreground colorful.Color
	Background colorful.Color
}

type Options struct {
	ItemHeight float64
	// opacity of inactive slots when dimming
	DimAlpha float64
	// symbol name to glyph
	Symbols map[string]string

	Dark  SpaceColors
	Light SpaceColors
	// 0..1 of the shape box inside the item height
	ShapeRatio float64
}

// Input is the per render state, everything keyed by global space number.
type Input struct {
	DarkMode bool
	Dim      bool
	// 1 is 100%
	Scale float64

	Colors  map[int]SpaceColors
	Styles  map[int]IconStyle
	Symbols map[int]string
}

type Renderer struct {
	logger *slog.Logger
	opts   Options
	faces  *faces
}

func NewRenderer(logger *slog.Logger, opts Options) (*Renderer, error) {
	faces, err := newFaces()
	if err != nil {
		return nil, err
	}

	if opts.ShapeRatio <= 0 || opts.ShapeRatio > 1 {
		opts.ShapeRatio = 0.8
	}

	return &Renderer{logger, opts, faces}, nil
}

// Render draws the layout as one composite image, one slot after the other.
func (r *Renderer) Render(l layout.Layout, in Input) *image.RGBA {
	scale := in.Scale
	if scale <= 0 {
		scale = 1
	}

	height := int(math.Ceil(r.opts.ItemHeight * scale))
	width := int(math.Ceil(l.Width() * scale))
	canvas := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))

	palette := r.opts.Light
	if in.DarkMode {
		palette = r.opts.Dark
	}

	dim := in.Dim && l.MultiSpace()

	for _, slot := range l.Slots {
		x0 := int(math.Round(slot.StartX * scale))
		x1 := int(math.Round((slot.StartX + slot.Width) * scale))
		if x1 <= x0 {
			continue
		}

		tile := image.NewRGBA(image.Rect(0, 0, x1-x0, height))

		switch slot.Kind {
		case layout.SlotSeparator:
			r.separator(tile, palette, scale)
		case layout.SlotSpace:
			r.space(tile, slot, in, palette, scale)
		}

		target := image.Rect(x0, 0, x1, height)
		if dim && slot.Kind == layout.SlotSpace && !slot.Active {
			mask := image.NewUniform(color.Alpha{A: uint8(math.Round(r.opts.DimAlpha * 255))})
			draw.DrawMask(canvas, target, tile, image.Point{}, mask, image.Point{}, draw.Over)
			continue
		}
		draw.Draw(canvas, target, tile, image.Point{}, draw.Over)
	}

	return canvas
}

func (r *Renderer) separator(tile *image.RGBA, palette SpaceColors, scale float64) {
	bounds := tile.Bounds()
	thickness := max(1, int(math.Round(scale)))
	inset := bounds.Dy() / 5

	x0 := (bounds.Dx() - thickness) / 2
	drawRule(tile, x0, inset, x0+thickness, bounds.Dy()-inset, palette.Background)
}

func (r *Renderer) space(tile *image.RGBA, slot layout.Slot, in Input, palette SpaceColors, scale float64) {
	style := in.Styles[slot.Number]
	colors, ok := in.Colors[slot.Number]
	if !ok || slot.Number == 0 {
		colors = palette
	}

	bounds := tile.Bounds()
	cx := float32(bounds.Dx()) / 2
	cy := float32(bounds.Dy()) / 2
	radius := float32(float64(min(bounds.Dx(), bounds.Dy())) * r.opts.ShapeRatio / 2)

	drawShape(tile, style, cx, cy, radius, colors.Background)

	text := slot.Label
	if override, ok := in.Symbols[slot.Number]; ok && slot.Number != 0 {
		text = ResolveSymbol(override, r.opts.Symbols)
	}

	size := style.Family().FontSize(uniseg.GraphemeClusterCount(text)) * scale
	face, err := r.faces.face(size)
	if err != nil {
		r.logger.Error("render: could not load face", slog.Any("error", err))
		return
	}

	// outline shapes are hollow, the label takes the stroke color
	fill := colors.Foreground
	if style.Outline() {
		fill = colors.Background
	}

	drawText(tile, face, text, cx, textCenterY(style, cy, radius), fill)
}

// EncodePNG encodes a rendered icon for the status item.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: could not encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Tooltip describes the layout in words, e.g. "Space 2 of 1, 2, 3".
func Tooltip(l layout.Layout) string {
	current := ""
	labels := make([]string, 0, len(l.Slots))
	for _, slot := range l.Slots {
		if slot.Kind != layout.SlotSpace {
			continue
		}
		labels = append(labels, slot.Label)
		if slot.Active {
			current = slot.Label
		}
	}

	if len(labels) <= 1 {
		return "Space " + current
	}

	return "Space " + current + " of " + strings.Join(labels, ", ")
}

// Hex formats a color as #rrggbb.
func Hex(c colorful.Color) string {
	return c.Clamped().Hex()
}

// ParseColors parses a "foreground,background" pair of hex colors.
func ParseColors(foreground, background string) (SpaceColors, error) {
	fg, err := colorful.Hex(foreground)
	if err != nil {
		return SpaceColors{}, fmt.Errorf("render: could not parse foreground %q: %w", foreground, err)
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		return SpaceColors{}, fmt.Errorf("render: could not parse background %q: %w", background, err)
	}
	return SpaceColors{Foreground: fg, Background: bg}, nil
}

func (c SpaceColors) String() string {
	return Hex(c.Foreground) + "," + Hex(c.Background)
}
