package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

const (
	// bezier control distance for a quarter circle
	kappa = 0.5522847498

	squareCornerRatio  = 0.22
	outlineStrokeRatio = 0.12
)

// shape is a closed path centered on (cx, cy) fitting a box of side 2*r.
type shape func(z *vector.Rasterizer, cx, cy, r float32)

func shapeFor(style IconStyle) shape {
	switch style {
	case Square, SquareOutline:
		return roundedSquare
	case Circle, CircleOutline:
		return circle
	case Triangle, TriangleOutline:
		return polygon(3)
	case Pentagon, PentagonOutline:
		return polygon(5)
	case Hexagon, HexagonOutline:
		return polygon(6)
	}
	return roundedSquare
}

// drawShape fills the style's shape into dst. Outline styles keep only the
// ring between the shape and a smaller copy of it.
func drawShape(dst *image.RGBA, style IconStyle, cx, cy, r float32, fill color.Color) {
	bounds := dst.Bounds()
	path := shapeFor(style)

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	path(z, cx, cy, r)

	inner := outlineInner(style, r)
	if inner <= 0 {
		z.Draw(dst, bounds, image.NewUniform(fill), image.Point{})
		return
	}

	ring := image.NewAlpha(bounds)
	z.Draw(ring, bounds, image.Opaque, image.Point{})

	hole := image.NewAlpha(bounds)
	z.Reset(bounds.Dx(), bounds.Dy())
	path(z, cx, cy, inner)
	z.Draw(hole, bounds, image.Opaque, image.Point{})

	for i, covered := range hole.Pix {
		ring.Pix[i] = uint8(uint16(ring.Pix[i]) * uint16(255-covered) / 255)
	}

	draw.DrawMask(dst, bounds, image.NewUniform(fill), image.Point{}, ring, bounds.Min, draw.Over)
}

// outlineInner is the radius of the hole of an outline style, zero for
// filled styles or when the stroke would cover the whole shape.
func outlineInner(style IconStyle, r float32) float32 {
	if !style.Outline() {
		return 0
	}

	stroke := float32(math.Max(1, float64(r*2*outlineStrokeRatio)))
	inner := r - stroke
	if style.Family() == FamilyTriangle {
		// the incircle of a triangle is half its circumcircle
		inner = r - 2*stroke
	}

	return max(inner, 0)
}

func roundedSquare(z *vector.Rasterizer, cx, cy, r float32) {
	left, top, right, bottom := cx-r, cy-r, cx+r, cy+r
	c := 2 * r * squareCornerRatio

	z.MoveTo(left+c, top)
	z.LineTo(right-c, top)
	z.QuadTo(right, top, right, top+c)
	z.LineTo(right, bottom-c)
	z.QuadTo(right, bottom, right-c, bottom)
	z.LineTo(left+c, bottom)
	z.QuadTo(left, bottom, left, bottom-c)
	z.LineTo(left, top+c)
	z.QuadTo(left, top, left+c, top)
	z.ClosePath()
}

func circle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa

	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// polygon builds a regular polygon with a vertex pointing up.
func polygon(sides int) shape {
	return func(z *vector.Rasterizer, cx, cy, r float32) {
		for i := range sides {
			angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(sides)
			x := cx + r*float32(math.Cos(angle))
			y := cy + r*float32(math.Sin(angle))
			if i == 0 {
				z.MoveTo(x, y)
				continue
			}
			z.LineTo(x, y)
		}
		z.ClosePath()
	}
}

// textCenterY is the vertical center of the area a label should fit in.
func textCenterY(style IconStyle, cy, r float32) float32 {
	if style.Family() == FamilyTriangle {
		// centroid sits below the box center
		return cy + r*0.25
	}
	return cy
}

func drawRule(dst *image.RGBA, x0, y0, x1, y1 int, fill color.Color) {
	draw.Draw(dst, image.Rect(x0, y0, x1, y1), image.NewUniform(fill), image.Point{}, draw.Over)
}
