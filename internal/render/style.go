package render

import (
	"fmt"
	"strings"
)

// IconStyle is the background shape drawn behind a space label.
type IconStyle int

const (
	Square IconStyle = iota
	SquareOutline
	Circle
	CircleOutline
	Triangle
	TriangleOutline
	Pentagon
	PentagonOutline
	Hexagon
	HexagonOutline
)

//nolint:gochecknoglobals // ok
var styleNames = map[IconStyle]string{
	Square:          "square",
	SquareOutline:   "square-outline",
	Circle:          "circle",
	CircleOutline:   "circle-outline",
	Triangle:        "triangle",
	TriangleOutline: "triangle-outline",
	Pentagon:        "pentagon",
	PentagonOutline: "pentagon-outline",
	Hexagon:         "hexagon",
	HexagonOutline:  "hexagon-outline",
}

func (s IconStyle) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("IconStyle(%d)", int(s))
}

// IconStyles lists every style in declaration order.
func IconStyles() []IconStyle {
	return []IconStyle{
		Square, SquareOutline,
		Circle, CircleOutline,
		Triangle, TriangleOutline,
		Pentagon, PentagonOutline,
		Hexagon, HexagonOutline,
	}
}

func ParseIconStyle(name string) (IconStyle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, style := range IconStyles() {
		if styleNames[style] == name {
			return style, nil
		}
	}
	return Square, fmt.Errorf("render: unknown icon style %q", name)
}

func (s IconStyle) Outline() bool {
	switch s {
	case SquareOutline, CircleOutline, TriangleOutline, PentagonOutline, HexagonOutline:
		return true
	case Square, Circle, Triangle, Pentagon, Hexagon:
		return false
	}
	return false
}

// Family groups styles sharing the same geometry, and so the same label
// size table.
type Family int

const (
	FamilySquare Family = iota
	FamilyCircle
	FamilyTriangle
	FamilyPolygon
)

func (s IconStyle) Family() Family {
	switch s {
	case Square, SquareOutline:
		return FamilySquare
	case Circle, CircleOutline:
		return FamilyCircle
	case Triangle, TriangleOutline:
		return FamilyTriangle
	case Pentagon, PentagonOutline, Hexagon, HexagonOutline:
		return FamilyPolygon
	}
	return FamilySquare
}

// label point sizes by grapheme count (1, 2, 3, 4+) at 100% scale
//
//nolint:gochecknoglobals // ok
var fontSizes = map[Family][4]float64{
	FamilySquare:   {12, 10, 8, 7},
	FamilyCircle:   {12, 9, 7.5, 6.5},
	FamilyTriangle: {10, 7, 5.5, 4.5},
	FamilyPolygon:  {11, 9, 7, 6},
}

func (f Family) FontSize(graphemes int) float64 {
	sizes := fontSizes[f]
	switch {
	case graphemes <= 1:
		return sizes[0]
	case graphemes >= len(sizes):
		return sizes[len(sizes)-1]
	default:
		return sizes[graphemes-1]
	}
}
