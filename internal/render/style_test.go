package render_test

import (
	"testing"

	"github.com/lucax88x/wentspaces/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIconStyle(t *testing.T) {
	for _, style := range render.IconStyles() {
		parsed, err := render.ParseIconStyle(style.String())

		require.NoError(t, err)
		assert.Equal(t, style, parsed)
	}

	parsed, err := render.ParseIconStyle(" Circle-Outline ")
	require.NoError(t, err)
	assert.Equal(t, render.CircleOutline, parsed)

	_, err = render.ParseIconStyle("octagon")
	require.Error(t, err)
}

func TestIconStyle_Outline(t *testing.T) {
	outlines := 0
	for _, style := range render.IconStyles() {
		if style.Outline() {
			outlines++
		}
	}

	assert.Equal(t, 5, outlines)
	assert.False(t, render.Square.Outline())
	assert.True(t, render.HexagonOutline.Outline())
}

func TestFamily_FontSize(t *testing.T) {
	families := []render.Family{
		render.FamilySquare,
		render.FamilyCircle,
		render.FamilyTriangle,
		render.FamilyPolygon,
	}

	for _, family := range families {
		assert.Greater(t, family.FontSize(1), family.FontSize(2))
		assert.Greater(t, family.FontSize(2), family.FontSize(3))
		assert.Equal(t, family.FontSize(4), family.FontSize(9))
		assert.Equal(t, family.FontSize(1), family.FontSize(0))

		if family != render.FamilyTriangle {
			for graphemes := 1; graphemes <= 4; graphemes++ {
				assert.Less(t, render.FamilyTriangle.FontSize(graphemes), family.FontSize(graphemes))
			}
		}
	}

	assert.Equal(t, render.FamilyPolygon, render.Pentagon.Family())
	assert.Equal(t, render.FamilyTriangle, render.TriangleOutline.Family())
}
