package prefs

import (
	"encoding/base64"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/lucax88x/wentspaces/internal/render"
	"howett.net/plist"
)

const colorSpaceSRGB = "sRGB"

type archivedComponents struct {
	ColorSpace string  `plist:"ColorSpace"`
	Red        float64 `plist:"Red"`
	Green      float64 `plist:"Green"`
	Blue       float64 `plist:"Blue"`
	Alpha      float64 `plist:"Alpha"`
}

type archivedColors struct {
	Foreground archivedComponents `plist:"Foreground"`
	Background archivedComponents `plist:"Background"`
}

func archiveComponents(c colorful.Color) archivedComponents {
	c = c.Clamped()
	return archivedComponents{
		ColorSpace: colorSpaceSRGB,
		Red:        c.R,
		Green:      c.G,
		Blue:       c.B,
		Alpha:      1,
	}
}

func (a archivedComponents) color() colorful.Color {
	return colorful.Color{R: a.Red, G: a.Green, B: a.Blue}.Clamped()
}

// ArchiveColors encodes a color pair as a base64 binary plist blob.
func ArchiveColors(colors render.SpaceColors) (string, error) {
	data, err := plist.Marshal(archivedColors{
		Foreground: archiveComponents(colors.Foreground),
		Background: archiveComponents(colors.Background),
	}, plist.BinaryFormat)
	if err != nil {
		return "", fmt.Errorf("prefs: could not archive colors: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

func UnarchiveColors(blob string) (render.SpaceColors, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return render.SpaceColors{}, fmt.Errorf("prefs: could not decode color blob: %w", err)
	}

	var archived archivedColors
	if _, err := plist.Unmarshal(data, &archived); err != nil {
		return render.SpaceColors{}, fmt.Errorf("prefs: could not unarchive colors: %w", err)
	}

	if archived.Foreground.ColorSpace != colorSpaceSRGB || archived.Background.ColorSpace != colorSpaceSRGB {
		return render.SpaceColors{}, fmt.Errorf("prefs: unsupported color space %q", archived.Foreground.ColorSpace)
	}

	return render.SpaceColors{
		Foreground: archived.Foreground.color(),
		Background: archived.Background.color(),
	}, nil
}
