package settings

import "github.com/lucax88x/wentspaces/cmd/cli/config/settings/colors"

const (
	FifoPath    = "/tmp/wentspaces"
	PidFilePath = "/tmp/wentspaces.pid"
	ConfigDir   = ".config/wentspaces"
)

type Palette struct {
	Foreground string
	Background string
}

type Settings struct {
	// points, before the size scale is applied
	ItemWidth      float64
	ItemHeight     float64
	SeparatorWidth float64
	// alpha kept by inactive spaces when dimmed
	DimAlpha   float64
	ShapeRatio float64
	Dark       Palette
	Light      Palette
}

//nolint:gochecknoglobals // ok
var StatusItem = Settings{
	ItemWidth:      24,
	ItemHeight:     22,
	SeparatorWidth: 9,
	DimAlpha:       0.35,
	ShapeRatio:     0.8,
	Dark: Palette{
		Foreground: colors.Black1,
		Background: colors.White,
	},
	Light: Palette{
		Foreground: colors.White,
		Background: colors.Black1,
	},
}
