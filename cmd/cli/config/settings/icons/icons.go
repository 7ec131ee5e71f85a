package icons

// Glyphs available in the bundled font.
const (
	Heart      = "♥"
	Spade      = "♠"
	Club       = "♣"
	Diamond    = "♦"
	Note       = "♪"
	Notes      = "♫"
	ArrowUp    = "↑"
	ArrowDown  = "↓"
	ArrowLeft  = "←"
	ArrowRight = "→"
	House      = "⌂"
	Circle     = "●"
	Square     = "■"
	Sun        = "☼"
	Smile      = "☺"
	Up         = "▲"
	Down       = "▼"
	Right      = "►"
	Left       = "◄"
	Star       = "*"
	Unknown    = "?"
)

// Symbols maps the symbol names accepted by `prefs set symbols.N` to the
// glyph drawn in place of the space number.
//
//nolint:gochecknoglobals // ok
var Symbols = map[string]string{
	"heart.fill":               Heart,
	"suit.heart.fill":          Heart,
	"suit.spade.fill":          Spade,
	"suit.club.fill":           Club,
	"suit.diamond.fill":        Diamond,
	"music.note":               Note,
	"music.note.list":          Notes,
	"arrow.up":                 ArrowUp,
	"arrow.down":               ArrowDown,
	"arrow.left":               ArrowLeft,
	"arrow.right":              ArrowRight,
	"house":                    House,
	"house.fill":               House,
	"circle.fill":              Circle,
	"square.fill":              Square,
	"sun.max":                  Sun,
	"sun.max.fill":             Sun,
	"face.smiling":             Smile,
	"arrowtriangle.up.fill":    Up,
	"arrowtriangle.down.fill":  Down,
	"arrowtriangle.right.fill": Right,
	"arrowtriangle.left.fill":  Left,
	"star.fill":                Star,
	"questionmark":             Unknown,
}
