package colors

// sRGB hex, parsed with go-colorful.
const (
	White  = "#ffffff"
	Black1 = "#1e1e2e"
)
