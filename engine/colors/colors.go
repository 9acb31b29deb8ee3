package colors

// Color is linear RGBA in [0..1].
type Color [4]float32

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Cyan  = Color{0, 1, 1, 1}
)

// Surface palette.
var (
	Background = White
	Segment    = Black
	Highlight  = Red
	Axis       = Green
	Fill       = Cyan
)

// RGBA splits c into its components.
func (c Color) RGBA() (r, g, b, a float32) { return c[0], c[1], c[2], c[3] }

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}
