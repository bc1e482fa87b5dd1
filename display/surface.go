package display

import "github.com/gdamore/tcell/v2"

// Surface abstracts the raster target so the board and ticker renderers can
// draw to the real terminal screen or to an off-screen buffer. Cell width is
// the pixel unit: TextWidth and all x coordinates are measured in terminal
// cells. Implementations are not concurrency-safe; callers serialise access
// through the shared display lock.
type Surface interface {
	Size() (w, h int)
	FillRect(x, y, w, h int, bg Color)
	DrawString(s string, x, y int, fg, bg Color, anchor Anchor)
	TextWidth(s string) int
	FontHeight() int
	Show()
}

// Color is the display colour type.
type Color = tcell.Color

// Anchor selects which point of the string the x,y coordinate addresses.
type Anchor int

const (
	TopLeft Anchor = iota
	MidLeft
	MidCenter
	BottomLeft
)

// Board palette.
var (
	BodyBg     = tcell.NewRGBColor(0x0b, 0x10, 0x20)
	HeadBg     = tcell.NewRGBColor(0x13, 0x1a, 0x33)
	HeadBorder = tcell.NewRGBColor(0x24, 0x30, 0x59)
	RowAlt     = tcell.NewRGBColor(0x0d, 0x12, 0x30)
	WarnColor  = tcell.NewRGBColor(0xff, 0xd1, 0x66)
	AlertColor = tcell.NewRGBColor(0xff, 0x5d, 0x5d)
	Heading    = tcell.NewRGBColor(0x9f, 0xb3, 0xff)
	TextMain   = tcell.ColorWhite
	TextShadow = tcell.ColorBlack
	TimeColor  = tcell.ColorYellow
)

// DrawShadowed draws a one-cell offset dark copy beneath the main string for
// legibility on busy backgrounds.
func DrawShadowed(s Surface, text string, x, y int, fg, bg Color, anchor Anchor) {
	s.DrawString(text, x+1, y+1, TextShadow, bg, anchor)
	s.DrawString(text, x, y, fg, bg, anchor)
}
