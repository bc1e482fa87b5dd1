package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Buffer is an off-screen cell grid: the sprite of the pipeline. The ticker
// composes each frame here and blits it in one operation so the band never
// flickers mid-draw. It doubles as the headless Surface for renderer tests.
type Buffer struct {
	w, h  int
	cells []Cell
}

// Cell is one character cell of a Buffer.
type Cell struct {
	R      rune
	Fg, Bg Color
}

func NewBuffer(w, h int) *Buffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	b := &Buffer{w: w, h: h, cells: make([]Cell, w*h)}
	b.FillRect(0, 0, w, h, BodyBg)
	return b
}

func (b *Buffer) Size() (int, int) { return b.w, b.h }

func (b *Buffer) FontHeight() int { return 1 }

func (b *Buffer) TextWidth(s string) int { return runewidth.StringWidth(s) }

// Show is a no-op: buffers become visible only when blitted.
func (b *Buffer) Show() {}

// Cell returns the cell at x,y; the zero Cell outside the grid.
func (b *Buffer) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return Cell{}
	}
	return b.cells[y*b.w+x]
}

// Row renders row y as a trimmed string, for test assertions.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.h {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.w; x++ {
		r := b.cells[y*b.w+x].R
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func (b *Buffer) set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	b.cells[y*b.w+x] = c
}

func (b *Buffer) FillRect(x, y, w, h int, bg Color) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			b.set(xx, yy, Cell{R: ' ', Fg: TextMain, Bg: bg})
		}
	}
}

// Blit copies another buffer onto this one, clipping at the edges.
func (b *Buffer) Blit(src *Buffer, x, y int) {
	sw, sh := src.Size()
	for yy := 0; yy < sh; yy++ {
		for xx := 0; xx < sw; xx++ {
			c := src.Cell(xx, yy)
			if c.R == 0 {
				continue
			}
			b.set(x+xx, y+yy, c)
		}
	}
}

func (b *Buffer) DrawString(s string, x, y int, fg, bg Color, anchor Anchor) {
	x, y = anchorOrigin(s, x, y, anchor, b.TextWidth)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.set(x, y, Cell{R: r, Fg: fg, Bg: bg})
		for i := 1; i < w; i++ {
			b.set(x+i, y, Cell{R: 0, Fg: fg, Bg: bg})
		}
		x += w
	}
}

// anchorOrigin converts an anchored coordinate to the top-left cell of the
// string. Text is one cell high, so the vertical component of the mid and
// bottom anchors collapses onto the same row.
func anchorOrigin(s string, x, y int, anchor Anchor, width func(string) int) (int, int) {
	switch anchor {
	case MidCenter:
		x -= width(s) / 2
	case TopLeft, MidLeft, BottomLeft:
	}
	return x, y
}
