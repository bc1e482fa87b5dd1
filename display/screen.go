package display

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen is the live terminal surface backed by tcell.
type Screen struct {
	scr tcell.Screen
}

func NewScreen() (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	scr.SetStyle(tcell.StyleDefault.Background(BodyBg).Foreground(TextMain))
	scr.Clear()
	return &Screen{scr: scr}, nil
}

// Fini restores the terminal. Must run before process exit.
func (s *Screen) Fini() { s.scr.Fini() }

// PollEvent blocks for the next terminal event (resize, key). The scheduler
// drains these on a side goroutine so resizes repaint promptly.
func (s *Screen) PollEvent() tcell.Event { return s.scr.PollEvent() }

func (s *Screen) Size() (int, int) { return s.scr.Size() }

func (s *Screen) FontHeight() int { return 1 }

func (s *Screen) TextWidth(str string) int { return runewidth.StringWidth(str) }

func (s *Screen) Show() { s.scr.Show() }

func (s *Screen) FillRect(x, y, w, h int, bg Color) {
	st := tcell.StyleDefault.Background(bg).Foreground(TextMain)
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			s.scr.SetContent(xx, yy, ' ', nil, st)
		}
	}
}

func (s *Screen) DrawString(str string, x, y int, fg, bg Color, anchor Anchor) {
	x, y = anchorOrigin(str, x, y, anchor, s.TextWidth)
	st := tcell.StyleDefault.Foreground(fg).Background(bg)
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.scr.SetContent(x, y, r, nil, st)
		x += w
	}
}

// Blit pushes an off-screen buffer onto the screen in one operation.
func (s *Screen) Blit(b *Buffer, x, y int) {
	bw, bh := b.Size()
	for yy := 0; yy < bh; yy++ {
		for xx := 0; xx < bw; xx++ {
			c := b.Cell(xx, yy)
			if c.R == 0 {
				continue
			}
			st := tcell.StyleDefault.Foreground(c.Fg).Background(c.Bg)
			s.scr.SetContent(x+xx, y+yy, c.R, nil, st)
		}
	}
}
