package ticker

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AMMiKSTUDIOS/trakkr/display"
)

// Pad is the left/right inset of the scrolling band, in cells.
const Pad = 1

// scrollSpeed is the fixed advance per frame, in cells.
const scrollSpeed = 1

// minTileWidth guards against very short content: anything narrower is
// doubled with a separator so the tiled pattern scrolls without a visible
// seam.
const minTileWidth = 64

// Target is a surface the band sprite can be blitted onto. The live Screen
// and the off-screen Buffer both satisfy it.
type Target interface {
	display.Surface
	Blit(b *display.Buffer, x, y int)
}

// Renderer composes the bottom band each frame: a static centered banner
// when there are no notices, otherwise an infinitely tiled scrolling ribbon
// with diamond separators. All drawing happens into an off-screen sprite
// that is pushed in one blit, under the shared display lock.
type Renderer struct {
	store  *Store
	target Target
	mu     *sync.Mutex // shared display lock

	band *display.Buffer

	// cached layout, rebuilt when the store marks content dirty
	render  string // separator-stripped display string
	widthPx int
	sepPx   []int
	scroll  int
	built   bool

	paused atomic.Bool
}

func NewRenderer(store *Store, target Target, displayLock *sync.Mutex) *Renderer {
	return &Renderer{store: store, target: target, mu: displayLock}
}

// Run drives frames at the given interval until the context ends.
func (r *Renderer) Run(ctx context.Context, frame time.Duration) {
	if frame <= 0 {
		frame = 33 * time.Millisecond
	}
	t := time.NewTicker(frame)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Frame()
		}
	}
}

// SetPaused stops frame output (screensaver window). Resuming invalidates
// the cached band so the first frame repaints from scratch.
func (r *Renderer) SetPaused(v bool) {
	if r.paused.Swap(v) != v && !v {
		r.mu.Lock()
		r.built = false
		r.mu.Unlock()
	}
}

// Frame draws one ticker frame.
func (r *Renderer) Frame() {
	if r.paused.Load() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w, h := r.target.Size()
	if w < 2*Pad+1 || h < 1 {
		return
	}
	y := h - 1

	if bw, _ := bandSize(r.band); r.band == nil || bw != w {
		r.band = display.NewBuffer(w, 1)
		r.built = false
	}

	if !r.store.HasNotices() {
		if r.store.TakeDirty() || !r.built {
			r.band.FillRect(0, 0, w, 1, display.HeadBg)
			display.DrawShadowed(r.band, Trailer, w/2, 0, display.TextMain, display.HeadBg, display.MidCenter)
			r.built = true
		}
		r.target.Blit(r.band, 0, y)
		r.target.Show()
		return
	}

	if r.store.TakeDirty() || !r.built {
		r.rebuild()
	}

	r.band.FillRect(0, 0, w, 1, display.HeadBg)

	avail := w - 2*Pad
	mod := 0
	if r.widthPx > 0 {
		mod = r.scroll % r.widthPx
	}
	x0 := Pad - mod

	for tileX := x0; tileX < Pad+avail; tileX += r.widthPx {
		display.DrawShadowed(r.band, r.render, tileX, 0, display.TextMain, display.HeadBg, display.TopLeft)
	}

	for k := 0; k < 3; k++ {
		tileBase := x0 + k*r.widthPx
		if tileBase > Pad+avail {
			break
		}
		for _, px := range r.sepPx {
			iconX := tileBase + px
			if iconX >= Pad && iconX < Pad+avail {
				r.drawDiamond(iconX)
			}
		}
	}

	r.target.Blit(r.band, 0, y)
	r.target.Show()

	r.scroll += scrollSpeed
	if r.scroll >= r.widthPx && r.widthPx > 0 {
		r.scroll -= r.widthPx
	}
}

// rebuild reads the backing file and recomputes the cached display string,
// its width, and the separator offsets measured against the stripped text.
func (r *Renderer) rebuild() {
	raw := ""
	if data, err := r.store.ReadAll(); err == nil {
		raw = strings.Map(func(c rune) rune {
			if c == '\r' || c == '\n' {
				return ' '
			}
			return c
		}, string(data))
	}
	if raw == "" {
		raw = Trailer
	}
	if r.target.TextWidth(raw) < minTileWidth {
		raw += Separator + raw
	}

	r.render = strings.ReplaceAll(raw, "|", "")
	r.widthPx = r.target.TextWidth(r.render)
	if r.widthPx <= 0 {
		r.widthPx = 1
	}

	r.sepPx = r.sepPx[:0]
	searchFrom := 0
	for {
		idx := strings.IndexByte(raw[searchFrom:], '|')
		if idx < 0 {
			break
		}
		idx += searchFrom
		searchFrom = idx + 1
		upTo := strings.ReplaceAll(raw[:idx], "|", "")
		r.sepPx = append(r.sepPx, r.target.TextWidth(upTo))
	}

	r.scroll = 0
	r.built = true
}

// drawDiamond clears a small patch and draws the separator glyph so it reads
// as a divider rather than overlapping text.
func (r *Renderer) drawDiamond(x int) {
	r.band.FillRect(x-1, 0, 3, 1, display.HeadBg)
	r.band.DrawString("◆", x, 0, display.TextMain, display.HeadBg, display.TopLeft)
}

func bandSize(b *display.Buffer) (int, int) {
	if b == nil {
		return 0, 0
	}
	return b.Size()
}
