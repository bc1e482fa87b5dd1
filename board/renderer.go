package board

import (
	"sync"
	"time"

	"github.com/AMMiKSTUDIOS/trakkr/display"
	"github.com/AMMiKSTUDIOS/trakkr/pkg/models"
)

// Layout, in cells. The header band carries title and clock, the column bar
// sits under it, and the bottom row belongs to the ticker.
const (
	Pad      = 1
	HeaderH  = 2
	ColBarH  = 1
	TickerH  = 1
	rowTop   = HeaderH + ColBarH
	chTime   = 5
	chEst    = 10
	chPlat   = 3
	chOper   = 21
	clockStr = "88:88"
)

// Renderer paints the header, column bar and service rows. Every draw runs
// under the shared display lock; the ticker band below rowTop+rows is never
// touched here.
type Renderer struct {
	s     display.Surface
	mu    *sync.Mutex
	board *Board

	// mode yields the current board mode ("departures"/"arrivals") so the
	// title and column labels track the live configuration.
	mode func() string

	lastClock string
	now       func() time.Time
}

func NewRenderer(s display.Surface, displayLock *sync.Mutex, b *Board, mode func() string) *Renderer {
	return &Renderer{s: s, mu: displayLock, board: b, mode: mode, now: time.Now}
}

func (r *Renderer) departures() bool {
	m := r.mode()
	return len(m) == 0 || m[0] != 'a'
}

// column x positions scaled from the board's fixed reference layout.
func (r *Renderer) columns() (xTime, xDest, xEst, xPlat, xOper int) {
	w, _ := r.s.Size()
	return Pad, w * 12 / 100, w * 51 / 100, w * 64 / 100, w * 70 / 100
}

// ShowLoading paints the full-surface boot message, no header yet.
func (r *Renderer) ShowLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, h := r.s.Size()
	r.s.FillRect(0, 0, w, h, display.BodyBg)
	r.s.DrawString("Loading Board", w/2, h/2, display.TextMain, display.BodyBg, display.MidCenter)
	r.s.Show()
}

// Blank clears the whole surface (screensaver window).
func (r *Renderer) Blank() {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, h := r.s.Size()
	r.s.FillRect(0, 0, w, h, display.TextShadow)
	r.s.Show()
}

// Redraw repaints header, clock, column bar and rows from the current board
// snapshot.
func (r *Renderer) Redraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	title, services := r.board.Snapshot()
	w, h := r.s.Size()
	if w < 20 || h < rowTop+TickerH+1 {
		return
	}

	r.s.FillRect(0, 0, w, HeaderH, display.HeadBg)
	r.drawTitle(title)
	r.lastClock = ""
	r.drawClock()
	r.drawColHeader()
	r.drawRows(services)
	r.s.Show()
}

// DrawClock repaints only the clock box, and only when the minute changed.
func (r *Renderer) DrawClock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drawClock() {
		r.s.Show()
	}
}

func (r *Renderer) clockBox() (x, y, w int) {
	sw, _ := r.s.Size()
	cw := r.s.TextWidth(clockStr)
	return sw - Pad - cw, HeaderH / 2, cw + 1
}

func (r *Renderer) drawClock() bool {
	now := r.now().Format("15:04")
	if now == r.lastClock {
		return false
	}
	x, y, w := r.clockBox()
	r.s.FillRect(x, y, w, 1, display.HeadBg)
	display.DrawShadowed(r.s, now, x, y, display.TextMain, display.HeadBg, display.TopLeft)
	r.lastClock = now
	return true
}

func (r *Renderer) drawTitle(title string) {
	modeWord := "Departures"
	if !r.departures() {
		modeWord = "Arrivals"
	}
	want := title + " " + modeWord

	cx, _, _ := r.clockBox()
	maxPx := cx - Pad - 2
	if maxPx < 8 {
		maxPx = 8
	}
	out := display.FitWords(r.s, want, maxPx)
	display.DrawShadowed(r.s, out, Pad, HeaderH/2, display.TextMain, display.HeadBg, display.TopLeft)
}

func (r *Renderer) drawColHeader() {
	w, _ := r.s.Size()
	r.s.FillRect(0, HeaderH, w, ColBarH, display.RowAlt)
	xTime, xDest, xEst, xPlat, xOper := r.columns()

	timeLbl, destLbl, estLbl := "STA", "From", "ETA"
	if r.departures() {
		timeLbl, destLbl, estLbl = "STD", "To", "ETD"
	}
	y := HeaderH
	display.DrawShadowed(r.s, timeLbl, xTime, y, display.Heading, display.RowAlt, display.MidLeft)
	display.DrawShadowed(r.s, destLbl, xDest, y, display.Heading, display.RowAlt, display.MidLeft)
	display.DrawShadowed(r.s, estLbl, xEst, y, display.Heading, display.RowAlt, display.MidLeft)
	display.DrawShadowed(r.s, "Plt", xPlat, y, display.Heading, display.RowAlt, display.MidLeft)
	display.DrawShadowed(r.s, "Operator", xOper, y, display.Heading, display.RowAlt, display.MidLeft)
}

func (r *Renderer) drawRows(services []models.ServiceRecord) {
	w, h := r.s.Size()
	fh := r.s.FontHeight()

	availH := h - rowTop - TickerH
	autoH := availH / max(1, r.board.Capacity())

	// Clamp row height to the font band: never clip, never stretch by more
	// than one cell.
	rowH := autoH
	if rowH > fh+1 {
		rowH = fh + 1
	}
	if rowH < fh {
		rowH = fh
	}

	maxVis := min(r.board.Capacity(), availH/rowH)
	painted := min(len(services), maxVis)

	xTime, xDest, xEst, xPlat, xOper := r.columns()
	destMax := xEst - xDest - 2

	for i := 0; i < painted; i++ {
		s := services[i]
		bg := display.BodyBg
		if i%2 == 1 {
			bg = display.RowAlt
		}
		top := rowTop + i*rowH
		r.s.FillRect(0, top, w, rowH, bg)
		by := top + rowH/2

		display.DrawShadowed(r.s, display.Ellipsize(r.s, s.Scheduled, chTime), xTime, by, display.TimeColor, bg, display.MidLeft)
		display.DrawShadowed(r.s, display.FitWords(r.s, s.Destination, destMax), xDest, by, display.TextMain, bg, display.MidLeft)

		estCol := display.TextMain
		switch models.ClassifyEstimate(s.Estimate) {
		case models.StatusAlert:
			estCol = display.AlertColor
		case models.StatusWarn:
			estCol = display.WarnColor
		}
		display.DrawShadowed(r.s, display.Ellipsize(r.s, s.Estimate, chEst), xEst, by, estCol, bg, display.MidLeft)

		if s.Bus {
			r.drawBusIcon(xPlat, by, bg)
		} else {
			display.DrawShadowed(r.s, display.Ellipsize(r.s, s.Platform, chPlat), xPlat, by, display.TextMain, bg, display.MidLeft)
		}
		display.DrawShadowed(r.s, display.Ellipsize(r.s, s.Operator, chOper), xOper, by, display.TextMain, bg, display.MidLeft)
	}

	// Clear unused slots below the last populated row.
	if painted < maxVis {
		y := rowTop + painted*rowH
		r.s.FillRect(0, y, w, (maxVis-painted)*rowH, display.BodyBg)
	}
}

// drawBusIcon renders the replacement-bus badge in place of the platform
// cell: inverse-video "BUS".
func (r *Renderer) drawBusIcon(x, y int, bg display.Color) {
	r.s.FillRect(x-1, y, chPlat+2, 1, bg)
	r.s.DrawString("BUS", x, y, bg, display.TextMain, display.MidLeft)
}
