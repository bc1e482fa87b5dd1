package service

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AMMiKSTUDIOS/trakkr/board"
	"github.com/AMMiKSTUDIOS/trakkr/config"
	"github.com/AMMiKSTUDIOS/trakkr/ticker"
)

// Poll cadence: the healthy interval comes from configuration; a failed
// fetch drops to the short error interval, which doubles as the steady-state
// retry policy.
const (
	DefaultErrInterval = 2 * time.Second
	heartbeatEvery     = 15 * time.Second
)

// Scheduler is the main loop: fixed-period polling with the two-level
// ok/error interval switch, per-minute clock refresh, screensaver window
// handling and the periodic health beat. The ticker renderer runs on its own
// goroutine; the two only meet at the shared display lock.
type Scheduler struct {
	cfg         *config.Store
	fetcher     *Fetcher
	boardR      *board.Renderer
	tickerR     *ticker.Renderer
	logger      *slog.Logger
	errInterval time.Duration

	started time.Time
	saver   bool
}

func NewScheduler(cfg *config.Store, f *Fetcher, br *board.Renderer, tr *ticker.Renderer, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:         cfg,
		fetcher:     f,
		boardR:      br,
		tickerR:     tr,
		logger:      logger,
		errInterval: DefaultErrInterval,
	}
}

func (s *Scheduler) interval(ok bool) time.Duration {
	if ok {
		return s.cfg.PollInterval()
	}
	return s.errInterval
}

func nextMinute(now time.Time) time.Duration {
	d := now.Truncate(time.Minute).Add(time.Minute).Sub(now)
	if d <= 0 {
		d = time.Minute
	}
	return d
}

// Run blocks until the context ends. firstOK selects the initial poll delay
// based on the outcome of the startup fetch.
func (s *Scheduler) Run(ctx context.Context, firstOK bool) {
	s.started = time.Now()

	poll := time.NewTimer(s.interval(firstOK))
	defer poll.Stop()
	minute := time.NewTimer(nextMinute(time.Now()))
	defer minute.Stop()
	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	s.logger.Info("scheduler started",
		slog.Duration("poll", s.cfg.PollInterval()),
		slog.Duration("error_poll", s.errInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			return

		case <-poll.C:
			if s.saver {
				poll.Reset(s.cfg.PollInterval())
				continue
			}
			ok := s.fetcher.Fetch(ctx)
			s.boardR.Redraw()
			poll.Reset(s.interval(ok))

		case <-minute.C:
			now := time.Now()
			s.applyScreensaver(now)
			if !s.saver {
				s.boardR.DrawClock()
			}
			minute.Reset(nextMinute(now))

		case <-heartbeat.C:
			s.beat()
		}
	}
}

// applyScreensaver blanks the display inside the configured window and
// restores the board on the way out.
func (s *Scheduler) applyScreensaver(now time.Time) {
	want := s.cfg.InScreensaver(now)
	if want == s.saver {
		return
	}
	s.saver = want
	s.tickerR.SetPaused(want)
	if want {
		s.logger.Info("screensaver on")
		s.boardR.Blank()
	} else {
		s.logger.Info("screensaver off")
		s.boardR.Redraw()
	}
}

// beat logs the periodic health line: uptime, goroutines, heap.
func (s *Scheduler) beat() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.logger.Info("heartbeat",
		slog.String("uptime", time.Since(s.started).Round(time.Second).String()),
		slog.Int("goroutines", runtime.NumGoroutine()),
		slog.String("heap", humanize.IBytes(m.HeapAlloc)),
		slog.String("sys", humanize.IBytes(m.Sys)))
}
