package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/AMMiKSTUDIOS/trakkr/board"
	"github.com/AMMiKSTUDIOS/trakkr/cache"
	"github.com/AMMiKSTUDIOS/trakkr/config"
	"github.com/AMMiKSTUDIOS/trakkr/display"
	"github.com/AMMiKSTUDIOS/trakkr/service"
	"github.com/AMMiKSTUDIOS/trakkr/ticker"
	"github.com/AMMiKSTUDIOS/trakkr/web"
)

func init() {
	// Specify the path to the .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Print("godotenv.Load could not find env file - if using docker ignore this error")
	}
}

// appLogger writes structured logs to a file: the terminal belongs to the
// board once tcell takes over, so stdout is not an option.
func appLogger(path string) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logHandler := slog.NewTextHandler(f, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	})
	return slog.New(logHandler), f, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, logFile, err := appLogger(envOr("LOG_FILE", "trakkr.log"))
	if err != nil {
		log.Fatalf("cannot open log file: %v", err)
	}
	defer logFile.Close()

	cfg, err := config.Load(envOr("SETTINGS_PATH", "trakkr.yaml"), logger)
	if err != nil {
		log.Fatalf("cannot load settings: %v", err)
	}
	if cfg.DarwinToken() == "" {
		logger.Warn("no Darwin access token configured; fetches will fail until one is set via the control panel")
	}

	screen, err := display.NewScreen()
	if err != nil {
		log.Fatalf("cannot open display: %v", err)
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	displayLock := &sync.Mutex{}
	b := board.New(board.DefaultCapacity)
	tickStore := ticker.NewStore(envOr("DATA_DIR", "."), logger)

	var publisher cache.Publisher
	if addr := cfg.RedisAddr(); addr != "" {
		rc, err := cache.NewRedisClient(logger, cache.Options(addr))
		if err != nil {
			logger.Warn("snapshot publishing disabled", slog.String("error", err.Error()))
		} else {
			publisher = rc
			defer rc.Client.Close()
		}
	}

	fetcher := service.NewFetcher(cfg, b, tickStore, service.NewClientRequester(), publisher, logger)
	boardR := board.NewRenderer(screen, displayLock, b, cfg.Mode)
	tickR := ticker.NewRenderer(tickStore, screen, displayLock)

	panel := web.NewServer(cfg, envOr("WWW_DIR", "www"), logger, cancel)
	go func() {
		if err := panel.Run(ctx, cfg.ListenAddr()); err != nil {
			logger.Error("control panel stopped", slog.String("error", err.Error()))
		}
	}()

	// First data load happens behind the full-screen loading message; the
	// board appears in one paint once data (or the retry budget) is in.
	boardR.ShowLoading()
	firstOK := fetcher.FetchWithRetry(ctx, 3, 250*time.Millisecond)
	boardR.Redraw()

	go tickR.Run(ctx, cfg.TickerInterval())
	go eventLoop(ctx, screen, boardR, cancel)

	sched := service.NewScheduler(cfg, fetcher, boardR, tickR, logger)
	sched.Run(ctx, firstOK)
}

// eventLoop drains terminal events: resizes trigger a repaint, Ctrl+C / q /
// Esc shut down. PollEvent returns nil once the screen is finalized.
func eventLoop(ctx context.Context, screen *display.Screen, boardR *board.Renderer, cancel context.CancelFunc) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			boardR.Redraw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				cancel()
				return
			}
		}
	}
}
