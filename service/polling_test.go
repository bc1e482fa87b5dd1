package service

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMMiKSTUDIOS/trakkr/board"
	"github.com/AMMiKSTUDIOS/trakkr/config"
	"github.com/AMMiKSTUDIOS/trakkr/display"
	"github.com/AMMiKSTUDIOS/trakkr/ticker"
)

func TestIntervalTwoLevel(t *testing.T) {
	t.Setenv("TRAIN_TOKEN", "")
	t.Setenv("URL", "")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "settings.yaml"), discardLogger())
	require.NoError(t, err)

	s := NewScheduler(cfg, nil, nil, nil, discardLogger())
	assert.Equal(t, 30*time.Second, s.interval(true))
	assert.Equal(t, DefaultErrInterval, s.interval(false))

	require.NoError(t, cfg.SetUpdateEvery(60))
	assert.Equal(t, time.Minute, s.interval(true))
	assert.Equal(t, DefaultErrInterval, s.interval(false), "failure cadence ignores the configured interval")
}

func TestNextMinute(t *testing.T) {
	at, err := time.Parse("15:04:05", "10:30:45")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, nextMinute(at))

	exact, err := time.Parse("15:04:05", "10:31:00")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, nextMinute(exact))
}

func TestApplyScreensaverBlanksAndRestores(t *testing.T) {
	t.Setenv("TRAIN_TOKEN", "")
	t.Setenv("URL", "")
	t.Setenv("REDIS_ADDR", "")
	logger := discardLogger()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "settings.yaml"), logger)
	require.NoError(t, err)
	require.NoError(t, cfg.SetScreensaver("22:00", "06:00"))

	lock := &sync.Mutex{}
	buf := display.NewBuffer(80, 24)
	b := board.New(board.DefaultCapacity)
	b.Replace("London Paddington", nil)
	boardR := board.NewRenderer(buf, lock, b, cfg.Mode)
	tickStore := ticker.NewStore(t.TempDir(), logger)
	tickR := ticker.NewRenderer(tickStore, buf, lock)

	s := NewScheduler(cfg, nil, boardR, tickR, logger)
	boardR.Redraw()
	require.Contains(t, buf.Row(1), "London Paddington")

	at := func(hhmm string) time.Time {
		tm, err := time.Parse("15:04", hhmm)
		require.NoError(t, err)
		return tm
	}

	s.applyScreensaver(at("23:00"))
	assert.True(t, s.saver)
	assert.Empty(t, buf.Row(1), "inside the window the display is blanked")

	// no transition, no repaint
	s.applyScreensaver(at("23:30"))
	assert.Empty(t, buf.Row(1))

	s.applyScreensaver(at("07:00"))
	assert.False(t, s.saver)
	assert.Contains(t, buf.Row(1), "London Paddington", "leaving the window restores the board")
}
