// Package config persists the appliance settings (station, mode, tokens,
// Wi-Fi, screensaver window) to a YAML file and hands out typed, validated
// accessors. The pipeline treats configuration as read-only; only the
// control panel mutates it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AMMiKSTUDIOS/trakkr/pkg/catalogue"
)

// Settings is the persisted document.
type Settings struct {
	WifiSSID    string `yaml:"wifi_ssid" json:"wifiSsid"`
	WifiPass    string `yaml:"wifi_pass" json:"-"`
	DarwinToken string `yaml:"darwin_token" json:"-"`

	Mode       string `yaml:"mode" json:"nrBoardType"` // departures | arrivals
	CRS        string `yaml:"crs" json:"station"`
	IncludeBus bool   `yaml:"include_bus" json:"includeBus"`

	UpdateEvery int `yaml:"update_every" json:"updateEvery"` // seconds between healthy polls
	TickerMs    int `yaml:"ticker_ms" json:"tickerMs"`       // ticker frame interval

	SSStart string `yaml:"screensaver_start" json:"ssStart"` // HH:MM, empty disables
	SSEnd   string `yaml:"screensaver_end" json:"ssEnd"`

	ListenAddr string `yaml:"listen_addr" json:"-"` // control panel bind address
	RedisAddr  string `yaml:"redis_addr" json:"-"`  // empty disables the snapshot publisher
	Endpoint   string `yaml:"endpoint" json:"-"`    // Darwin URL override, normally empty
}

// Defaults mirror the factory settings of the appliance.
func Defaults() Settings {
	return Settings{
		Mode:        "departures",
		CRS:         "PAD",
		IncludeBus:  true,
		UpdateEvery: 30,
		TickerMs:    33,
		ListenAddr:  ":8080",
	}
}

// Store is the file-backed settings store.
type Store struct {
	mu     sync.RWMutex
	path   string
	s      Settings
	logger *slog.Logger
}

// Load reads the settings file, falling back to defaults when absent, then
// applies environment overrides (the .env file is loaded by main via
// godotenv before this runs).
func Load(path string, logger *slog.Logger) (*Store, error) {
	st := &Store{path: path, s: Defaults(), logger: logger}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &st.s); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.Warn("settings file not found; using defaults", slog.String("path", path))
	default:
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	if tok := os.Getenv("TRAIN_TOKEN"); tok != "" {
		st.s.DarwinToken = tok
	}
	if url := os.Getenv("URL"); url != "" {
		st.s.Endpoint = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		st.s.RedisAddr = addr
	}

	st.s.normalize()
	return st, nil
}

func (s *Settings) normalize() {
	s.CRS = strings.ToUpper(strings.TrimSpace(s.CRS))
	if !catalogue.IsValidCRS(s.CRS) {
		s.CRS = Defaults().CRS
	}
	if !strings.EqualFold(s.Mode, "arrivals") {
		s.Mode = "departures"
	} else {
		s.Mode = "arrivals"
	}
	if s.UpdateEvery < 5 {
		s.UpdateEvery = 5
	}
	if s.TickerMs < 16 {
		s.TickerMs = Defaults().TickerMs
	}
	if !isHHMM(s.SSStart) {
		s.SSStart = ""
	}
	if !isHHMM(s.SSEnd) {
		s.SSEnd = ""
	}
}

func isHHMM(s string) bool {
	if s == "" {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Snapshot returns a copy of the current settings.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Typed accessors used across the pipeline.

func (st *Store) Mode() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Mode
}

func (st *Store) CRS() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.CRS
}

func (st *Store) DarwinToken() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.DarwinToken
}

func (st *Store) Endpoint() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Endpoint
}

func (st *Store) RedisAddr() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.RedisAddr
}

func (st *Store) ListenAddr() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.ListenAddr
}

func (st *Store) PollInterval() time.Duration {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return time.Duration(st.s.UpdateEvery) * time.Second
}

func (st *Store) TickerInterval() time.Duration {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return time.Duration(st.s.TickerMs) * time.Millisecond
}

// InScreensaver reports whether now falls inside the configured blanking
// window. A window crossing midnight (e.g. 23:00–06:30) is honoured.
func (st *Store) InScreensaver(now time.Time) bool {
	st.mu.RLock()
	start, end := st.s.SSStart, st.s.SSEnd
	st.mu.RUnlock()
	if start == "" || end == "" || start == end {
		return false
	}
	cur := now.Format("15:04")
	if start < end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

// Setters, each validating its input and persisting on success.

func (st *Store) SetCRS(crs string) error {
	crs = strings.ToUpper(strings.TrimSpace(crs))
	if !catalogue.IsValidCRS(crs) {
		return fmt.Errorf("invalid CRS %q", crs)
	}
	st.mu.Lock()
	st.s.CRS = crs
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetMode(mode string) error {
	st.mu.Lock()
	if strings.EqualFold(mode, "arrivals") {
		st.s.Mode = "arrivals"
	} else {
		st.s.Mode = "departures"
	}
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetDarwinToken(token string) error {
	st.mu.Lock()
	st.s.DarwinToken = strings.TrimSpace(token)
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetWifi(ssid, pass string) error {
	if ssid == "" {
		return fmt.Errorf("ssid is empty")
	}
	st.mu.Lock()
	st.s.WifiSSID = ssid
	st.s.WifiPass = pass
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetScreensaver(start, end string) error {
	if (start != "" && !isHHMM(start)) || (end != "" && !isHHMM(end)) {
		return fmt.Errorf("screensaver times must be HH:MM")
	}
	st.mu.Lock()
	st.s.SSStart, st.s.SSEnd = start, end
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetUpdateEvery(sec int) error {
	if sec < 5 {
		sec = 5
	}
	st.mu.Lock()
	st.s.UpdateEvery = sec
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetTickerMs(ms int) error {
	if ms < 16 {
		ms = 16
	}
	st.mu.Lock()
	st.s.TickerMs = ms
	st.mu.Unlock()
	return st.Save()
}

func (st *Store) SetIncludeBus(v bool) error {
	st.mu.Lock()
	st.s.IncludeBus = v
	st.mu.Unlock()
	return st.Save()
}

// ResetToDefaults restores factory settings and persists them.
func (st *Store) ResetToDefaults() error {
	st.mu.Lock()
	st.s = Defaults()
	st.mu.Unlock()
	return st.Save()
}

// Save writes the settings atomically: temp file in the same directory, then
// rename over the live file.
func (st *Store) Save() error {
	st.mu.RLock()
	raw, err := yaml.Marshal(st.s)
	st.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("swap settings: %w", err)
	}
	return nil
}
