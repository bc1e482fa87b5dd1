// Package web is the on-device control panel: a small HTTP server that lets
// a browser read and edit the persisted settings, manage the access token,
// and request a restart. It serves the static panel assets from a local
// directory and exposes a JSON API underneath.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AMMiKSTUDIOS/trakkr/config"
)

// Version is the firmware version reported by /api/version.
const Version = "3.0.0"

// Server wires the control panel routes. requestRestart is invoked by
// POST /reboot after the response is written; main hooks it to context
// cancellation so the process exits cleanly and the supervisor restarts it.
type Server struct {
	cfg            *config.Store
	staticDir      string
	logger         *slog.Logger
	requestRestart func()
}

func NewServer(cfg *config.Store, staticDir string, logger *slog.Logger, requestRestart func()) *Server {
	if requestRestart == nil {
		requestRestart = func() {}
	}
	return &Server{cfg: cfg, staticDir: staticDir, logger: logger, requestRestart: requestRestart}
}

// Router builds the chi handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/settings", s.getSettings)
	r.Post("/api/settings", s.postSettings)
	r.Get("/api/token", s.getToken)
	r.Post("/api/token", s.postToken)
	r.Get("/api/version", s.getVersion)
	r.Post("/api/factory-reset", s.factoryReset)
	r.Post("/reboot", s.reboot)

	r.Get("/", s.serveStatic("index.htm"))
	r.Get("/token", s.serveStatic("token.htm"))
	r.NotFound(s.serveAny)

	return r
}

// Run serves until the context ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("control panel listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Snapshot())
}

// settingsPatch is the control panel's POST body. Pointers distinguish
// "absent" from zero values so a partial update leaves other fields alone.
type settingsPatch struct {
	Station     *string `json:"station"`
	NRBoardType *string `json:"nrBoardType"`
	IncludeBus  *bool   `json:"includeBus"`
	UpdateEvery *int    `json:"updateEvery"`
	TickerMs    *int    `json:"tickerMs"`
	SSStart     *string `json:"ssStart"`
	SSEnd       *string `json:"ssEnd"`
	WifiSSID    *string `json:"wifiSsid"`
	WifiPass    *string `json:"wifiPass"`
}

func (s *Server) postSettings(w http.ResponseWriter, r *http.Request) {
	var p settingsPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var err error
	apply := func(e error) {
		if err == nil {
			err = e
		}
	}
	if p.Station != nil {
		apply(s.cfg.SetCRS(*p.Station))
	}
	if p.NRBoardType != nil {
		apply(s.cfg.SetMode(*p.NRBoardType))
	}
	if p.IncludeBus != nil {
		apply(s.cfg.SetIncludeBus(*p.IncludeBus))
	}
	if p.UpdateEvery != nil {
		apply(s.cfg.SetUpdateEvery(*p.UpdateEvery))
	}
	if p.TickerMs != nil {
		apply(s.cfg.SetTickerMs(*p.TickerMs))
	}
	if p.SSStart != nil || p.SSEnd != nil {
		start, end := s.cfg.Snapshot().SSStart, s.cfg.Snapshot().SSEnd
		if p.SSStart != nil {
			start = *p.SSStart
		}
		if p.SSEnd != nil {
			end = *p.SSEnd
		}
		apply(s.cfg.SetScreensaver(start, end))
	}
	if p.WifiSSID != nil {
		pass := s.cfg.Snapshot().WifiPass
		if p.WifiPass != nil {
			pass = *p.WifiPass
		}
		apply(s.cfg.SetWifi(*p.WifiSSID, pass))
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getToken(w http.ResponseWriter, r *http.Request) {
	// The token itself is never echoed back; the panel only needs to know
	// whether one is set.
	writeJSON(w, http.StatusOK, map[string]bool{"tokenSet": s.cfg.DarwinToken() != ""})
}

func (s *Server) postToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := s.cfg.SetDarwinToken(body.Token); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

func (s *Server) factoryReset(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.ResetToDefaults(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) reboot(w http.ResponseWriter, r *http.Request) {
	// Respond first so the browser sees success, then restart shortly after.
	writeJSON(w, http.StatusOK, map[string]string{"status": "rebooting"})
	go func() {
		time.Sleep(200 * time.Millisecond)
		s.requestRestart()
	}()
}

func (s *Server) serveStatic(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveFile(w, r, name)
	}
}

// serveAny serves arbitrary panel assets (app.js, styles.css, images) from
// the static dir, rejecting parent-directory escapes.
func (s *Server) serveAny(w http.ResponseWriter, r *http.Request) {
	uri := strings.TrimPrefix(r.URL.Path, "/")
	if uri == "" || strings.Contains(uri, "..") {
		http.Error(w, "Bad path", http.StatusBadRequest)
		return
	}
	s.serveFile(w, r, uri)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	if s.staticDir == "" {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.staticDir, filepath.Clean("/"+name))
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
