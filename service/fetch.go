package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/AMMiKSTUDIOS/trakkr/board"
	"github.com/AMMiKSTUDIOS/trakkr/cache"
	"github.com/AMMiKSTUDIOS/trakkr/config"
	"github.com/AMMiKSTUDIOS/trakkr/pkg/catalogue"
	"github.com/AMMiKSTUDIOS/trakkr/pkg/models"
	"github.com/AMMiKSTUDIOS/trakkr/ticker"
)

// TimeWindowMins is the fixed look-ahead window requested from Darwin.
const TimeWindowMins = 120

// Fetcher drives one board refresh: SOAP round trip, streaming XML
// extraction, classification, board swap and ticker content refresh. It owns
// the single-flight guard; overlapping triggers collapse to one in-flight
// fetch.
type Fetcher struct {
	cfg       *config.Store
	board     *board.Board
	ticker    *ticker.Store
	requester Requester
	guard     *FetchGuard
	publisher cache.Publisher // nil when Redis is not configured
	logger    *slog.Logger
}

func NewFetcher(cfg *config.Store, b *board.Board, ts *ticker.Store, req Requester, publisher cache.Publisher, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		cfg:       cfg,
		board:     b,
		ticker:    ts,
		requester: req,
		guard:     NewFetchGuard(DefaultDebounce),
		publisher: publisher,
		logger:    logger,
	}
}

// Fetch performs one poll cycle. It returns true when new data was applied.
// Guard rejection and upstream failures both return false; on failure the
// previous board and ticker content stay in place until the next successful
// poll overwrites them.
func (f *Fetcher) Fetch(ctx context.Context) bool {
	if !f.guard.TryAcquire() {
		f.logger.Debug("fetch skipped: already running or debounced")
		return false
	}
	defer f.guard.Release()

	dep := f.cfg.Mode() != "arrivals"
	method, reqTag := "GetArrivalBoard", "GetArrivalBoardRequest"
	if dep {
		method, reqTag = "GetDepartureBoard", "GetDepartureBoardRequest"
	}

	crs := f.cfg.CRS()
	req := NewBoardRequest(reqTag, crs, f.board.Capacity(), TimeWindowMins)
	env, err := NewEnvelope(f.cfg.DarwinToken(), req)
	if err != nil {
		f.logger.Error("cannot build envelope", slog.String("error", err.Error()))
		return false
	}
	payload, err := env.ToPayload()
	if err != nil {
		f.logger.Error("cannot marshal envelope", slog.String("error", err.Error()))
		return false
	}

	url := f.cfg.Endpoint()
	if url == "" {
		url = DefaultEndpoint
	}

	start := time.Now()
	body, status, err := f.requester.Post(url, method, payload)
	if err != nil {
		f.logger.Error("soap post failed", slog.String("error", err.Error()))
		return false
	}
	if status != 200 {
		f.logger.Error("soap post rejected",
			slog.Int("status", status),
			slog.String("fault", ExtractFault(string(body))))
		return false
	}

	title, services, notices := f.parse(string(body), dep, crs)

	f.board.Replace(title, services)
	f.ticker.SetHasNotices(len(notices) > 0)
	f.ticker.RefreshIfChanged(notices)

	if f.publisher != nil {
		snap := cache.BoardSnapshot{
			Station:     title,
			Mode:        f.cfg.Mode(),
			GeneratedAt: time.Now().UTC(),
			Services:    services,
			Notices:     notices,
		}
		if err := f.publisher.PublishBoard(ctx, snap); err != nil {
			f.logger.Warn("snapshot publish failed", slog.String("error", err.Error()))
		}
	}

	f.logger.Info("board refreshed",
		slog.String("station", title),
		slog.Int("services", len(services)),
		slog.Int("notices", len(notices)),
		slog.Duration("took", time.Since(start)))
	return true
}

// parse extracts the station title, bounded service list and cleaned notice
// list from a successful response body. Missing tags produce empty results,
// never errors.
func (f *Fetcher) parse(body string, dep bool, crs string) (string, []models.ServiceRecord, []models.NoticeMessage) {
	title := models.DecodeEntities(ExtractTag(body, "locationName"))
	if title == "" {
		title = catalogue.DisplayName(crs)
	}

	includeBus := f.cfg.Snapshot().IncludeBus
	timeTag, estTag, endTag := "sta", "eta", "origin"
	if dep {
		timeTag, estTag, endTag = "std", "etd", "destination"
	}

	var services []models.ServiceRecord
	ts := ExtractTag(body, "trainServices")
	pos := 0
	for len(services) < f.board.Capacity() {
		svc, ok := NextTag(ts, "service", &pos)
		if !ok {
			break
		}

		rec := models.ServiceRecord{
			Scheduled: ExtractTag(svc, timeTag),
			Estimate:  ExtractTag(svc, estTag),
			Platform:  ExtractTag(svc, "platform"),
			Operator:  models.NormalizeOperator(ExtractTag(svc, "operator")),
		}
		if rec.Estimate == "" {
			rec.Estimate = "On time"
		}

		endBlk := ExtractTag(svc, endTag)
		first := ExtractTag(endBlk, "location")
		rec.Destination = ExtractTag(first, "locationName")

		rec.Scheduled = models.DecodeEntities(rec.Scheduled)
		rec.Destination = models.DecodeEntities(rec.Destination)
		rec.Estimate = models.DecodeEntities(rec.Estimate)
		rec.Platform = models.DecodeEntities(rec.Platform)
		rec.Operator = models.DecodeEntities(rec.Operator)

		rec.Classify(models.BusSignals{
			ServiceType: ExtractTag(svc, "serviceType"),
			IsBusFlag:   ExtractTag(svc, "isBus"),
			Category:    ExtractTag(svc, "category"),
			Platform:    rec.Platform,
			Operator:    rec.Operator,
		})
		if rec.Bus && !includeBus {
			continue
		}

		if rec.Keep() {
			services = append(services, rec)
		}
	}

	var notices []models.NoticeMessage
	ms := ExtractTag(body, "nrccMessages")
	pos = 0
	for {
		inner, ok := NextTag(ms, "message", &pos)
		if !ok {
			break
		}
		txt := ExtractTag(inner, "text")
		if txt == "" {
			txt = inner
		}
		if n := models.CleanNotice(txt); n != "" {
			notices = append(notices, n)
		}
	}

	return title, services, notices
}

// FetchWithRetry is the bounded startup retry: up to tries attempts with a
// growing backoff. Steady-state polling relies on the scheduler's short
// error interval instead.
func (f *Fetcher) FetchWithRetry(ctx context.Context, tries int, backoff time.Duration) bool {
	if tries < 1 {
		tries = 1
	}
	for i := 0; i < tries; i++ {
		if f.Fetch(ctx) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff += 250 * time.Millisecond
	}
	return false
}
