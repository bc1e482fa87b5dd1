package board

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMMiKSTUDIOS/trakkr/display"
	"github.com/AMMiKSTUDIOS/trakkr/pkg/models"
)

func fixedClock(hhmm string) func() time.Time {
	tm, _ := time.Parse("15:04", hhmm)
	return func() time.Time { return tm }
}

func testBoardRenderer(mode string, services []models.ServiceRecord) (*Renderer, *display.Buffer) {
	b := New(DefaultCapacity)
	b.Replace("London Paddington", services)
	buf := display.NewBuffer(80, 24)
	r := NewRenderer(buf, &sync.Mutex{}, b, func() string { return mode })
	r.now = fixedClock("10:30")
	return r, buf
}

func sampleServices() []models.ServiceRecord {
	return []models.ServiceRecord{
		{Scheduled: "10:00", Destination: "Oxford", Estimate: "On time", Platform: "4", Operator: "Great Western"},
		{Scheduled: "10:12", Destination: "York", Estimate: "Cancelled", Platform: "2", Operator: "LNER"},
		{Scheduled: "10:20", Destination: "Reading", Estimate: "On time", Operator: "Rail Replacement", Bus: true},
	}
}

func TestRedrawHeaderAndColumns(t *testing.T) {
	r, buf := testBoardRenderer("departures", sampleServices())
	r.Redraw()

	head := buf.Row(1)
	assert.Contains(t, head, "London Paddington Departures")
	assert.Contains(t, head, "10:30")

	bar := buf.Row(2)
	for _, lbl := range []string{"STD", "To", "ETD", "Plt", "Operator"} {
		assert.Contains(t, bar, lbl)
	}
}

func TestRedrawArrivalsLabels(t *testing.T) {
	r, buf := testBoardRenderer("arrivals", sampleServices())
	r.Redraw()

	assert.Contains(t, buf.Row(1), "Arrivals")
	bar := buf.Row(2)
	for _, lbl := range []string{"STA", "From", "ETA"} {
		assert.Contains(t, bar, lbl)
	}
}

func TestRedrawRows(t *testing.T) {
	r, buf := testBoardRenderer("departures", sampleServices())
	r.Redraw()

	// 24 rows, capacity 8: two cells per service row starting under the bar
	first := buf.Row(4)
	assert.Contains(t, first, "10:00")
	assert.Contains(t, first, "Oxford")
	assert.Contains(t, first, "On time")
	assert.Contains(t, first, "Great Western")

	// scheduled time in the time colour, estimate colour tracks status
	assert.Equal(t, display.TimeColor, buf.Cell(1, 4).Fg)
	assert.Equal(t, 'C', buf.Cell(40, 6).R)
	assert.Equal(t, display.AlertColor, buf.Cell(40, 6).Fg)

	// bus badge replaces the platform cell, inverse video
	assert.Equal(t, 'B', buf.Cell(51, 8).R)
	assert.Equal(t, display.TextMain, buf.Cell(51, 8).Bg)

	// slots below the painted rows are cleared
	assert.Empty(t, buf.Row(10))
	assert.Equal(t, display.BodyBg, buf.Cell(5, 10).Bg)
}

func TestRedrawTruncatesLongDestination(t *testing.T) {
	svc := []models.ServiceRecord{{
		Scheduled: "10:00", Estimate: "On time", Platform: "1", Operator: "Great Western",
		Destination: "Extremely Long Destination Name Somewhere Beyond The Sea",
	}}
	r, buf := testBoardRenderer("departures", svc)
	r.Redraw()

	row := buf.Row(4)
	assert.Contains(t, row, "Extremely Long Destination")
	assert.NotContains(t, row, "Somewhere", "destination is cut at a word boundary before the estimate column")
}

func TestDrawClockOnlyOnMinuteChange(t *testing.T) {
	r, buf := testBoardRenderer("departures", nil)
	r.Redraw()
	require.Contains(t, buf.Row(1), "10:30")

	r.DrawClock()
	assert.Contains(t, buf.Row(1), "10:30")

	r.now = fixedClock("10:31")
	r.DrawClock()
	assert.Contains(t, buf.Row(1), "10:31")
	assert.NotContains(t, buf.Row(1), "10:30")
}

func TestShowLoadingAndBlank(t *testing.T) {
	r, buf := testBoardRenderer("departures", sampleServices())
	r.ShowLoading()
	assert.Contains(t, buf.Row(12), "Loading Board")

	r.Blank()
	for y := 0; y < 24; y++ {
		assert.Empty(t, buf.Row(y))
	}
	assert.Equal(t, display.TextShadow, buf.Cell(3, 3).Bg)
}

func TestBoardReplaceTruncatesAndKeepsTitle(t *testing.T) {
	b := New(2)
	b.Replace("Reading", []models.ServiceRecord{
		{Scheduled: "09:00"}, {Scheduled: "09:10"}, {Scheduled: "09:20"},
	})
	title, svcs := b.Snapshot()
	assert.Equal(t, "Reading", title)
	assert.Len(t, svcs, 2)

	b.Replace("", []models.ServiceRecord{{Scheduled: "10:00"}})
	title, svcs = b.Snapshot()
	assert.Equal(t, "Reading", title, "empty title keeps the previous one")
	assert.Len(t, svcs, 1)
}
