// Package board holds the current set of service rows and paints them. The
// fetch orchestrator replaces the whole row set on a successful poll; the
// renderer reads a consistent snapshot, so no draw ever sees a half-updated
// list.
package board

import (
	"sync"

	"github.com/AMMiKSTUDIOS/trakkr/pkg/models"
)

// Board is the shared row-set state: a single-owner object replaced
// wholesale by the fetcher and snapshotted by the renderer.
type Board struct {
	mu       sync.RWMutex
	title    string
	services []models.ServiceRecord
	capacity int
}

// DefaultCapacity is the row limit requested from the feed and painted on
// the board.
const DefaultCapacity = 8

func New(capacity int) *Board {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Board{title: "Board", capacity: capacity}
}

func (b *Board) Capacity() int { return b.capacity }

// Replace swaps in a freshly fetched row set. Rows beyond capacity are
// dropped; upstream order (assumed chronological) is preserved.
func (b *Board) Replace(title string, services []models.ServiceRecord) {
	if len(services) > b.capacity {
		services = services[:b.capacity]
	}
	b.mu.Lock()
	if title != "" {
		b.title = title
	}
	b.services = services
	b.mu.Unlock()
}

// Snapshot returns the title and a copy of the current rows.
func (b *Board) Snapshot() (string, []models.ServiceRecord) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.ServiceRecord, len(b.services))
	copy(out, b.services)
	return b.title, out
}
