// Package ticker persists NRCC notice content to a flat backing file and
// scrolls it across the bottom band of the display. The store half
// deduplicates rewrites by content hash and swaps the file atomically; the
// renderer half tiles the content pixel-accurately at frame rate.
package ticker

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/AMMiKSTUDIOS/trakkr/pkg/models"
)

const (
	// Separator between messages, both in the backing file and on screen
	// (the '|' is replaced by a diamond glyph when rendered).
	Separator = "   |   "

	// Trailer is the fixed tail line, present even with zero notices.
	Trailer = "Powered by National Rail"

	tickerFile = "ticker.txt"
	metaFile   = "ticker.meta"
	tempFile   = "ticker.tmp"
)

// Store owns the backing file and its hash metadata. A rewrite happens only
// when the freshly computed hash differs from the persisted one, and always
// as write-temp + rename so the renderer never sees a partial file.
type Store struct {
	dir    string
	logger *slog.Logger

	hasNotices atomic.Bool
	dirty      atomic.Bool

	// rename is swappable so tests can fail the swap step.
	rename func(oldpath, newpath string) error
}

func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger, rename: os.Rename}
}

func (st *Store) Path() string     { return filepath.Join(st.dir, tickerFile) }
func (st *Store) metaPath() string { return filepath.Join(st.dir, metaFile) }
func (st *Store) tempPath() string { return filepath.Join(st.dir, tempFile) }

// HasNotices reports whether the current content carries real notices (as
// opposed to just the trailer).
func (st *Store) HasNotices() bool { return st.hasNotices.Load() }

// SetHasNotices flips the notice flag; a transition marks the renderer's
// cached layout stale so it switches between banner and ribbon.
func (st *Store) SetHasNotices(has bool) {
	if st.hasNotices.Swap(has) != has {
		st.dirty.Store(true)
	}
}

// TakeDirty atomically consumes the stale-layout flag.
func (st *Store) TakeDirty() bool { return st.dirty.Swap(false) }

// ReadAll reads the entire backing file. Bounded in practice by notice
// volume; a handful of sentences at most.
func (st *Store) ReadAll() ([]byte, error) {
	return os.ReadFile(st.Path())
}

// compose builds the persisted byte sequence: each non-empty cleaned notice
// followed by the separator, then the trailer and a final separator.
func compose(notices []models.NoticeMessage) []byte {
	var b strings.Builder
	for _, m := range notices {
		s := strings.TrimSpace(models.CollapseSpaces(string(m)))
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteString(Separator)
	}
	b.WriteString(Trailer)
	b.WriteString(Separator)
	return []byte(b.String())
}

// ContentHash is the order-sensitive 32-bit digest used to skip redundant
// rewrites. xxh3 folded to 32 bits, matching the width of the meta slot.
func ContentHash(payload []byte) uint32 {
	return uint32(xxh3.Hash(payload))
}

func (st *Store) readMeta() (uint32, bool) {
	raw, err := os.ReadFile(st.metaPath())
	if err != nil || len(raw) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(raw), true
}

func (st *Store) writeMeta(v uint32) error {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	return os.WriteFile(st.metaPath(), raw[:], 0o644)
}

// RefreshIfChanged rebuilds the backing file from the given notices if and
// only if the content hash changed. Returns true when the live file was
// replaced. A storage failure abandons the cycle and keeps the previous
// file serving stale-but-valid content.
func (st *Store) RefreshIfChanged(notices []models.NoticeMessage) bool {
	payload := compose(notices)
	want := ContentHash(payload)

	if have, ok := st.readMeta(); ok && have == want {
		st.logger.Debug("ticker content unchanged; not rewriting file")
		return false
	}

	if err := st.writeAndSwap(payload, want); err != nil {
		st.logger.Error("ticker refresh failed", slog.String("error", err.Error()))
		return false
	}

	st.dirty.Store(true)
	st.logger.Info("ticker file rewritten", slog.Int("bytes", len(payload)))
	return true
}

func (st *Store) writeAndSwap(payload []byte, hash uint32) error {
	if err := os.MkdirAll(st.dir, 0o755); err != nil {
		return fmt.Errorf("create ticker dir: %w", err)
	}
	tmp := st.tempPath()
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := st.rename(tmp, st.Path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("swap ticker file: %w", err)
	}
	// Meta goes last: a failed swap must leave the old hash in place so the
	// next cycle retries instead of believing the rewrite happened.
	if err := st.writeMeta(hash); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}
