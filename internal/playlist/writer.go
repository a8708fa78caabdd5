package playlist

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/opengrove/sheetset/internal/shared"
)

// Gate reports whether a non-expired write credential is held. Reads never
// consult the gate; writes treat a closed gate as a hard precondition failure.
type Gate interface {
	IsReady() bool
}

// RangeSink overwrites the full two-column range of the playlist tab.
type RangeSink interface {
	WriteRows(ctx context.Context, rows [][]string) error
}

// Writer serializes entries back into the backing sheet as a full-replace
// write. There are no partial-write semantics: a failed write leaves the store
// in whatever state the last successful write left it.
type Writer struct {
	sink   RangeSink
	gate   Gate
	logger *log.Logger
}

// NewWriter creates a Writer over the given sink, gated by gate.
func NewWriter(sink RangeSink, gate Gate, logger *log.Logger) *Writer {
	return &Writer{sink: sink, gate: gate, logger: logger}
}

// ReplaceAll persists the entries as the entire contents of the backing sheet.
//
// Entries are sorted by Order ascending (stable for ties) before writing, so
// the persisted row order matches logical order even when the caller assembled
// the slice out of sequence. Without a ready write credential it fails with
// [shared.ErrUnauthenticated] and performs no network call.
func (w *Writer) ReplaceAll(ctx context.Context, entries []Entry) error {
	if w.gate == nil || !w.gate.IsReady() {
		return fmt.Errorf("replace playlist: %w", shared.ErrUnauthenticated)
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	if err := w.sink.WriteRows(ctx, RowsFromEntries(sorted)); err != nil {
		return fmt.Errorf("replace playlist: %w", err)
	}

	if w.logger != nil {
		w.logger.Debug("replaced playlist", "entries", len(sorted))
	}
	return nil
}
