package playlist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// RangeSource reads the full two-column range of the playlist tab as raw rows,
// header included.
type RangeSource interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// Reader fetches the current backing store contents as ordered entries.
type Reader struct {
	src    RangeSource
	logger *log.Logger
}

// NewReader creates a Reader over the given source.
func NewReader(src RangeSource, logger *log.Logger) *Reader {
	return &Reader{src: src, logger: logger}
}

// FetchAll reads the backing sheet and parses it into ordered entries.
//
// A failed read is returned as an error rather than an empty snapshot, so
// callers can tell "empty playlist" from "fetch failed" and abort a pending
// mutation instead of overwriting the store with a truncated list.
func (r *Reader) FetchAll(ctx context.Context) ([]Entry, error) {
	rows, err := r.src.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}

	entries := EntriesFromRows(rows)
	if r.logger != nil {
		r.logger.Debug("fetched playlist", "rows", len(rows), "entries", len(entries))
	}
	return entries, nil
}
