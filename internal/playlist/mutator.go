package playlist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/opengrove/sheetset/internal/shared"
)

// Mutator exposes the four high-level playlist operations, each a full
// read-modify-write cycle over the Reader/Writer pair. The two network calls
// are not atomic: a concurrent session writing in between is silently
// clobbered (last write wins). A failed fetch aborts the mutation before any
// write; a failed write is propagated without retry.
type Mutator struct {
	reader *Reader
	writer *Writer
	logger *log.Logger
}

// NewMutator creates a Mutator over the given Reader and Writer.
func NewMutator(reader *Reader, writer *Writer, logger *log.Logger) *Mutator {
	return &Mutator{reader: reader, writer: writer, logger: logger}
}

// Toggle flips whether the song belongs to the active playlist.
//
// A selected entry is removed outright, not flagged false, so its position is
// lost; toggling it back on re-adds it at the end. An unselected entry is
// flipped in place, keeping its Order. An unknown id is added.
func (m *Mutator) Toggle(ctx context.Context, songID string) error {
	if songID == "" {
		return fmt.Errorf("toggle: %w: song id", shared.ErrMissingArgument)
	}

	entries, err := m.reader.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", songID, err)
	}

	idx := indexOf(entries, songID)
	switch {
	case idx < 0:
		entries = append(entries, Entry{SongID: songID, Selected: true, Order: len(entries)})
	case entries[idx].Selected:
		entries = withoutIndex(entries, idx)
	default:
		entries[idx].Selected = true
	}

	return m.writer.ReplaceAll(ctx, entries)
}

// Add appends the song as a selected entry at the end of the playlist.
//
// No de-duplication is performed; adding an id that already exists produces a
// second row. Callers wanting idempotence should use Toggle.
func (m *Mutator) Add(ctx context.Context, songID string) error {
	if songID == "" {
		return fmt.Errorf("add: %w: song id", shared.ErrMissingArgument)
	}

	entries, err := m.reader.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("add %s: %w", songID, err)
	}

	entries = append(entries, Entry{SongID: songID, Selected: true, Order: len(entries)})
	return m.writer.ReplaceAll(ctx, entries)
}

// Remove deletes the song's row and re-numbers the remaining entries to their
// new zero-based positions, closing the gap.
func (m *Mutator) Remove(ctx context.Context, songID string) error {
	if songID == "" {
		return fmt.Errorf("remove: %w: song id", shared.ErrMissingArgument)
	}

	entries, err := m.reader.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("remove %s: %w", songID, err)
	}

	idx := indexOf(entries, songID)
	if idx >= 0 {
		entries = withoutIndex(entries, idx)
	}

	return m.writer.ReplaceAll(ctx, entries)
}

// Reorder replaces the playlist with exactly the given id sequence.
//
// The current snapshot is fetched only to recover each id's Selected flag; ids
// not found in the snapshot default to selected. Any stored entry whose id is
// absent from orderedSongIDs is dropped — this is a full replacement, not a
// merge.
func (m *Mutator) Reorder(ctx context.Context, orderedSongIDs []string) error {
	entries, err := m.reader.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("reorder: %w", err)
	}

	selected := make(map[string]bool, len(entries))
	for _, entry := range entries {
		selected[entry.SongID] = entry.Selected
	}

	next := make([]Entry, 0, len(orderedSongIDs))
	for i, id := range orderedSongIDs {
		sel := true
		if known, ok := selected[id]; ok {
			sel = known
		}
		next = append(next, Entry{SongID: id, Selected: sel, Order: i})
	}

	if m.logger != nil && len(next) < len(entries) {
		m.logger.Debug("reorder drops entries", "before", len(entries), "after", len(next))
	}

	return m.writer.ReplaceAll(ctx, next)
}

// indexOf returns the index of the entry with the given song id, or -1.
func indexOf(entries []Entry, songID string) int {
	for i, entry := range entries {
		if entry.SongID == songID {
			return i
		}
	}
	return -1
}

// withoutIndex removes the entry at idx and re-numbers every remaining entry
// to its new zero-based position, preserving relative sequence.
func withoutIndex(entries []Entry, idx int) []Entry {
	next := make([]Entry, 0, len(entries)-1)
	next = append(next, entries[:idx]...)
	next = append(next, entries[idx+1:]...)
	for i := range next {
		next[i].Order = i
	}
	return next
}
