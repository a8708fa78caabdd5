// package playlist implements the shared, spreadsheet-backed playlist core.
//
// The backing spreadsheet is the single source of truth: every mutation is a
// full read-modify-write cycle against it, and the in-memory entries returned
// by a fetch are an ephemeral snapshot owned by that operation. Concurrent
// sessions are not coordinated; the last successful full-range write wins.
package playlist

import "strings"

// Header cells of row 1 in the backing sheet.
const (
	HeaderSongID   = "Song UUID"
	HeaderSelected = "Selected"
)

// Entry is one playlist row: an opaque song document id, whether the song is
// part of the active playlist, and its zero-based position.
type Entry struct {
	SongID   string `json:"song_id"`
	Selected bool   `json:"selected"`
	Order    int    `json:"order"`
}

// EntriesFromRows converts raw sheet rows into ordered entries.
//
// Row 0 is the header and is discarded. Each remaining row becomes an entry
// whose Order is its zero-based index relative to the first data row. Rows
// with a blank first cell never become entries, leaving a gap in Order.
func EntriesFromRows(rows [][]string) []Entry {
	if len(rows) < 2 {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		selected := false
		if len(row) > 1 {
			selected = isTruthy(row[1])
		}

		entries = append(entries, Entry{
			SongID:   row[0],
			Selected: selected,
			Order:    i,
		})
	}

	return entries
}

// RowsFromEntries renders entries as the full replacement payload: the header
// row followed by one row per entry, Selected as the literal TRUE/FALSE.
// Entries are rendered in the order given; callers sort beforehand.
func RowsFromEntries(entries []Entry) [][]string {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{HeaderSongID, HeaderSelected})

	for _, entry := range entries {
		cell := "FALSE"
		if entry.Selected {
			cell = "TRUE"
		}
		rows = append(rows, []string{entry.SongID, cell})
	}

	return rows
}

// isTruthy reports whether a Selected cell marks the entry as part of the
// active playlist. Only "true" and "1" count, case-insensitively; every other
// value, including empty, is false.
func isTruthy(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "1":
		return true
	default:
		return false
	}
}
