package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/opengrove/sheetset/internal/catalog"
	"github.com/opengrove/sheetset/internal/playlist"
)

var _ list.Item = songItem{}

// songItem wraps [catalog.Song] with its playlist entry (if any) to implement [list.Item].
type songItem struct {
	song  catalog.Song
	entry *playlist.Entry
}

func (i songItem) FilterValue() string { return i.song.Name }

func (i songItem) Title() string {
	if i.entry == nil {
		return i.song.Name
	}
	marker := "○"
	if i.entry.Selected {
		marker = "●"
	}
	return fmt.Sprintf("%s %s", marker, i.song.Name)
}

func (i songItem) Description() string {
	if i.entry == nil {
		return "not in playlist"
	}
	status := "skipped"
	if i.entry.Selected {
		status = "selected"
	}
	return fmt.Sprintf("#%d • %s", i.entry.Order, status)
}
