// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for playlist curation:
//  1. [BrowseView] : Browse the song catalog with playlist membership markers
//  2. [LyricsView] : Read the exported text of the highlighted song
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Toggling a song re-reads the playlist before writing, so concurrent edits
// from other sessions are picked up on the next refresh.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, r, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
