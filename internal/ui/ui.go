package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opengrove/sheetset/internal/catalog"
	"github.com/opengrove/sheetset/internal/playlist"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	LyricsView
)

// Library lists songs and exports their text.
type Library interface {
	List(ctx context.Context) ([]catalog.Song, error)
	ExportText(ctx context.Context, songID string) (string, error)
}

// Reader reads the current playlist snapshot.
type Reader interface {
	FetchAll(ctx context.Context) ([]playlist.Entry, error)
}

// Toggler flips a song's playlist membership.
type Toggler interface {
	Toggle(ctx context.Context, songID string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	library  Library
	reader   Reader
	toggler  Toggler
	width    int
	height   int
	songList list.Model
	songs    []catalog.Song
	entries  map[string]playlist.Entry
	lyricsOf string
	lyrics   string
	err      error
	help     help.Model
	keys     keyMap
}

type libraryLoadedMsg struct {
	songs   []catalog.Song
	entries []playlist.Entry
	err     error
}

type toggledMsg struct {
	entries []playlist.Entry
	err     error
}

type lyricsLoadedMsg struct {
	name string
	text string
	err  error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library Library, reader Reader, toggler Toggler) *Model {
	return &Model{
		ctx:     ctx,
		view:    BrowseView,
		library: library,
		reader:  reader,
		toggler: toggler,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading the catalog and the playlist.
func (m *Model) Init() tea.Cmd {
	return m.loadLibrary()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case LyricsView:
			return m.handleLyricsKeys(msg)
		}

	case libraryLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.songs = msg.songs
		m.setEntries(msg.entries)
		m.songList = list.New(m.items(), list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = "Song Catalog"
		m.songList.SetSize(m.width-4, m.height-8)
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setEntries(msg.entries)
		m.songList.SetItems(m.items())
		return m, nil

	case lyricsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = BrowseView
			return m, nil
		}
		m.lyricsOf = msg.name
		m.lyrics = msg.text
		m.view = LyricsView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == BrowseView && len(m.songs) == 0 {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case BrowseView:
		return m.renderBrowse()
	case LyricsView:
		return m.renderLyrics()
	default:
		return ""
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.toggle(item.song.ID)
		}
	case "enter":
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.loadLyrics(item.song)
		}
	case "r":
		return m, m.loadLibrary()
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleLyricsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = BrowseView
		return m, nil
	}
	return m, nil
}

func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.library.List(m.ctx)
		if err != nil {
			return libraryLoadedMsg{err: err}
		}
		entries, err := m.reader.FetchAll(m.ctx)
		return libraryLoadedMsg{songs: songs, entries: entries, err: err}
	}
}

func (m *Model) toggle(songID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.toggler.Toggle(m.ctx, songID); err != nil {
			return toggledMsg{err: err}
		}
		entries, err := m.reader.FetchAll(m.ctx)
		return toggledMsg{entries: entries, err: err}
	}
}

func (m *Model) loadLyrics(song catalog.Song) tea.Cmd {
	return func() tea.Msg {
		text, err := m.library.ExportText(m.ctx, song.ID)
		return lyricsLoadedMsg{name: song.Name, text: text, err: err}
	}
}

func (m *Model) setEntries(entries []playlist.Entry) {
	m.entries = make(map[string]playlist.Entry, len(entries))
	for _, entry := range entries {
		m.entries[entry.SongID] = entry
	}
}

func (m *Model) items() []list.Item {
	items := make([]list.Item, len(m.songs))
	for i, song := range m.songs {
		item := songItem{song: song}
		if entry, ok := m.entries[song.ID]; ok {
			item.entry = &entry
		}
		items[i] = item
	}
	return items
}

func (m *Model) renderBrowse() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var banner string
	if m.err != nil {
		banner = styles.warn.Render(fmt.Sprintf("Last action failed: %v", m.err)) + "\n"
	}
	return fmt.Sprintf("%s%s\n\n%s", banner, m.songList.View(), helpView)
}

func (m *Model) renderLyrics() string {
	title := styles.title.Render(m.lyricsOf)
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.lyrics, helpView)
}
