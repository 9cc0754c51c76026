package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	SongView
	ConfirmView
)

const chromeHeight = 6

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	songs    models.SongStore
	width    int
	height   int
	list     list.Model
	viewport viewport.Model
	selected *models.Song
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model browsing songs.
func NewModel(ctx context.Context, songs models.SongStore) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Songbook"
	l.SetShowHelp(false)

	return &Model{
		ctx:      ctx,
		view:     ListView,
		songs:    songs,
		list:     l,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// State returns the current [ViewState].
func (m *Model) State() ViewState { return m.view }

// Err returns the last error that stopped the browser, if any.
func (m *Model) Err() error { return m.err }

// Init initializes the TUI by loading songs from the store.
func (m *Model) Init() tea.Cmd {
	return m.fetchSongs()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 0), max(msg.Height-chromeHeight, 0))
		m.viewport.Width = max(msg.Width-4, 0)
		m.viewport.Height = max(msg.Height-chromeHeight, 0)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case SongView:
			return m.handleSongKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateChildren(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		m.status = fmt.Sprintf("%d songs", len(data.songs))
		return m, m.list.SetItems(songItems(data.songs))

	case MsgSongDeleted:
		data := msg.data.(songDeleted)
		m.view = ListView
		switch {
		case data.err == nil:
			m.status = fmt.Sprintf("Deleted %q", data.song.Title)
		case errors.Is(data.err, shared.ErrSongNotFound):
			m.status = fmt.Sprintf("%q was already deleted", data.song.Title)
		default:
			m.status = fmt.Sprintf("Delete failed: %v", data.err)
			return m, nil
		}
		m.selected = nil
		return m, m.fetchSongs()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return Error(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case SongView:
		return m.renderSong()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if song := m.selectedSong(); song != nil {
			m.open(song)
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if song := m.selectedSong(); song != nil {
			m.selected = song
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.fetchSongs()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.delete):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteSong(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = ListView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		m.list, cmd = m.list.Update(msg)
	case SongView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedSong() *models.Song {
	if item, ok := m.list.SelectedItem().(songItem); ok {
		return item.song
	}
	return nil
}

func (m *Model) open(song *models.Song) {
	m.selected = song
	m.viewport.SetContent(song.Lyrics)
	m.viewport.GotoTop()
	m.view = SongView
}

func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.List(m.ctx)
		return songsFetchedMsg(songs, err)
	}
}

func (m *Model) deleteSong(song *models.Song) tea.Cmd {
	if song == nil {
		return nil
	}
	return func() tea.Msg {
		return songDeletedMsg(song, m.songs.Delete(m.ctx, song.ID))
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.delete, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), styles.help.Render(m.status), helpView)
}

func (m *Model) renderSong() string {
	title := styles.title.Render(fmt.Sprintf("%s (#%d)", m.selected.Title, m.selected.ID))
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.delete, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.viewport.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.warn.Render(fmt.Sprintf("Delete '%s'?", m.selected.Title))
	info := fmt.Sprintf("\nSong #%d will be removed permanently.\n", m.selected.ID)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
