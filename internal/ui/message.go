package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsFetched MsgKind = iota
	MsgSongDeleted
)

type songsFetched struct {
	songs []*models.Song
	err   error
}

type songDeleted struct {
	song *models.Song
	err  error
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []*models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{songs, err}}
}

// songDeletedMsg is the constructor for [MsgSongDeleted]
func songDeletedMsg(song *models.Song, err error) Msg {
	return Msg{kind: MsgSongDeleted, data: songDeleted{song, err}}
}
