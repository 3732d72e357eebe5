package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackport/internal/models"
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
	MsgTracksLoaded MsgKind = iota
	MsgTrackImported
	MsgTrackDeleted
)

type tracksLoaded struct {
	tracks []models.TrackDetail
	err    error
}

type trackImported struct {
	track *models.TrackDetail
	err   error
}

type trackDeleted struct {
	id  string
	err error
}

// tracksLoadedMsg is the constructor for [MsgTracksLoaded]
func tracksLoadedMsg(tracks []models.TrackDetail, err error) Msg {
	return Msg{kind: MsgTracksLoaded, data: tracksLoaded{tracks, err}}
}

// trackImportedMsg is the constructor for [MsgTrackImported]
func trackImportedMsg(track *models.TrackDetail, err error) Msg {
	return Msg{kind: MsgTrackImported, data: trackImported{track, err}}
}

// trackDeletedMsg is the constructor for [MsgTrackDeleted]
func trackDeletedMsg(id string, err error) Msg {
	return Msg{kind: MsgTrackDeleted, data: trackDeleted{id, err}}
}
