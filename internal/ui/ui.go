package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	ImportView
	ConfirmDeleteView
)

// TrackStore lists and deletes stored tracks.
type TrackStore interface {
	List(ctx context.Context) ([]models.TrackDetail, error)
	Delete(ctx context.Context, id string) error
}

// TrackImporter imports a track by URL or id.
type TrackImporter interface {
	Import(ctx context.Context, input string) (*models.TrackDetail, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	back      ViewState
	store     TrackStore
	importer  TrackImporter
	width     int
	height    int
	trackList list.Model
	selected  *models.TrackDetail
	input     textinput.Model
	importing bool
	importErr string
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store TrackStore, importer TrackImporter) *Model {
	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList.Title = "Tracks"
	trackList.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "https://open.spotify.com/track/..."
	input.CharLimit = 256
	input.Width = 60

	return &Model{
		ctx:       ctx,
		view:      ListView,
		store:     store,
		importer:  importer,
		trackList: trackList,
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading stored tracks.
func (m *Model) Init() tea.Cmd {
	return m.loadTracks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ImportView:
			return m.handleImportKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case ImportView:
		return m.renderImport()
	case ConfirmDeleteView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTracksLoaded:
		data := msg.data.(tracksLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		return m, m.trackList.SetItems(trackItems(data.tracks))

	case MsgTrackImported:
		data := msg.data.(trackImported)
		m.importing = false
		if data.err != nil {
			m.importErr = describeError(data.err)
			return m, nil
		}
		m.importErr = ""
		m.input.Reset()
		m.input.Blur()
		m.selected = data.track
		m.status = fmt.Sprintf("Imported %s - %s", data.track.Artist.Name, data.track.Title)
		m.view = DetailView
		return m, m.loadTracks()

	case MsgTrackDeleted:
		data := msg.data.(trackDeleted)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Delete failed: %v", data.err))
			m.view = m.back
			return m, nil
		}
		m.status = "Track deleted"
		m.selected = nil
		m.view = ListView
		return m, m.loadTracks()
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		return m, m.loadTracks()
	case m.err != nil:
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if track := m.selectedTrack(); track != nil {
			m.selected = track
			m.status = ""
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.importT):
		return m, m.openImport()
	case key.Matches(msg, m.keys.remove):
		if track := m.selectedTrack(); track != nil {
			m.selected = track
			m.back = ListView
			m.view = ConfirmDeleteView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.status = ""
	case key.Matches(msg, m.keys.remove):
		m.back = DetailView
		m.view = ConfirmDeleteView
	}
	return m, nil
}

func (m *Model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.importErr = ""
		m.view = ListView
		return m, nil
	case tea.KeyEnter:
		if m.importing {
			return m, nil
		}
		m.importing = true
		m.importErr = ""
		return m, m.importTrack(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		if m.selected == nil {
			m.view = ListView
			return m, nil
		}
		return m, m.deleteTrack(m.selected.ID)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = m.back
	}
	return m, nil
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case ImportView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) openImport() tea.Cmd {
	m.view = ImportView
	m.status = ""
	m.importErr = ""
	m.input.Reset()
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) selectedTrack() *models.TrackDetail {
	item, ok := m.trackList.SelectedItem().(trackItem)
	if !ok {
		return nil
	}
	track := item.track
	return &track
}

func (m *Model) loadTracks() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.store.List(m.ctx)
		return tracksLoadedMsg(tracks, err)
	}
}

func (m *Model) importTrack(input string) tea.Cmd {
	return func() tea.Msg {
		track, err := m.importer.Import(m.ctx, input)
		return trackImportedMsg(track, err)
	}
}

func (m *Model) deleteTrack(id string) tea.Cmd {
	return func() tea.Msg {
		return trackDeletedMsg(id, m.store.Delete(m.ctx, id))
	}
}

// describeError turns import failures into one-line messages.
func describeError(err error) string {
	var exists *shared.AlreadyExistsError
	if errors.As(err, &exists) {
		return fmt.Sprintf("Track already exists in database (id %s)", exists.TrackID)
	}
	return err.Error()
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.importT, m.keys.remove, m.keys.refresh, m.keys.quit}
	body := m.trackList.View()
	if len(m.trackList.Items()) == 0 {
		body = styles.title.Render("Tracks") + "\n" + styles.help.Render("No tracks yet. Press i to import one.")
	}
	if m.status != "" {
		body += "\n" + styles.ok.Render(m.status)
	}
	return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	t := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(t.Title))
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s%s\n", styles.label.Render(label), value)
	}
	field("Artist", t.Artist.Name)
	field("Album", t.Album.Title)
	if t.Album.ReleaseDate != nil {
		field("Released", *t.Album.ReleaseDate)
	}
	field("Duration", t.DurationFormatted)
	field("Track #", fmt.Sprintf("%d", t.TrackNumber))
	if t.BPM != nil {
		field("BPM", fmt.Sprintf("%d", *t.BPM))
	} else {
		field("BPM", styles.help.Render("not set"))
	}
	if t.Album.CoverURL != nil {
		field("Cover", *t.Album.CoverURL)
	}
	field("Spotify ID", t.SpotifyID)
	field("ID", t.ID)

	if m.status != "" {
		b.WriteString("\n" + styles.ok.Render(m.status) + "\n")
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.remove, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderImport() string {
	title := styles.title.Render("Import from Spotify")

	var status string
	switch {
	case m.importing:
		status = styles.warn.Render("Importing...")
	case m.importErr != "":
		status = styles.err.Render(m.importErr)
	}

	cancel := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, cancel})

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.input.View(), status, helpView)
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}
	title := styles.warn.Render(fmt.Sprintf("Delete '%s' by %s?", m.selected.Title, m.selected.Artist.Name))
	info := styles.help.Render("The artist and album stay in the catalog.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
