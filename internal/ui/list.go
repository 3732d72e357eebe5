package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/trackport/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.TrackDetail] to implement [list.Item].
type trackItem struct {
	track models.TrackDetail
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.Artist.Name }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.track.Artist.Name, i.track.DurationFormatted)
	if i.track.Album.Title != "" {
		desc = fmt.Sprintf("%s • %s • %s", i.track.Artist.Name, i.track.Album.Title, i.track.DurationFormatted)
	}
	if i.track.BPM != nil {
		desc = fmt.Sprintf("%s • %d BPM", desc, *i.track.BPM)
	}
	return desc
}

func trackItems(tracks []models.TrackDetail) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	return items
}
