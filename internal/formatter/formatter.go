// package formatter renders stored tracks for export (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
)

// Format names accepted by [Export].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// FormatDuration renders milliseconds as m:ss. Negative input is treated as zero.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Export dispatches to the exporter for format.
func Export(format string, tracks []models.TrackDetail) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown, "md":
		return ExportToMarkdown(tracks, "Tracks")
	case FormatText, "text":
		return ExportToText(tracks)
	case FormatJSON:
		return ExportToJSON(tracks)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes columns: ID, Title, Artist, Album, Duration, BPM, Spotify ID
func ExportToCSV(tracks []models.TrackDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "BPM", "Spotify ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist.Name,
			track.Album.Title,
			FormatDuration(track.DurationMS),
			bpmString(track.BPM),
			track.SpotifyID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a numbered track list under the given heading
func ExportToMarkdown(tracks []models.TrackDetail, heading string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", heading))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for i, track := range tracks {
		albumPart := ""
		if track.Album.Title != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album.Title)
		}
		bpmPart := ""
		if track.BPM != nil {
			bpmPart = fmt.Sprintf(" %d BPM", *track.BPM)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]%s\n",
			i+1, track.Artist.Name, track.Title, albumPart, FormatDuration(track.DurationMS), bpmPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to a plain "Artist - Title" list
func ExportToText(tracks []models.TrackDetail) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist.Name, track.Title))
	}

	return buf.Bytes(), nil
}

// ExportToJSON writes the track details without the raw catalog payload
func ExportToJSON(tracks []models.TrackDetail) ([]byte, error) {
	out := make([]models.TrackDetail, len(tracks))
	for i, track := range tracks {
		track.SpotifyData = nil
		out[i] = track
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tracks: %w", err)
	}
	return data, nil
}

// WriteExport renders tracks in format and writes them to path.
//
// Defaults to tracks.{ext} when path is empty.
func WriteExport(format string, tracks []models.TrackDetail, path string) (string, error) {
	data, err := Export(format, tracks)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "tracks." + extension(format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		return "md"
	case FormatText, "text":
		return "txt"
	default:
		return strings.ToLower(format)
	}
}

func bpmString(bpm *int) string {
	if bpm == nil {
		return ""
	}
	return strconv.Itoa(*bpm)
}
