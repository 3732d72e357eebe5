package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/trackport/internal/formatter"
	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
	"github.com/desertthunder/trackport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TracksImport imports a single identifier, or every identifier in --file.
func (r *Runner) TracksImport(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("file"); path != "" {
		return r.bulkImport(ctx, cmd, path)
	}

	input := cmd.StringArg("input")
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%w: a Spotify URL or ID (or --file) is required", shared.ErrMissingArgument)
	}

	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	track, err := r.importer(s, r.logger).Import(ctx, input)
	if err != nil {
		var exists *shared.AlreadyExistsError
		if errors.As(err, &exists) {
			r.writePlain("Track already exists in database: %s\n", exists.TrackID)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, true)
	}
	return r.writePlain("✓ Imported %s - %s [%s] (%s)\n", track.Artist.Name, track.Title, track.DurationFormatted, track.ID)
}

func (r *Runner) bulkImport(ctx context.Context, cmd *cli.Command, path string) error {
	inputs, err := r.readIdentifiers(path)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no identifiers in %s", shared.ErrMissingArgument, path)
	}

	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := tasks.BulkImportOpts{
		NumWorkers: r.config.Import.Workers,
		RateLimit:  r.config.Import.RateLimit,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = cmd.Int("workers")
	}

	useJSON := cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if useJSON {
				continue
			}
			switch update.Phase {
			case tasks.ImportStart:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ImportTrack:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.importer(s, r.logger).BulkImport(ctx, progress, inputs, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete")
	r.writePlain("Total: %d\n", result.Total)
	r.writePlain("Imported: %d\n", result.Imported)
	r.writePlain("Already stored: %d\n", result.Existing)
	r.writePlain("Invalid: %d\n", result.Invalid)
	r.writePlain("Failed: %d\n", result.Failed)

	if result.Invalid+result.Failed > 0 {
		r.writePlain("\nProblems:\n")
		for _, res := range result.Results {
			if res.Status == tasks.StatusInvalid || res.Status == tasks.StatusFailed {
				r.writePlain("  - %s: %s\n", res.Input, res.Message)
			}
		}
	}
	return nil
}

func (r *Runner) readIdentifiers(path string) ([]string, error) {
	var src io.Reader = r.input
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open identifier file: %w", err)
		}
		defer f.Close()
		src = f
	}
	return tasks.ReadIdentifiers(src)
}

// TracksList prints stored tracks, newest first.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tracks, err := s.tracks.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stripPayloads(tracks), cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks stored. Import one with 'trackport tracks import <url>'.\n")
	}

	w := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tARTIST\tALBUM\tDURATION\tBPM")
	for _, t := range tracks {
		bpm := "-"
		if t.BPM != nil {
			bpm = fmt.Sprintf("%d", *t.BPM)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Artist.Name, t.Album.Title, t.DurationFormatted, bpm)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	total, err := s.tracks.Count(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("\n%d tracks stored\n", total)
}

// TracksShow prints one stored track.
func (r *Runner) TracksShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	track, err := s.tracks.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if !cmd.Bool("raw") {
			track.SpotifyData = nil
		}
		return r.writeJSON(track, true)
	}

	r.writePlainHeader(track.Title)
	r.writeTrack(track)
	return nil
}

// TracksEdit applies --title, --bpm or --clear-bpm to a stored track.
func (r *Runner) TracksEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	var patch models.TrackPatch
	if cmd.IsSet("title") {
		title := cmd.String("title")
		patch.Title = &title
	}
	switch {
	case cmd.IsSet("bpm") && cmd.Bool("clear-bpm"):
		return fmt.Errorf("%w: --bpm and --clear-bpm are mutually exclusive", shared.ErrInvalidArgument)
	case cmd.IsSet("bpm"):
		patch.BPM = models.NullableInt{Set: true, Value: models.IntPtr(cmd.Int("bpm"))}
	case cmd.Bool("clear-bpm"):
		patch.BPM = models.NullableInt{Set: true}
	}
	if patch.Empty() {
		return fmt.Errorf("%w: nothing to update, pass --title, --bpm or --clear-bpm", shared.ErrMissingArgument)
	}

	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	track, err := s.tracks.Update(ctx, id, patch)
	if err != nil {
		return err
	}

	r.logger.Info("updated track", "id", track.ID)
	r.writePlain("✓ Updated track\n")
	r.writeTrack(track)
	return nil
}

// TracksDelete removes a stored track. Deleting an unknown id is not an error.
func (r *Runner) TracksDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.tracks.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("deleted track", "id", id)
	return r.writePlain("Track deleted successfully\n")
}

// TracksExport writes every stored track in the requested format.
func (r *Runner) TracksExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tracks, err := s.tracks.List(ctx)
	if err != nil {
		return err
	}

	if output == "-" {
		data, err := formatter.Export(format, tracks)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path, err := formatter.WriteExport(format, tracks, output)
	if err != nil {
		return err
	}
	r.logger.Info("exported tracks", "format", format, "path", path, "count", len(tracks))
	return r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), path)
}

func (r *Runner) writeTrack(t *models.TrackDetail) {
	r.writePlain("ID:         %s\n", t.ID)
	r.writePlain("Title:      %s\n", t.Title)
	r.writePlain("Artist:     %s\n", t.Artist.Name)
	r.writePlain("Album:      %s\n", t.Album.Title)
	if t.Album.ReleaseDate != nil {
		r.writePlain("Released:   %s\n", *t.Album.ReleaseDate)
	}
	r.writePlain("Duration:   %s\n", t.DurationFormatted)
	r.writePlain("Track #:    %d\n", t.TrackNumber)
	if t.BPM != nil {
		r.writePlain("BPM:        %d\n", *t.BPM)
	}
	r.writePlain("Spotify ID: %s\n", t.SpotifyID)
}

func requireID(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return "", fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}
	return id, nil
}

// stripPayloads drops the stored Spotify payload from list output.
func stripPayloads(tracks []models.TrackDetail) []models.TrackDetail {
	for i := range tracks {
		tracks[i].SpotifyData = nil
	}
	return tracks
}
