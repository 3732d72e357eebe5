package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/trackport/internal/formatter"
	"github.com/desertthunder/trackport/internal/services"
	"github.com/desertthunder/trackport/internal/shared"
	"github.com/desertthunder/trackport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogSearch searches Spotify for tracks and prints the matches.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials are not configured", shared.ErrServiceUnavailable)
	}

	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	tracks, err := r.catalog.Search(ctx, query, services.ClampSearchLimit(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	for i, t := range tracks {
		r.writePlain("%2d. %s - %s (%s) [%s]\n", i+1, artistName(t), t.Name, t.Album.Name, formatter.FormatDuration(t.DurationMS))
		r.writePlain("    spotify:track:%s\n", t.ID)
	}
	return nil
}

// CatalogTrack fetches one track from Spotify and prints the raw record.
func (r *Runner) CatalogTrack(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials are not configured", shared.ErrServiceUnavailable)
	}

	id, err := tasks.ExtractTrackID(cmd.StringArg("input"))
	if err != nil {
		return err
	}

	track, err := r.catalog.Track(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(track, true)
}

// CatalogAlbum fetches one album from Spotify and prints it as JSON.
func (r *Runner) CatalogAlbum(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials are not configured", shared.ErrServiceUnavailable)
	}

	id, err := tasks.ExtractCatalogID(tasks.KindAlbum, cmd.StringArg("input"))
	if err != nil {
		return err
	}

	album, err := r.catalog.Album(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(album, true)
}

// CatalogArtist fetches one artist from Spotify and prints it as JSON.
func (r *Runner) CatalogArtist(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials are not configured", shared.ErrServiceUnavailable)
	}

	id, err := tasks.ExtractCatalogID(tasks.KindArtist, cmd.StringArg("input"))
	if err != nil {
		return err
	}

	artist, err := r.catalog.Artist(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(artist, true)
}

func artistName(t services.SpotifyTrack) string {
	if len(t.Artists) == 0 {
		return "Unknown Artist"
	}
	return t.Artists[0].Name
}
