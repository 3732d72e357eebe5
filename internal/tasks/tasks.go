// package tasks implements the catalog import reconciler.
//
// The core abstraction is the Importer, which resolves a track identifier into
// stored Artist, Album and Track rows without ever creating duplicates.
// Bulk operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/services"
	"github.com/desertthunder/trackport/internal/shared"
	"golang.org/x/sync/singleflight"
)

// TrackFetcher retrieves a track record from the catalog.
type TrackFetcher interface {
	Track(ctx context.Context, trackID string) (*services.SpotifyTrack, error)
}

// ArtistStore looks up and inserts artists by external key.
type ArtistStore interface {
	GetByExternalID(ctx context.Context, spotifyID string) (*models.Artist, error)
	Create(ctx context.Context, artist *models.Artist) error
}

// AlbumStore looks up and inserts albums by external key.
type AlbumStore interface {
	GetByExternalID(ctx context.Context, spotifyID string) (*models.Album, error)
	Create(ctx context.Context, album *models.Album) error
}

// TrackStore looks up, inserts and reads back tracks.
type TrackStore interface {
	GetByExternalID(ctx context.Context, spotifyID string) (*models.Track, error)
	Create(ctx context.Context, track *models.Track) error
	Get(ctx context.Context, id string) (*models.TrackDetail, error)
}

// Importer resolves catalog identifiers into stored tracks.
//
// Each call runs sequentially: duplicate guard, catalog fetch, artist and album
// get-or-create, then the track insert. Concurrent calls share the store
// without transactions; unique keys plus in-process call collapsing keep one
// row per external key.
type Importer struct {
	catalog TrackFetcher
	artists ArtistStore
	albums  AlbumStore
	tracks  TrackStore
	logger  *log.Logger
	group   singleflight.Group
}

// NewImporter creates an Importer. A nil logger discards output.
func NewImporter(catalog TrackFetcher, artists ArtistStore, albums AlbumStore, tracks TrackStore, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{
		catalog: catalog,
		artists: artists,
		albums:  albums,
		tracks:  tracks,
		logger:  logger,
	}
}

// Import stores the track named by input and returns it with its artist and album attached.
//
// Errors wrap one of [shared.ErrInvalidIdentifier], [shared.ErrAlreadyExists]
// (as [*shared.AlreadyExistsError]), [shared.ErrUpstream] or [shared.ErrPersistence].
// Artist and album rows created before a later failure are kept.
func (i *Importer) Import(ctx context.Context, input string) (*models.TrackDetail, error) {
	if i.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	key, err := ExtractTrackID(input)
	if err != nil {
		return nil, err
	}

	if err := i.ensureNew(ctx, key); err != nil {
		return nil, err
	}

	record, err := i.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	primary := record.Artists[0]
	artist, err := i.resolveArtist(ctx, primary)
	if err != nil {
		return nil, err
	}

	album, err := i.resolveAlbum(ctx, record.Album, artist.ID)
	if err != nil {
		return nil, err
	}

	track := &models.Track{
		Title:       record.Name,
		ArtistID:    artist.ID,
		AlbumID:     album.ID,
		DurationMS:  record.DurationMS,
		TrackNumber: record.TrackNumber,
		SpotifyID:   key,
		SpotifyData: record.Raw,
	}

	if err := i.tracks.Create(ctx, track); err != nil {
		if !errors.Is(err, shared.ErrConflict) {
			return nil, persistenceError("insert track", err)
		}

		winner, lookupErr := i.tracks.GetByExternalID(ctx, key)
		if lookupErr != nil {
			return nil, persistenceError("re-read track after conflict", lookupErr)
		}
		i.logger.Debug("track imported concurrently", "spotify_id", key, "id", winner.ID)
		return nil, &shared.AlreadyExistsError{TrackID: winner.ID}
	}

	detail, err := i.tracks.Get(ctx, track.ID)
	if err != nil {
		return nil, persistenceError("read back track", err)
	}

	i.logger.Info("imported track", "id", detail.ID, "spotify_id", key, "title", detail.Title, "artist", detail.Artist.Name)
	return detail, nil
}

// ensureNew is the duplicate guard: an existing row for key yields [*shared.AlreadyExistsError].
func (i *Importer) ensureNew(ctx context.Context, key string) error {
	existing, err := i.tracks.GetByExternalID(ctx, key)
	switch {
	case err == nil:
		return &shared.AlreadyExistsError{TrackID: existing.ID}
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return persistenceError("check for existing track", err)
	}
}

// fetch retrieves the catalog record and checks it names an artist and an album.
func (i *Importer) fetch(ctx context.Context, key string) (*services.SpotifyTrack, error) {
	record, err := i.catalog.Track(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	if len(record.Artists) == 0 || record.Artists[0].ID == "" {
		return nil, fmt.Errorf("%w: track %s has no artists", shared.ErrUpstream, key)
	}
	if record.Album.ID == "" {
		return nil, fmt.Errorf("%w: track %s has no album", shared.ErrUpstream, key)
	}
	return record, nil
}

func (i *Importer) resolveArtist(ctx context.Context, src services.SpotifyArtist) (*models.Artist, error) {
	artist, err := getOrCreate(ctx, &i.group, "artist:"+src.ID,
		func(ctx context.Context) (*models.Artist, error) {
			return i.artists.GetByExternalID(ctx, src.ID)
		},
		func(ctx context.Context) (*models.Artist, error) {
			a := &models.Artist{Name: src.Name, SpotifyID: src.ID}
			if err := i.artists.Create(ctx, a); err != nil {
				return nil, err
			}
			i.logger.Debug("created artist", "id", a.ID, "spotify_id", a.SpotifyID, "name", a.Name)
			return a, nil
		},
	)
	if err != nil {
		return nil, persistenceError("resolve artist", err)
	}
	return artist, nil
}

func (i *Importer) resolveAlbum(ctx context.Context, src services.SpotifyAlbum, artistID string) (*models.Album, error) {
	album, err := getOrCreate(ctx, &i.group, "album:"+src.ID,
		func(ctx context.Context) (*models.Album, error) {
			return i.albums.GetByExternalID(ctx, src.ID)
		},
		func(ctx context.Context) (*models.Album, error) {
			a := &models.Album{
				Title:       src.Name,
				ArtistID:    artistID,
				SpotifyID:   src.ID,
				CoverURL:    models.StringPtr(src.CoverURL()),
				ReleaseDate: models.StringPtr(src.ReleaseDate),
			}
			if err := i.albums.Create(ctx, a); err != nil {
				return nil, err
			}
			i.logger.Debug("created album", "id", a.ID, "spotify_id", a.SpotifyID, "title", a.Title)
			return a, nil
		},
	)
	if err != nil {
		return nil, persistenceError("resolve album", err)
	}
	return album, nil
}

// getOrCreate returns the row found by lookup, inserting it with create when absent.
//
// Calls sharing key run once within the process. When another process wins the
// insert race, create reports [shared.ErrConflict] and the winner is re-read.
func getOrCreate[T any](
	ctx context.Context,
	group *singleflight.Group,
	key string,
	lookup func(context.Context) (T, error),
	create func(context.Context) (T, error),
) (T, error) {
	v, err, _ := group.Do(key, func() (any, error) {
		found, err := lookup(ctx)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		created, err := create(ctx)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, shared.ErrConflict) {
			return nil, err
		}

		return lookup(ctx)
	})

	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// persistenceError wraps err as [shared.ErrPersistence] unless it already is one.
func persistenceError(op string, err error) error {
	if errors.Is(err, shared.ErrPersistence) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrPersistence, op, err)
}
