package tasks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/trackport/internal/shared"
)

// Catalog object kinds accepted by [ExtractCatalogID].
const (
	KindTrack  = "track"
	KindAlbum  = "album"
	KindArtist = "artist"
)

type idPatterns struct {
	url *regexp.Regexp
	uri *regexp.Regexp
}

var (
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
	kindPatterns  = map[string]idPatterns{
		KindTrack:  newIDPatterns(KindTrack),
		KindAlbum:  newIDPatterns(KindAlbum),
		KindArtist: newIDPatterns(KindArtist),
	}
)

func newIDPatterns(kind string) idPatterns {
	return idPatterns{
		url: regexp.MustCompile(`/` + kind + `/([A-Za-z0-9]+)`),
		uri: regexp.MustCompile(`^spotify:` + kind + `:([A-Za-z0-9]{22})$`),
	}
}

// ExtractTrackID derives the catalog key from a track URL, a spotify:track URI or a bare 22-character id.
//
// Any URL with a /track/<key> path segment is accepted, including localized
// share links such as /intl-de/track/<key>. URL query strings are ignored.
// Anything else returns [shared.ErrInvalidIdentifier].
func ExtractTrackID(input string) (string, error) {
	return ExtractCatalogID(KindTrack, input)
}

// ExtractCatalogID is [ExtractTrackID] for any catalog object kind.
func ExtractCatalogID(kind, input string) (string, error) {
	patterns, ok := kindPatterns[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown catalog kind %q", shared.ErrInvalidArgument, kind)
	}

	input = strings.TrimSpace(input)

	if m := patterns.url.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if m := patterns.uri.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(input) {
		return input, nil
	}

	if input == "" {
		return "", fmt.Errorf("%w: Spotify URL or ID is required", shared.ErrInvalidIdentifier)
	}
	return "", fmt.Errorf("%w: %q", shared.ErrInvalidIdentifier, input)
}
