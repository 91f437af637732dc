package library

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ArtistStore is the artist-kind entity store.
type ArtistStore struct {
	*Store[int64, Artist, ArtistPayload]
	gw Gateway
}

func newArtistStore(gw Gateway) *ArtistStore {
	return &ArtistStore{
		Store: newStore(
			KindArtist,
			func(p ArtistPayload) int64 { return p.ID },
			func(a *Artist) int64 { return a.ID },
			seedArtist,
			reconcileArtist,
			func(a *Artist) bool { return len(a.Songs) == 0 },
		),
		gw: gw,
	}
}

// Fetch requests one page of the artist listing. See SongStore.Fetch for the
// pagination contract.
func (s *ArtistStore) Fetch(ctx context.Context, page int) (int, error) {
	payloads, next, err := s.gw.ListArtists(ctx, page)
	if err != nil {
		return NoNextPage, fmt.Errorf("fetch artists page %d: %w", page, err)
	}

	s.appendFetched(s.SyncWithVault(payloads))

	log.Debug().Int("page", page).Int("count", len(payloads)).Msg("Synchronized artist page")
	return next, nil
}

// Resolve returns the cached artist when present; otherwise it performs
// exactly one network fetch for that id and synchronizes the result.
func (s *ArtistStore) Resolve(ctx context.Context, id int64) (*Artist, error) {
	if artist := s.ByID(id); artist != nil {
		return artist, nil
	}

	payload, err := s.gw.GetArtist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve artist %d: %w", id, err)
	}
	return s.SyncOne(*payload), nil
}

// UploadImage uploads a new image for the artist and applies the URL the
// server answers with.
func (s *ArtistStore) UploadImage(ctx context.Context, artist *Artist, image string) (string, error) {
	url, err := s.gw.UploadArtistImage(ctx, artist.ID, image)
	if err != nil {
		return "", fmt.Errorf("upload image for artist %d: %w", artist.ID, err)
	}

	artist.Image = url
	return url, nil
}

// IsUnknown reports whether the artist is the server's "Unknown Artist"
// bucket.
func (s *ArtistStore) IsUnknown(artist *Artist) bool {
	return artist.ID == UnknownArtistID
}

// IsVarious reports whether the artist is the "Various Artists" compilation
// bucket.
func (s *ArtistStore) IsVarious(artist *Artist) bool {
	return artist.ID == VariousArtistsID
}
