package library

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AlbumStore is the album-kind entity store.
type AlbumStore struct {
	*Store[int64, Album, AlbumPayload]
	gw Gateway
}

func newAlbumStore(gw Gateway) *AlbumStore {
	return &AlbumStore{
		Store: newStore(
			KindAlbum,
			func(p AlbumPayload) int64 { return p.ID },
			func(a *Album) int64 { return a.ID },
			seedAlbum,
			reconcileAlbum,
			func(a *Album) bool { return len(a.Songs) == 0 },
		),
		gw: gw,
	}
}

// Fetch requests one page of the album listing. See SongStore.Fetch for the
// pagination contract.
func (s *AlbumStore) Fetch(ctx context.Context, page int) (int, error) {
	payloads, next, err := s.gw.ListAlbums(ctx, page)
	if err != nil {
		return NoNextPage, fmt.Errorf("fetch albums page %d: %w", page, err)
	}

	s.appendFetched(s.SyncWithVault(payloads))

	log.Debug().Int("page", page).Int("count", len(payloads)).Msg("Synchronized album page")
	return next, nil
}

// Resolve returns the cached album when present; otherwise it performs
// exactly one network fetch for that id and synchronizes the result.
func (s *AlbumStore) Resolve(ctx context.Context, id int64) (*Album, error) {
	if album := s.ByID(id); album != nil {
		return album, nil
	}

	payload, err := s.gw.GetAlbum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve album %d: %w", id, err)
	}
	return s.SyncOne(*payload), nil
}

// UploadCover uploads a new cover for the album and applies the URL the
// server answers with.
func (s *AlbumStore) UploadCover(ctx context.Context, album *Album, cover string) (string, error) {
	url, err := s.gw.UploadAlbumCover(ctx, album.ID, cover)
	if err != nil {
		return "", fmt.Errorf("upload cover for album %d: %w", album.ID, err)
	}

	album.Cover = url
	return url, nil
}

// FetchThumbnail lazily loads the thumbnail URL for an album and caches it on
// the instance. Subsequent calls return the cached value, including an empty
// one for albums the server has no thumbnail for.
func (s *AlbumStore) FetchThumbnail(ctx context.Context, album *Album) (string, error) {
	if album.ThumbnailRetrieved {
		return album.Thumbnail, nil
	}

	url, err := s.gw.AlbumThumbnail(ctx, album.ID)
	if err != nil {
		return "", fmt.Errorf("fetch thumbnail for album %d: %w", album.ID, err)
	}

	album.Thumbnail = url
	album.ThumbnailRetrieved = true
	return url, nil
}

// IsUnknown reports whether the album is the server's "Unknown Album" bucket.
func (s *AlbumStore) IsUnknown(album *Album) bool {
	return album.ID == UnknownAlbumID
}
