package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
)

// SongStore is the song-kind entity store. Songs are never compacted: a song
// that exists on the server stays cached even when its album or artist is
// pruned.
type SongStore struct {
	*Store[string, Song, SongPayload]
	gw Gateway
}

func newSongStore(gw Gateway) *SongStore {
	return &SongStore{
		Store: newStore(
			KindSong,
			func(p SongPayload) string { return p.ID },
			func(s *Song) string { return s.ID },
			seedSong,
			reconcileSong,
			nil,
		),
		gw: gw,
	}
}

// Fetch requests one page of the sorted song listing, synchronizes each item
// into the vault and appends the canonical references to the ordered view.
// Returns the next page to request, or NoNextPage when the listing is
// exhausted. Overlapping calls for the same page are not guarded against.
func (s *SongStore) Fetch(ctx context.Context, page int, sort SongSortField, order SortOrder) (int, error) {
	payloads, next, err := s.gw.ListSongs(ctx, page, sort, order)
	if err != nil {
		return NoNextPage, fmt.Errorf("fetch songs page %d: %w", page, err)
	}

	s.appendFetched(s.SyncWithVault(payloads))

	log.Debug().Int("page", page).Int("count", len(payloads)).Msg("Synchronized song page")
	return next, nil
}

// Resolve returns the cached song when present; otherwise it performs exactly
// one network fetch for that id and synchronizes the result.
func (s *SongStore) Resolve(ctx context.Context, id string) (*Song, error) {
	if song := s.ByID(id); song != nil {
		return song, nil
	}

	payload, err := s.gw.GetSong(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve song %s: %w", id, err)
	}
	return s.SyncOne(*payload), nil
}

// FetchForAlbum loads the album's songs, attaches the canonical references to
// the album and returns them.
func (s *SongStore) FetchForAlbum(ctx context.Context, album *Album) ([]*Song, error) {
	payloads, err := s.gw.AlbumSongs(ctx, album.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch songs for album %d: %w", album.ID, err)
	}

	album.Songs = s.SyncWithVault(payloads)
	return album.Songs, nil
}

// FetchForArtist loads the artist's songs, attaches the canonical references
// to the artist and returns them.
func (s *SongStore) FetchForArtist(ctx context.Context, artist *Artist) ([]*Song, error) {
	payloads, err := s.gw.ArtistSongs(ctx, artist.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch songs for artist %d: %w", artist.ID, err)
	}

	artist.Songs = s.SyncWithVault(payloads)
	return artist.Songs, nil
}

// FetchForPlaylist loads a playlist's songs and returns the canonical
// references.
func (s *SongStore) FetchForPlaylist(ctx context.Context, playlistID int64) ([]*Song, error) {
	payloads, err := s.gw.PlaylistSongs(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("fetch songs for playlist %d: %w", playlistID, err)
	}
	return s.SyncWithVault(payloads), nil
}

// FetchInfo lazily loads the extended info (full lyrics, video link) for a
// song. Subsequent calls are served from the cached instance.
func (s *SongStore) FetchInfo(ctx context.Context, song *Song) error {
	if song.InfoRetrieved {
		return nil
	}

	info, err := s.gw.SongInfo(ctx, song.ID)
	if err != nil {
		return fmt.Errorf("fetch info for song %s: %w", song.ID, err)
	}

	song.Lyrics = info.Lyrics
	song.VideoURL = info.VideoURL
	song.InfoRetrieved = true
	return nil
}

// Guess finds a song on an album by normalized title. Good enough without
// edit-distance matching.
func (s *SongStore) Guess(title string, album *Album) *Song {
	needle := slug.Make(strings.ToLower(title))
	for _, song := range album.Songs {
		if slug.Make(strings.ToLower(song.Title)) == needle {
			return song
		}
	}
	return nil
}

// TotalLength returns the combined duration of the given songs in seconds.
func TotalLength(songs []*Song) float64 {
	var total float64
	for _, song := range songs {
		total += song.Length
	}
	return total
}

// FormatDuration renders a duration in seconds as H:MM:SS, or MM:SS when
// under an hour.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
