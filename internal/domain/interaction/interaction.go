// Package interaction folds the current user's per-song interaction records
// (play counts, likes) into the cached library and keeps the favorites view.
package interaction

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// Interaction is a per-user, per-song record as served by the server.
type Interaction struct {
	SongID    string `json:"songId"`
	Liked     bool   `json:"liked"`
	PlayCount int    `json:"playCount"`
}

// Gateway is the remote surface for interaction mutations.
type Gateway interface {
	RegisterPlay(ctx context.Context, songID string) (*Interaction, error)
	ToggleLike(ctx context.Context, songID string) (*Interaction, error)
	Scrobble(ctx context.Context, songID string, timestamp int64) error
}

// Favorites is the ordered view of liked songs.
type Favorites struct {
	mu    sync.RWMutex
	songs []*library.Song
}

// All returns a snapshot of the favorites view.
func (f *Favorites) All() []*library.Song {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*library.Song, len(f.songs))
	copy(out, f.songs)
	return out
}

// Add registers songs into the view, skipping ones already present.
func (f *Favorites) Add(songs ...*library.Song) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, song := range songs {
		if !f.contains(song) {
			f.songs = append(f.songs, song)
		}
	}
}

// Remove drops songs from the view.
func (f *Favorites) Remove(songs ...*library.Song) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, song := range songs {
		for i, cur := range f.songs {
			if cur == song {
				f.songs = append(f.songs[:i], f.songs[i+1:]...)
				break
			}
		}
	}
}

// Clear empties the view.
func (f *Favorites) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.songs = nil
}

func (f *Favorites) contains(song *library.Song) bool {
	for _, cur := range f.songs {
		if cur == song {
			return true
		}
	}
	return false
}

// Service projects interaction records into the library and talks to the
// server for play registration, scrobbling and like toggling.
type Service struct {
	lib       *library.Library
	gw        Gateway
	favorites *Favorites
}

// NewService creates an interaction service over the given library.
func NewService(lib *library.Library, gw Gateway) *Service {
	return &Service{
		lib:       lib,
		gw:        gw,
		favorites: &Favorites{},
	}
}

// Favorites returns the favorites view.
func (s *Service) Favorites() *Favorites {
	return s.favorites
}

// InitInteractions folds the loaded interaction set into the cached songs:
// liked flag and play count are set on each song, the song's play count is
// added into its album's and artist's aggregate play counts, and liked songs
// are registered into the favorites view. Songs not yet loaded are skipped
// silently.
//
// The projection is additive and expected to run exactly once per loaded
// interaction set per session; invoking it again over the same set
// double-counts the album and artist aggregates.
func (s *Service) InitInteractions(interactions []Interaction) {
	s.favorites.Clear()

	projected := 0
	for _, in := range interactions {
		song := s.lib.Songs.ByID(in.SongID)
		if song == nil {
			continue
		}

		song.Liked = in.Liked
		song.PlayCount = in.PlayCount

		if album := s.lib.Albums.ByID(song.AlbumID); album != nil {
			album.PlayCount += song.PlayCount
		}
		if artist := s.lib.Artists.ByID(song.ArtistID); artist != nil {
			artist.PlayCount += song.PlayCount
		}

		if song.Liked {
			s.favorites.Add(song)
		}
		projected++
	}

	log.Debug().Int("total", len(interactions)).Int("projected", projected).Msg("Projected interactions")
}

// RegisterPlay reports a play to the server and applies the authoritative
// count from the response, so plays from other devices are not lost.
func (s *Service) RegisterPlay(ctx context.Context, song *library.Song) error {
	in, err := s.gw.RegisterPlay(ctx, song.ID)
	if err != nil {
		return fmt.Errorf("register play for song %s: %w", song.ID, err)
	}

	song.PlayCount = in.PlayCount
	return nil
}

// ToggleLike flips the liked state of a song on the server and synchronizes
// the favorites view with the response.
func (s *Service) ToggleLike(ctx context.Context, song *library.Song) error {
	in, err := s.gw.ToggleLike(ctx, song.ID)
	if err != nil {
		return fmt.Errorf("toggle like for song %s: %w", song.ID, err)
	}

	song.Liked = in.Liked
	if song.Liked {
		s.favorites.Add(song)
	} else {
		s.favorites.Remove(song)
	}
	return nil
}

// Scrobble reports the song's current play to the scrobbling backend.
func (s *Service) Scrobble(ctx context.Context, song *library.Song) error {
	if err := s.gw.Scrobble(ctx, song.ID, song.PlayStartTime); err != nil {
		return fmt.Errorf("scrobble song %s: %w", song.ID, err)
	}
	return nil
}
