// Package overview holds the home-screen views: top and recently added
// lists, plus the recently played history. Everything passes through the
// library vaults so these views alias the same canonical instances as every
// other screen.
package overview

import (
	"context"
	"fmt"
	"sync"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// Payload is the wire form of the overview snapshot.
type Payload struct {
	MostPlayedSongs     []library.SongPayload   `json:"mostPlayedSongs"`
	RecentlyPlayedSongs []library.SongPayload   `json:"recentlyPlayedSongs"`
	RecentlyAddedSongs  []library.SongPayload   `json:"recentlyAddedSongs"`
	RecentlyAddedAlbums []library.AlbumPayload  `json:"recentlyAddedAlbums"`
	TopAlbums           []library.AlbumPayload  `json:"topAlbums"`
	TopArtists          []library.ArtistPayload `json:"topArtists"`
}

// Gateway is the remote surface for the overview views.
type Gateway interface {
	FetchOverview(ctx context.Context) (*Payload, error)
	ListRecentlyPlayed(ctx context.Context) ([]library.SongPayload, error)
}

// State is the synchronized overview content, built of canonical references.
type State struct {
	MostPlayedSongs     []*library.Song
	RecentlyPlayedSongs []*library.Song
	RecentlyAddedSongs  []*library.Song
	RecentlyAddedAlbums []*library.Album
	TopAlbums           []*library.Album
	TopArtists          []*library.Artist
}

// Store fetches and holds the overview state.
type Store struct {
	lib *library.Library
	gw  Gateway

	mu    sync.RWMutex
	state State
}

// NewStore creates an overview store over the given library.
func NewStore(lib *library.Library, gw Gateway) *Store {
	return &Store{lib: lib, gw: gw}
}

// Init fetches the overview snapshot and synchronizes every list through the
// vaults.
func (s *Store) Init(ctx context.Context) error {
	payload, err := s.gw.FetchOverview(ctx)
	if err != nil {
		return fmt.Errorf("fetch overview: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		MostPlayedSongs:     s.lib.Songs.SyncWithVault(payload.MostPlayedSongs),
		RecentlyPlayedSongs: s.lib.Songs.SyncWithVault(payload.RecentlyPlayedSongs),
		RecentlyAddedSongs:  s.lib.Songs.SyncWithVault(payload.RecentlyAddedSongs),
		RecentlyAddedAlbums: s.lib.Albums.SyncWithVault(payload.RecentlyAddedAlbums),
		TopAlbums:           s.lib.Albums.SyncWithVault(payload.TopAlbums),
		TopArtists:          s.lib.Artists.SyncWithVault(payload.TopArtists),
	}
	return nil
}

// State returns the current overview state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
