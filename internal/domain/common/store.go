// Package common loads the bootstrap snapshot the server serves on startup:
// settings, users, the current user, playlists and the current user's
// interaction set.
package common

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lyraplayer/lyra-backend/internal/domain/interaction"
	"github.com/lyraplayer/lyra-backend/internal/domain/playlist"
)

// User is a server-side account.
type User struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	IsAdmin     bool           `json:"is_admin"`
	Preferences map[string]any `json:"preferences"`
}

// Snapshot is the bootstrap payload of GET data.
type Snapshot struct {
	Settings       map[string]any            `json:"settings"`
	CDNURL         string                    `json:"cdnUrl"`
	CurrentVersion string                    `json:"currentVersion"`
	LatestVersion  string                    `json:"latestVersion"`
	AllowDownload  bool                      `json:"allowDownload"`
	UseLastfm      bool                      `json:"useLastfm"`
	UseYouTube     bool                      `json:"useYouTube"`
	Users          []User                    `json:"users"`
	CurrentUser    *User                     `json:"currentUser"`
	Playlists      []playlist.Payload        `json:"playlists"`
	Interactions   []interaction.Interaction `json:"interactions"`
}

// Gateway is the remote surface for the bootstrap snapshot.
type Gateway interface {
	FetchData(ctx context.Context) (*Snapshot, error)
}

// Store owns the bootstrap snapshot and seeds the playlist store from it.
type Store struct {
	gw        Gateway
	playlists *playlist.Store

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewStore creates a bootstrap store.
func NewStore(gw Gateway, playlists *playlist.Store) *Store {
	return &Store{gw: gw, playlists: playlists}
}

// Init fetches the snapshot and initializes dependent stores. The caller is
// expected to feed the returned interaction set to the projector exactly once
// per session.
func (s *Store) Init(ctx context.Context) (*Snapshot, error) {
	snapshot, err := s.gw.FetchData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bootstrap data: %w", err)
	}

	if snapshot.CurrentUser != nil && snapshot.CurrentUser.Preferences == nil {
		snapshot.CurrentUser.Preferences = map[string]any{}
	}

	s.playlists.Init(snapshot.Playlists)

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	log.Info().
		Int("users", len(snapshot.Users)).
		Int("playlists", len(snapshot.Playlists)).
		Int("interactions", len(snapshot.Interactions)).
		Msg("Bootstrap snapshot loaded")
	return snapshot, nil
}

// Snapshot returns the loaded snapshot, or nil before Init.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
