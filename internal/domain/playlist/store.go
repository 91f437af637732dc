package playlist

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// Playlist is a named, ordered set of songs. Smart playlists carry a rule
// tree instead; their membership is computed by the server, never edited
// directly.
type Playlist struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsSmart bool   `json:"isSmart"`

	Rules []*RuleGroup    `json:"rules,omitempty"`
	Songs []*library.Song `json:"songs"`

	// Populated marks that the song list has been loaded; until then the
	// list is empty, not known-empty.
	Populated bool `json:"-"`
}

// Payload is the wire representation of a playlist.
type Payload struct {
	ID      int64             `json:"id"`
	Name    string            `json:"name"`
	IsSmart bool              `json:"is_smart"`
	Rules   []StoredRuleGroup `json:"rules"`
}

// Gateway is the remote surface for playlist persistence.
type Gateway interface {
	CreatePlaylist(ctx context.Context, name string, songIDs []string, rules []StoredRuleGroup) (*Payload, error)
	UpdatePlaylist(ctx context.Context, id int64, name string, rules []StoredRuleGroup) error
	SyncPlaylistSongs(ctx context.Context, id int64, songIDs []string) error
	DeletePlaylist(ctx context.Context, id int64) error
}

// Store manages the user's playlists.
type Store struct {
	gw    Gateway
	songs *library.SongStore

	mu        sync.RWMutex
	playlists []*Playlist
}

// NewStore creates a playlist store over the given gateway and song store.
func NewStore(gw Gateway, songs *library.SongStore) *Store {
	return &Store{gw: gw, songs: songs}
}

// Init loads the playlists from their wire form: smart playlists first, then
// alphabetically by name, each smart rule tree hydrated against the registry.
func (s *Store) Init(payloads []Payload) {
	playlists := make([]*Playlist, 0, len(payloads))
	for _, p := range payloads {
		playlists = append(playlists, s.setup(p))
	}

	s.mu.Lock()
	s.playlists = sortPlaylists(playlists)
	s.mu.Unlock()

	log.Debug().Int("count", len(playlists)).Msg("Initialized playlists")
}

// setup builds the runtime playlist from its wire form. Song lists start
// empty and unpopulated; they are loaded lazily on demand.
func (s *Store) setup(p Payload) *Playlist {
	pl := &Playlist{
		ID:      p.ID,
		Name:    p.Name,
		IsSmart: p.IsSmart,
		Songs:   []*library.Song{},
	}
	if pl.IsSmart {
		pl.Rules = HydrateRules(p.Rules, p.Name, p.ID)
	}
	return pl
}

// All returns a snapshot of the playlists in display order.
func (s *Store) All() []*Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}

// ByID returns the playlist with the given id, or nil.
func (s *Store) ByID(id int64) *Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pl := range s.playlists {
		if pl.ID == id {
			return pl
		}
	}
	return nil
}

// Add inserts playlists into the store, keeping the display order.
func (s *Store) Add(playlists ...*Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pl := range playlists {
		if !s.contains(pl) {
			s.playlists = append(s.playlists, pl)
		}
	}
	s.playlists = sortPlaylists(s.playlists)
}

// Remove drops playlists from the store.
func (s *Store) Remove(playlists ...*Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pl := range playlists {
		for i, cur := range s.playlists {
			if cur == pl {
				s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) contains(pl *Playlist) bool {
	for _, cur := range s.playlists {
		if cur == pl {
			return true
		}
	}
	return false
}

// Create persists a new playlist on the server and adds it to the store. The
// given songs become its content; rules make it a smart playlist.
func (s *Store) Create(ctx context.Context, name string, songs []*library.Song, rules []*RuleGroup) (*Playlist, error) {
	payload, err := s.gw.CreatePlaylist(ctx, name, songIDs(songs), SerializeRulesForStorage(rules))
	if err != nil {
		return nil, fmt.Errorf("create playlist %q: %w", name, err)
	}

	pl := s.setup(*payload)
	pl.Songs = songs
	pl.Populated = true
	s.Add(pl)
	return pl, nil
}

// Update persists the playlist's name and rule tree.
func (s *Store) Update(ctx context.Context, pl *Playlist) error {
	if err := s.gw.UpdatePlaylist(ctx, pl.ID, pl.Name, SerializeRulesForStorage(pl.Rules)); err != nil {
		return fmt.Errorf("update playlist %d: %w", pl.ID, err)
	}
	return nil
}

// Delete removes the playlist from the server and the store.
func (s *Store) Delete(ctx context.Context, pl *Playlist) error {
	if err := s.gw.DeletePlaylist(ctx, pl.ID); err != nil {
		return fmt.Errorf("delete playlist %d: %w", pl.ID, err)
	}
	s.Remove(pl)
	return nil
}

// FetchSongs loads the playlist's songs as canonical references and marks it
// populated.
func (s *Store) FetchSongs(ctx context.Context, pl *Playlist) ([]*library.Song, error) {
	songs, err := s.songs.FetchForPlaylist(ctx, pl.ID)
	if err != nil {
		return nil, err
	}

	pl.Songs = songs
	pl.Populated = true
	return songs, nil
}

// PopulateContent objectifies a playlist whose content is known only as song
// ids, resolving them to canonical references. Unloaded ids are skipped.
func (s *Store) PopulateContent(pl *Playlist, ids []string) {
	pl.Songs = s.songs.ByIDs(ids)
	pl.Populated = true
}

// AddSongs unions songs into a regular playlist. Smart playlists are
// untouched: their membership is rule-derived. The sync request is only
// issued when the union actually grew the song set.
func (s *Store) AddSongs(ctx context.Context, pl *Playlist, songs []*library.Song) error {
	if pl.IsSmart {
		return nil
	}

	if !pl.Populated {
		if _, err := s.FetchSongs(ctx, pl); err != nil {
			return err
		}
	}

	before := len(pl.Songs)
	pl.Songs = unionSongs(pl.Songs, songs)
	if len(pl.Songs) == before {
		return nil
	}

	if err := s.gw.SyncPlaylistSongs(ctx, pl.ID, songIDs(pl.Songs)); err != nil {
		return fmt.Errorf("sync playlist %d: %w", pl.ID, err)
	}
	return nil
}

// RemoveSongs removes songs from a regular playlist and syncs the result.
// Smart playlists are untouched.
func (s *Store) RemoveSongs(ctx context.Context, pl *Playlist, songs []*library.Song) error {
	if pl.IsSmart {
		return nil
	}

	pl.Songs = differenceSongs(pl.Songs, songs)

	if err := s.gw.SyncPlaylistSongs(ctx, pl.ID, songIDs(pl.Songs)); err != nil {
		return fmt.Errorf("sync playlist %d: %w", pl.ID, err)
	}
	return nil
}

// sortPlaylists orders smart playlists first, then alphabetically by name.
func sortPlaylists(playlists []*Playlist) []*Playlist {
	sort.SliceStable(playlists, func(i, j int) bool {
		if playlists[i].IsSmart != playlists[j].IsSmart {
			return playlists[i].IsSmart
		}
		return strings.ToLower(playlists[i].Name) < strings.ToLower(playlists[j].Name)
	})
	return playlists
}

func songIDs(songs []*library.Song) []string {
	ids := make([]string, len(songs))
	for i, song := range songs {
		ids[i] = song.ID
	}
	return ids
}

func unionSongs(existing, incoming []*library.Song) []*library.Song {
	seen := make(map[string]struct{}, len(existing))
	for _, song := range existing {
		seen[song.ID] = struct{}{}
	}
	out := existing
	for _, song := range incoming {
		if _, ok := seen[song.ID]; !ok {
			seen[song.ID] = struct{}{}
			out = append(out, song)
		}
	}
	return out
}

func differenceSongs(existing, toRemove []*library.Song) []*library.Song {
	drop := make(map[string]struct{}, len(toRemove))
	for _, song := range toRemove {
		drop[song.ID] = struct{}{}
	}
	out := make([]*library.Song, 0, len(existing))
	for _, song := range existing {
		if _, ok := drop[song.ID]; !ok {
			out = append(out, song)
		}
	}
	return out
}
