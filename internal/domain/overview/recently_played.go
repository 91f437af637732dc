package overview

import (
	"context"
	"fmt"
	"sync"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// excerptCount is the number of entries shown in the sidebar excerpt.
const excerptCount = 7

// RecentlyPlayed is the most-recent-first play history view, with a capped
// excerpt for the sidebar.
type RecentlyPlayed struct {
	songs *library.SongStore
	gw    Gateway

	mu      sync.RWMutex
	full    []*library.Song
	excerpt []*library.Song
}

// NewRecentlyPlayed creates the recently played view.
func NewRecentlyPlayed(songs *library.SongStore, gw Gateway) *RecentlyPlayed {
	return &RecentlyPlayed{songs: songs, gw: gw}
}

// Fetch loads the full history from the server through the vault.
func (r *RecentlyPlayed) Fetch(ctx context.Context) error {
	payloads, err := r.gw.ListRecentlyPlayed(ctx)
	if err != nil {
		return fmt.Errorf("fetch recently played: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.full = r.songs.SyncWithVault(payloads)
	return nil
}

// Add moves a song to the front of both views, removing any earlier entry
// for it first, and trims the excerpt to its cap.
func (r *RecentlyPlayed) Add(song *library.Song) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.full = pushFront(r.full, song)
	r.excerpt = pushFront(r.excerpt, song)
	if len(r.excerpt) > excerptCount {
		r.excerpt = r.excerpt[:excerptCount]
	}
}

// All returns a snapshot of the full history.
func (r *RecentlyPlayed) All() []*library.Song {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*library.Song, len(r.full))
	copy(out, r.full)
	return out
}

// Excerpt returns a snapshot of the capped excerpt.
func (r *RecentlyPlayed) Excerpt() []*library.Song {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*library.Song, len(r.excerpt))
	copy(out, r.excerpt)
	return out
}

func pushFront(songs []*library.Song, song *library.Song) []*library.Song {
	out := make([]*library.Song, 0, len(songs)+1)
	out = append(out, song)
	for _, cur := range songs {
		if cur.ID != song.ID {
			out = append(out, cur)
		}
	}
	return out
}
