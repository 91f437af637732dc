package library

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Library groups one store per entity kind around a shared gateway. It is
// constructed once at startup and injected into every component that needs
// entity access, so no process-wide singleton state exists.
type Library struct {
	gw Gateway

	Songs   *SongStore
	Albums  *AlbumStore
	Artists *ArtistStore
}

// New creates a library backed by the given gateway.
func New(gw Gateway) *Library {
	return &Library{
		gw:      gw,
		Songs:   newSongStore(gw),
		Albums:  newAlbumStore(gw),
		Artists: newArtistStore(gw),
	}
}

// Subscribe registers a change callback on all three stores.
func (l *Library) Subscribe(fn func(Change)) {
	l.Songs.Subscribe(fn)
	l.Albums.Subscribe(fn)
	l.Artists.Subscribe(fn)
}

// UpdateSongs applies a bulk metadata edit to the given songs. The server
// answers with the updated songs plus any albums and artists the re-tag
// created; new ones are synchronized and added to their views, the updated
// song payloads are merged into the vault, and the album and artist stores
// are compacted since the edit may have emptied some of them.
func (l *Library) UpdateSongs(ctx context.Context, songs []*Song, edit SongEdit) error {
	ids := make([]string, len(songs))
	for i, song := range songs {
		ids[i] = song.ID
	}

	result, err := l.gw.UpdateSongs(ctx, ids, edit)
	if err != nil {
		return fmt.Errorf("update %d songs: %w", len(songs), err)
	}

	for _, p := range result.Artists {
		if l.Artists.ByID(p.ID) == nil {
			l.Artists.Add(l.Artists.SyncOne(p))
		}
	}
	for _, p := range result.Albums {
		if l.Albums.ByID(p.ID) == nil {
			l.Albums.Add(l.Albums.SyncOne(p))
		}
	}
	for _, p := range result.Songs {
		l.Songs.SyncOne(p)
	}

	l.Artists.Compact()
	l.Albums.Compact()

	log.Debug().Int("songs", len(result.Songs)).Msg("Applied bulk song update")
	return nil
}
