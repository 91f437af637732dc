// Package socketio provides the Socket.io server for client communication.
package socketio

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/lyraplayer/lyra-backend/internal/domain/interaction"
	"github.com/lyraplayer/lyra-backend/internal/domain/library"
	"github.com/lyraplayer/lyra-backend/internal/domain/overview"
	"github.com/lyraplayer/lyra-backend/internal/domain/playlist"
)

const (
	// requestTimeout bounds any upstream API call triggered by a client event.
	requestTimeout = 30 * time.Second

	// changeWindow is the debounce window for library change broadcasts.
	changeWindow = 250 * time.Millisecond

	// maxExternalClients limits concurrent non-localhost connections.
	maxExternalClients = 8
)

// Server handles Socket.io connections and events.
type Server struct {
	io           *socket.Server
	lib          *library.Library
	interactions *interaction.Service
	playlists    *playlist.Store
	overview     *overview.Store
	recent       *overview.RecentlyPlayed
	limiter      *ConnectionLimiter
	debouncer    *ChangeDebouncer
	mu           sync.RWMutex
	clients      map[string]*socket.Socket
}

// NewServer creates a new Socket.io server wired to the domain stores.
func NewServer(lib *library.Library, interactions *interaction.Service, playlists *playlist.Store, ov *overview.Store, recent *overview.RecentlyPlayed) (*Server, error) {
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(20 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	server := socket.NewServer(nil, opts)

	s := &Server{
		io:           server,
		lib:          lib,
		interactions: interactions,
		playlists:    playlists,
		overview:     ov,
		recent:       recent,
		limiter:      NewConnectionLimiter(maxExternalClients),
		clients:      make(map[string]*socket.Socket),
	}

	s.debouncer = NewChangeDebouncer(changeWindow, s.broadcastChanged)
	lib.Subscribe(func(change library.Change) {
		s.debouncer.Trigger(change.Kind)
	})

	s.setupHandlers()

	return s, nil
}

// setupHandlers registers all Socket.io event handlers.
func (s *Server) setupHandlers() {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		clientID := string(client.Id())
		remoteIP := clientIP(client)

		allowed, evictedID := s.limiter.TryAdd(clientID, remoteIP)
		if !allowed {
			client.Disconnect(true)
			return
		}
		if evictedID != "" {
			s.mu.RLock()
			evicted := s.clients[evictedID]
			s.mu.RUnlock()
			if evicted != nil {
				log.Warn().Str("id", evictedID).Msg("Evicting oldest external client")
				evicted.Disconnect(true)
			}
		}

		log.Info().Str("id", clientID).Str("ip", remoteIP).Msg("Client connected")

		s.mu.Lock()
		s.clients[clientID] = client
		s.mu.Unlock()

		client.On("disconnect", func(args ...any) {
			reason := ""
			if len(args) > 0 {
				if r, ok := args[0].(string); ok {
					reason = r
				}
			}
			log.Info().Str("id", clientID).Str("reason", reason).Msg("Client disconnected")

			s.limiter.Remove(clientID)
			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()
		})

		// Library listing events
		client.On("library:songs:fetch", func(args ...any) {
			page := intArg(args, "page", 1)
			sort, order := songSortArgs(args)
			log.Debug().Str("id", clientID).Int("page", page).Msg("library:songs:fetch")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			next, err := s.lib.Songs.Fetch(ctx, page, sort, order)
			if err != nil {
				log.Error().Err(err).Msg("Song fetch failed")
				return
			}
			client.Emit("library:songs", map[string]any{
				"songs":    s.lib.Songs.All(),
				"nextPage": next,
			})
		})

		client.On("library:albums:fetch", func(args ...any) {
			page := intArg(args, "page", 1)
			log.Debug().Str("id", clientID).Int("page", page).Msg("library:albums:fetch")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			next, err := s.lib.Albums.Fetch(ctx, page)
			if err != nil {
				log.Error().Err(err).Msg("Album fetch failed")
				return
			}
			client.Emit("library:albums", map[string]any{
				"albums":   s.lib.Albums.All(),
				"nextPage": next,
			})
		})

		client.On("library:artists:fetch", func(args ...any) {
			page := intArg(args, "page", 1)
			log.Debug().Str("id", clientID).Int("page", page).Msg("library:artists:fetch")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			next, err := s.lib.Artists.Fetch(ctx, page)
			if err != nil {
				log.Error().Err(err).Msg("Artist fetch failed")
				return
			}
			client.Emit("library:artists", map[string]any{
				"artists":  s.lib.Artists.All(),
				"nextPage": next,
			})
		})

		// Single entity resolution
		client.On("song:resolve", func(args ...any) {
			id := stringArg(args, "id", "")
			if id == "" {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			song, err := s.lib.Songs.Resolve(ctx, id)
			if err != nil {
				log.Error().Err(err).Str("song", id).Msg("Song resolve failed")
				return
			}
			client.Emit("song", song)
		})

		client.On("album:resolve", func(args ...any) {
			id := int64Arg(args, "id", 0)
			if id == 0 {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			album, err := s.lib.Albums.Resolve(ctx, id)
			if err != nil {
				log.Error().Err(err).Int64("album", id).Msg("Album resolve failed")
				return
			}
			if _, err := s.lib.Songs.FetchForAlbum(ctx, album); err != nil {
				log.Error().Err(err).Int64("album", id).Msg("Album songs fetch failed")
				return
			}
			client.Emit("album", album)
		})

		client.On("artist:resolve", func(args ...any) {
			id := int64Arg(args, "id", 0)
			if id == 0 {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			artist, err := s.lib.Artists.Resolve(ctx, id)
			if err != nil {
				log.Error().Err(err).Int64("artist", id).Msg("Artist resolve failed")
				return
			}
			if _, err := s.lib.Songs.FetchForArtist(ctx, artist); err != nil {
				log.Error().Err(err).Int64("artist", id).Msg("Artist songs fetch failed")
				return
			}
			client.Emit("artist", artist)
		})

		client.On("song:info", func(args ...any) {
			id := stringArg(args, "id", "")
			if id == "" {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			song := s.lib.Songs.ByID(id)
			if song == nil {
				return
			}
			if err := s.lib.Songs.FetchInfo(ctx, song); err != nil {
				log.Error().Err(err).Str("song", id).Msg("Song info fetch failed")
				return
			}
			client.Emit("song:info", map[string]any{
				"id":       song.ID,
				"lyrics":   song.Lyrics,
				"videoUrl": song.VideoURL,
			})
		})

		client.On("album:thumbnail", func(args ...any) {
			id := int64Arg(args, "id", 0)
			if id == 0 {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			album := s.lib.Albums.ByID(id)
			if album == nil {
				return
			}
			url, err := s.lib.Albums.FetchThumbnail(ctx, album)
			if err != nil {
				log.Error().Err(err).Int64("album", id).Msg("Album thumbnail fetch failed")
				return
			}
			client.Emit("album:thumbnail", map[string]any{
				"id":           album.ID,
				"thumbnailUrl": url,
			})
		})

		// Interaction events
		client.On("song:favorite", func(args ...any) {
			id := stringArg(args, "id", "")
			song := s.lib.Songs.ByID(id)
			if song == nil {
				return
			}
			log.Debug().Str("id", clientID).Str("song", id).Msg("song:favorite")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := s.interactions.ToggleLike(ctx, song); err != nil {
				log.Error().Err(err).Str("song", id).Msg("Toggle like failed")
				return
			}
			client.Emit("song", song)
		})

		client.On("song:play", func(args ...any) {
			id := stringArg(args, "id", "")
			song := s.lib.Songs.ByID(id)
			if song == nil {
				return
			}
			log.Debug().Str("id", clientID).Str("song", id).Msg("song:play")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := s.interactions.RegisterPlay(ctx, song); err != nil {
				log.Error().Err(err).Str("song", id).Msg("Register play failed")
				return
			}
			s.recent.Add(song)
			client.Emit("song", song)
		})

		// Playlist events
		client.On("playlist:create", func(args ...any) {
			name := stringArg(args, "name", "")
			if name == "" {
				return
			}
			songs := s.lib.Songs.ByIDs(stringsArg(args, "songs"))
			log.Debug().Str("id", clientID).Str("name", name).Msg("playlist:create")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			pl, err := s.playlists.Create(ctx, name, songs, nil)
			if err != nil {
				log.Error().Err(err).Msg("Playlist create failed")
				return
			}
			client.Emit("playlist", pl)
			client.Emit("playlists", s.playlists.All())
		})

		client.On("playlist:addSongs", func(args ...any) {
			pl := s.playlists.ByID(int64Arg(args, "id", 0))
			if pl == nil {
				return
			}
			songs := s.lib.Songs.ByIDs(stringsArg(args, "songs"))

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := s.playlists.AddSongs(ctx, pl, songs); err != nil {
				log.Error().Err(err).Int64("playlist", pl.ID).Msg("Playlist add songs failed")
				return
			}
			client.Emit("playlist", pl)
		})

		client.On("playlist:removeSongs", func(args ...any) {
			pl := s.playlists.ByID(int64Arg(args, "id", 0))
			if pl == nil {
				return
			}
			songs := s.lib.Songs.ByIDs(stringsArg(args, "songs"))

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := s.playlists.RemoveSongs(ctx, pl, songs); err != nil {
				log.Error().Err(err).Int64("playlist", pl.ID).Msg("Playlist remove songs failed")
				return
			}
			client.Emit("playlist", pl)
		})

		client.On("playlist:songs:fetch", func(args ...any) {
			pl := s.playlists.ByID(int64Arg(args, "id", 0))
			if pl == nil {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			songs, err := s.playlists.FetchSongs(ctx, pl)
			if err != nil {
				log.Error().Err(err).Int64("playlist", pl.ID).Msg("Playlist songs fetch failed")
				return
			}
			client.Emit("playlist:songs", map[string]any{
				"id":    pl.ID,
				"songs": songs,
			})
		})

		client.On("playlist:delete", func(args ...any) {
			pl := s.playlists.ByID(int64Arg(args, "id", 0))
			if pl == nil {
				return
			}
			log.Debug().Str("id", clientID).Int64("playlist", pl.ID).Msg("playlist:delete")

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := s.playlists.Delete(ctx, pl); err != nil {
				log.Error().Err(err).Int64("playlist", pl.ID).Msg("Playlist delete failed")
				return
			}
			client.Emit("playlists", s.playlists.All())
		})

		client.On("playlists:get", func(args ...any) {
			client.Emit("playlists", s.playlists.All())
		})

		// Overview events
		client.On("overview:get", func(args ...any) {
			client.Emit("overview", s.overview.State())
		})

		client.On("recentlyPlayed:fetch", func(args ...any) {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := s.recent.Fetch(ctx); err != nil {
				log.Error().Err(err).Msg("Recently played fetch failed")
				return
			}
			client.Emit("recentlyPlayed", s.recent.All())
		})

		client.On("favorites:get", func(args ...any) {
			client.Emit("favorites", s.interactions.Favorites().All())
		})
	})
}

// broadcastChanged notifies all clients which entity kinds changed.
func (s *Server) broadcastChanged(kinds []library.Kind) {
	s.io.Emit("library:changed", map[string]any{"kinds": kinds})

	if log.Debug().Enabled() {
		s.mu.RLock()
		clientCount := len(s.clients)
		s.mu.RUnlock()
		log.Debug().Interface("kinds", kinds).Int("clients", clientCount).Msg("Broadcast library change")
	}
}

// ServeHTTP implements http.Handler for the Socket.io server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHandler(nil).ServeHTTP(w, r)
}

// Close stops the debouncer and closes the Socket.io server.
func (s *Server) Close() error {
	s.debouncer.Stop()
	s.io.Close(nil)
	return nil
}

// clientIP extracts the remote IP of a connected socket from its handshake.
func clientIP(client *socket.Socket) string {
	if hs := client.Handshake(); hs != nil {
		return hs.Address
	}
	return ""
}

// songSortArgs extracts the sort field and order from event arguments.
// Clients are remote and untrusted, so unknown values fall back to the
// title/ascending default instead of failing the request.
func songSortArgs(args []any) (library.SongSortField, library.SortOrder) {
	sort := library.SongSortField(stringArg(args, "sort", string(library.SortByTitle)))
	order := library.SortOrder(stringArg(args, "order", string(library.SortAsc)))
	if !sort.Valid() {
		sort = library.SortByTitle
	}
	if !order.Valid() {
		order = library.SortAsc
	}
	return sort, order
}

// argMap extracts the first event argument as a string-keyed map.
func argMap(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	m, _ := args[0].(map[string]any)
	return m
}

func stringArg(args []any, key, fallback string) string {
	if m := argMap(args); m != nil {
		if v, ok := m[key].(string); ok {
			return v
		}
	}
	return fallback
}

func intArg(args []any, key string, fallback int) int {
	if m := argMap(args); m != nil {
		if v, ok := m[key].(float64); ok {
			return int(v)
		}
	}
	return fallback
}

func int64Arg(args []any, key string, fallback int64) int64 {
	if m := argMap(args); m != nil {
		if v, ok := m[key].(float64); ok {
			return int64(v)
		}
	}
	return fallback
}

func stringsArg(args []any, key string) []string {
	m := argMap(args)
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
