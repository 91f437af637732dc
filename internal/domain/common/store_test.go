package common

import (
	"context"
	"testing"

	"github.com/lyraplayer/lyra-backend/internal/domain/interaction"
	"github.com/lyraplayer/lyra-backend/internal/domain/library"
	"github.com/lyraplayer/lyra-backend/internal/domain/playlist"
)

type fakeGateway struct {
	snapshot Snapshot
}

func (g *fakeGateway) FetchData(context.Context) (*Snapshot, error) {
	snap := g.snapshot
	return &snap, nil
}

// nullLibraryGateway satisfies library.Gateway; common tests never reach it.
type nullLibraryGateway struct{}

func (nullLibraryGateway) ListSongs(context.Context, int, library.SongSortField, library.SortOrder) ([]library.SongPayload, int, error) {
	return nil, library.NoNextPage, nil
}
func (nullLibraryGateway) ListAlbums(context.Context, int) ([]library.AlbumPayload, int, error) {
	return nil, library.NoNextPage, nil
}
func (nullLibraryGateway) ListArtists(context.Context, int) ([]library.ArtistPayload, int, error) {
	return nil, library.NoNextPage, nil
}
func (nullLibraryGateway) GetSong(context.Context, string) (*library.SongPayload, error) {
	return nil, nil
}
func (nullLibraryGateway) GetAlbum(context.Context, int64) (*library.AlbumPayload, error) {
	return nil, nil
}
func (nullLibraryGateway) GetArtist(context.Context, int64) (*library.ArtistPayload, error) {
	return nil, nil
}
func (nullLibraryGateway) AlbumSongs(context.Context, int64) ([]library.SongPayload, error) {
	return nil, nil
}
func (nullLibraryGateway) ArtistSongs(context.Context, int64) ([]library.SongPayload, error) {
	return nil, nil
}
func (nullLibraryGateway) PlaylistSongs(context.Context, int64) ([]library.SongPayload, error) {
	return nil, nil
}
func (nullLibraryGateway) SongInfo(context.Context, string) (*library.SongInfo, error) {
	return nil, nil
}
func (nullLibraryGateway) AlbumThumbnail(context.Context, int64) (string, error) {
	return "", nil
}
func (nullLibraryGateway) UpdateSongs(context.Context, []string, library.SongEdit) (*library.SongUpdateResult, error) {
	return nil, nil
}
func (nullLibraryGateway) UploadAlbumCover(context.Context, int64, string) (string, error) {
	return "", nil
}
func (nullLibraryGateway) UploadArtistImage(context.Context, int64, string) (string, error) {
	return "", nil
}

type nullPlaylistGateway struct{}

func (nullPlaylistGateway) CreatePlaylist(context.Context, string, []string, []playlist.StoredRuleGroup) (*playlist.Payload, error) {
	return nil, nil
}
func (nullPlaylistGateway) UpdatePlaylist(context.Context, int64, string, []playlist.StoredRuleGroup) error {
	return nil
}
func (nullPlaylistGateway) SyncPlaylistSongs(context.Context, int64, []string) error {
	return nil
}
func (nullPlaylistGateway) DeletePlaylist(context.Context, int64) error {
	return nil
}

func TestInitSeedsPlaylistsAndStoresSnapshot(t *testing.T) {
	lib := library.New(nullLibraryGateway{})
	playlists := playlist.NewStore(nullPlaylistGateway{}, lib.Songs)

	gw := &fakeGateway{snapshot: Snapshot{
		CDNURL:      "https://cdn.example.com",
		CurrentUser: &User{ID: 1, Name: "ada"},
		Playlists: []playlist.Payload{
			{ID: 1, Name: "zulu"},
			{ID: 2, Name: "alpha", IsSmart: true, Rules: []playlist.StoredRuleGroup{{ID: 1}}},
		},
		Interactions: []interaction.Interaction{{SongID: "s1", PlayCount: 3}},
	}}

	store := NewStore(gw, playlists)
	snapshot, err := store.Init(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if snapshot.CDNURL != "https://cdn.example.com" {
		t.Errorf("snapshot not returned: %+v", snapshot)
	}
	if store.Snapshot() != snapshot {
		t.Error("stored snapshot differs from the returned one")
	}
	if snapshot.CurrentUser.Preferences == nil {
		t.Error("missing preferences not defaulted to an empty map")
	}

	all := playlists.All()
	if len(all) != 2 || !all[0].IsSmart {
		t.Errorf("playlists not seeded smart-first: %d entries", len(all))
	}
	if len(snapshot.Interactions) != 1 {
		t.Errorf("interaction set lost: %d", len(snapshot.Interactions))
	}
}

func TestSnapshotNilBeforeInit(t *testing.T) {
	lib := library.New(nullLibraryGateway{})
	playlists := playlist.NewStore(nullPlaylistGateway{}, lib.Songs)
	store := NewStore(&fakeGateway{}, playlists)

	if store.Snapshot() != nil {
		t.Error("expected nil snapshot before Init")
	}
}
