package library

import (
	"context"
	"errors"
	"testing"
)

// fakeGateway is an in-memory Gateway with per-method call counters.
type fakeGateway struct {
	songPages   map[int][]SongPayload
	albumPages  map[int][]AlbumPayload
	artistPages map[int][]ArtistPayload
	lastPage    int

	songsByID     map[string]SongPayload
	albumSongs    map[int64][]SongPayload
	artistSongs   map[int64][]SongPayload
	playlistSongs map[int64][]SongPayload
	infoByID      map[string]SongInfo

	updateResult *SongUpdateResult
	thumbnailURL string

	listSongsCalls   int
	getSongCalls     int
	getAlbumCalls    int
	getArtistCalls   int
	songInfoCalls    int
	thumbnailCalls   int
	updateSongsCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		songPages:     make(map[int][]SongPayload),
		albumPages:    make(map[int][]AlbumPayload),
		artistPages:   make(map[int][]ArtistPayload),
		songsByID:     make(map[string]SongPayload),
		albumSongs:    make(map[int64][]SongPayload),
		artistSongs:   make(map[int64][]SongPayload),
		playlistSongs: make(map[int64][]SongPayload),
		infoByID:      make(map[string]SongInfo),
	}
}

func (g *fakeGateway) next(page int) int {
	if page >= g.lastPage {
		return NoNextPage
	}
	return page + 1
}

func (g *fakeGateway) ListSongs(_ context.Context, page int, _ SongSortField, _ SortOrder) ([]SongPayload, int, error) {
	g.listSongsCalls++
	return g.songPages[page], g.next(page), nil
}

func (g *fakeGateway) ListAlbums(_ context.Context, page int) ([]AlbumPayload, int, error) {
	return g.albumPages[page], g.next(page), nil
}

func (g *fakeGateway) ListArtists(_ context.Context, page int) ([]ArtistPayload, int, error) {
	return g.artistPages[page], g.next(page), nil
}

func (g *fakeGateway) GetSong(_ context.Context, id string) (*SongPayload, error) {
	g.getSongCalls++
	p, ok := g.songsByID[id]
	if !ok {
		return nil, errors.New("song not found")
	}
	return &p, nil
}

func (g *fakeGateway) GetAlbum(_ context.Context, id int64) (*AlbumPayload, error) {
	g.getAlbumCalls++
	return &AlbumPayload{ID: id, Name: ptr("fetched album")}, nil
}

func (g *fakeGateway) GetArtist(_ context.Context, id int64) (*ArtistPayload, error) {
	g.getArtistCalls++
	return &ArtistPayload{ID: id, Name: ptr("fetched artist")}, nil
}

func (g *fakeGateway) AlbumSongs(_ context.Context, albumID int64) ([]SongPayload, error) {
	return g.albumSongs[albumID], nil
}

func (g *fakeGateway) ArtistSongs(_ context.Context, artistID int64) ([]SongPayload, error) {
	return g.artistSongs[artistID], nil
}

func (g *fakeGateway) PlaylistSongs(_ context.Context, playlistID int64) ([]SongPayload, error) {
	return g.playlistSongs[playlistID], nil
}

func (g *fakeGateway) SongInfo(_ context.Context, songID string) (*SongInfo, error) {
	g.songInfoCalls++
	info := g.infoByID[songID]
	return &info, nil
}

func (g *fakeGateway) AlbumThumbnail(_ context.Context, _ int64) (string, error) {
	g.thumbnailCalls++
	return g.thumbnailURL, nil
}

func (g *fakeGateway) UpdateSongs(_ context.Context, _ []string, _ SongEdit) (*SongUpdateResult, error) {
	g.updateSongsCalls++
	if g.updateResult == nil {
		return &SongUpdateResult{}, nil
	}
	return g.updateResult, nil
}

func (g *fakeGateway) UploadAlbumCover(_ context.Context, _ int64, _ string) (string, error) {
	return "https://cdn.example.com/cover.jpg", nil
}

func (g *fakeGateway) UploadArtistImage(_ context.Context, _ int64, _ string) (string, error) {
	return "https://cdn.example.com/artist.jpg", nil
}

func songPayload(id, title string) SongPayload {
	return SongPayload{ID: id, Title: ptr(title)}
}

func TestSongFetchPagination(t *testing.T) {
	gw := newFakeGateway()
	gw.songPages[1] = []SongPayload{songPayload("s1", "one"), songPayload("s2", "two")}
	gw.songPages[2] = []SongPayload{songPayload("s3", "three")}
	gw.lastPage = 2

	lib := New(gw)

	next, err := lib.Songs.Fetch(context.Background(), 1, SortByTitle, SortAsc)
	if err != nil {
		t.Fatalf("fetch page 1: %v", err)
	}
	if next != 2 {
		t.Errorf("expected next page 2, got %d", next)
	}
	if lib.Songs.Len() != 2 {
		t.Errorf("expected 2 songs in view, got %d", lib.Songs.Len())
	}

	next, err = lib.Songs.Fetch(context.Background(), 2, SortByTitle, SortAsc)
	if err != nil {
		t.Fatalf("fetch page 2: %v", err)
	}
	if next != NoNextPage {
		t.Errorf("expected terminal page marker, got %d", next)
	}
	if lib.Songs.Len() != 3 {
		t.Errorf("expected 3 songs in view, got %d", lib.Songs.Len())
	}
}

func TestSongFetchSamePageTwiceDoesNotDuplicate(t *testing.T) {
	gw := newFakeGateway()
	gw.songPages[1] = []SongPayload{songPayload("s1", "one"), songPayload("s2", "two")}
	gw.lastPage = 1

	lib := New(gw)

	if _, err := lib.Songs.Fetch(context.Background(), 1, SortByTitle, SortAsc); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Songs.Fetch(context.Background(), 1, SortByTitle, SortAsc); err != nil {
		t.Fatal(err)
	}

	if lib.Songs.Len() != 2 {
		t.Errorf("refetching a page duplicated view entries: %d", lib.Songs.Len())
	}
	if gw.listSongsCalls != 2 {
		t.Errorf("expected 2 gateway calls, got %d", gw.listSongsCalls)
	}
}

func TestSongResolveCachedMakesNoNetworkCall(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	cached := lib.Songs.SyncOne(songPayload("s1", "cached"))

	got, err := lib.Songs.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got != cached {
		t.Error("resolve returned a different instance than the cached one")
	}
	if gw.getSongCalls != 0 {
		t.Errorf("cache hit still hit the network %d times", gw.getSongCalls)
	}
}

func TestSongResolveMissFetchesOnce(t *testing.T) {
	gw := newFakeGateway()
	gw.songsByID["s1"] = songPayload("s1", "remote")
	lib := New(gw)

	first, err := lib.Songs.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := lib.Songs.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("two resolves returned different instances")
	}
	if gw.getSongCalls != 1 {
		t.Errorf("expected exactly 1 network call, got %d", gw.getSongCalls)
	}
}

func TestFetchForAlbumSharesCanonicalInstances(t *testing.T) {
	gw := newFakeGateway()
	gw.albumSongs[7] = []SongPayload{songPayload("s1", "one")}
	lib := New(gw)

	// The same song already entered through the listing.
	listed := lib.Songs.SyncOne(songPayload("s1", "one"))

	album := lib.Albums.SyncOne(AlbumPayload{ID: 7, Name: ptr("album")})
	songs, err := lib.Songs.FetchForAlbum(context.Background(), album)
	if err != nil {
		t.Fatal(err)
	}

	if len(songs) != 1 || songs[0] != listed {
		t.Error("album song list does not alias the canonical instance")
	}
	if len(album.Songs) != 1 || album.Songs[0] != listed {
		t.Error("album was not attached to the canonical instances")
	}

	// Mutation on the canonical instance is visible through the album.
	listed.PlayCount = 42
	if album.Songs[0].PlayCount != 42 {
		t.Error("mutation not visible through the album alias")
	}
}

func TestAddAndPrependDoNotDeduplicate(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	song := lib.Songs.SyncOne(songPayload("s1", "one"))
	lib.Songs.Add(song)
	lib.Songs.Add(song)
	lib.Songs.Prepend(song)

	if lib.Songs.Len() != 3 {
		t.Errorf("expected 3 view entries (no de-duplication), got %d", lib.Songs.Len())
	}
	all := lib.Songs.All()
	if all[0] != song || all[2] != song {
		t.Error("prepend did not insert at the front")
	}
}

func TestByIDsSkipsAbsent(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	s1 := lib.Songs.SyncOne(songPayload("s1", "one"))
	s3 := lib.Songs.SyncOne(songPayload("s3", "three"))

	got := lib.Songs.ByIDs([]string{"s1", "missing", "s3"})
	if len(got) != 2 || got[0] != s1 || got[1] != s3 {
		t.Errorf("expected [s1 s3], got %d entries", len(got))
	}
}

func TestCompactRemovesEmptyAlbumsInOrder(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	song := lib.Songs.SyncOne(songPayload("s1", "one"))
	a1 := lib.Albums.SyncOne(AlbumPayload{ID: 1, Name: ptr("keep-1"), Songs: []*Song{song}})
	a2 := lib.Albums.SyncOne(AlbumPayload{ID: 2, Name: ptr("drop")})
	a3 := lib.Albums.SyncOne(AlbumPayload{ID: 3, Name: ptr("keep-2"), Songs: []*Song{song}})
	lib.Albums.Add(a1, a2, a3)

	lib.Albums.Compact()

	all := lib.Albums.All()
	if len(all) != 2 || all[0] != a1 || all[1] != a3 {
		t.Fatalf("compact broke view order: %d entries", len(all))
	}
	if lib.Albums.ByID(2) != nil {
		t.Error("compacted album still resolvable by id")
	}
	if lib.Albums.ByID(1) == nil || lib.Albums.ByID(3) == nil {
		t.Error("compact removed a non-empty album from the vault")
	}
}

func TestSongsAreNeverCompacted(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	song := lib.Songs.SyncOne(songPayload("s1", "one"))
	lib.Songs.Add(song)
	lib.Songs.Compact()

	if lib.Songs.Len() != 1 {
		t.Error("compact touched the song view")
	}
}

func TestSubscribeReceivesViewChanges(t *testing.T) {
	gw := newFakeGateway()
	gw.songPages[1] = []SongPayload{songPayload("s1", "one")}
	gw.lastPage = 1
	lib := New(gw)

	var changes []Change
	lib.Subscribe(func(c Change) { changes = append(changes, c) })

	if _, err := lib.Songs.Fetch(context.Background(), 1, SortByTitle, SortAsc); err != nil {
		t.Fatal(err)
	}
	album := lib.Albums.SyncOne(AlbumPayload{ID: 1, Name: ptr("a")})
	lib.Albums.Add(album)

	if len(changes) != 2 {
		t.Fatalf("expected 2 change notifications, got %d", len(changes))
	}
	if changes[0].Kind != KindSong || changes[0].Op != OpFetch {
		t.Errorf("unexpected first change: %+v", changes[0])
	}
	if changes[1].Kind != KindAlbum || changes[1].Op != OpAdd {
		t.Errorf("unexpected second change: %+v", changes[1])
	}
}

func TestFetchInfoIsLazyAndCached(t *testing.T) {
	gw := newFakeGateway()
	gw.infoByID["s1"] = SongInfo{Lyrics: "la la", VideoURL: "https://video.example.com/v"}
	lib := New(gw)

	song := lib.Songs.SyncOne(songPayload("s1", "one"))

	if err := lib.Songs.FetchInfo(context.Background(), song); err != nil {
		t.Fatal(err)
	}
	if song.Lyrics != "la la" || song.VideoURL != "https://video.example.com/v" {
		t.Errorf("info not applied: %+v", song)
	}

	if err := lib.Songs.FetchInfo(context.Background(), song); err != nil {
		t.Fatal(err)
	}
	if gw.songInfoCalls != 1 {
		t.Errorf("expected exactly 1 info fetch, got %d", gw.songInfoCalls)
	}
}

func TestFetchThumbnailIsLazyAndCached(t *testing.T) {
	gw := newFakeGateway()
	gw.thumbnailURL = "https://img.example.com/thumb.jpg"
	lib := New(gw)

	album := lib.Albums.SyncOne(AlbumPayload{ID: 1, Name: ptr("with art")})

	url, err := lib.Albums.FetchThumbnail(context.Background(), album)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://img.example.com/thumb.jpg" {
		t.Errorf("thumbnail = %q, want %q", url, "https://img.example.com/thumb.jpg")
	}
	if album.Thumbnail != url {
		t.Errorf("thumbnail not cached on album: %q", album.Thumbnail)
	}

	if _, err := lib.Albums.FetchThumbnail(context.Background(), album); err != nil {
		t.Fatal(err)
	}
	if gw.thumbnailCalls != 1 {
		t.Errorf("expected exactly 1 thumbnail fetch, got %d", gw.thumbnailCalls)
	}
}

func TestFetchThumbnailCachesEmptyResult(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	album := lib.Albums.SyncOne(AlbumPayload{ID: 2, Name: ptr("no art")})

	for i := 0; i < 2; i++ {
		url, err := lib.Albums.FetchThumbnail(context.Background(), album)
		if err != nil {
			t.Fatal(err)
		}
		if url != "" {
			t.Errorf("thumbnail = %q, want empty", url)
		}
	}
	if gw.thumbnailCalls != 1 {
		t.Errorf("empty thumbnail should be cached, got %d fetches", gw.thumbnailCalls)
	}
}

func TestUpdateSongsSyncsNewEntitiesAndCompacts(t *testing.T) {
	gw := newFakeGateway()
	lib := New(gw)

	song := lib.Songs.SyncOne(SongPayload{ID: "s1", Title: ptr("old"), AlbumID: ptr(int64(1))})
	oldAlbum := lib.Albums.SyncOne(AlbumPayload{ID: 1, Name: ptr("old album"), Songs: []*Song{song}})
	lib.Albums.Add(oldAlbum)

	gw.updateResult = &SongUpdateResult{
		Songs:  []SongPayload{{ID: "s1", Title: ptr("new"), AlbumID: ptr(int64(2)), AlbumName: ptr("new album")}},
		Albums: []AlbumPayload{{ID: 2, Name: ptr("new album"), Songs: []*Song{song}}},
	}
	// The edit moved the only song away from the old album.
	oldAlbum.Songs = nil

	if err := lib.UpdateSongs(context.Background(), []*Song{song}, SongEdit{AlbumName: "new album"}); err != nil {
		t.Fatal(err)
	}

	if song.Title != "new" || song.AlbumID != 2 {
		t.Errorf("song payload not merged: %+v", song)
	}
	if lib.Albums.ByID(2) == nil {
		t.Error("newly created album not synchronized")
	}
	if lib.Albums.ByID(1) != nil {
		t.Error("emptied album survived compaction")
	}
}
