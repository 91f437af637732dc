// Package library holds the canonical in-memory view of the remote media
// server's songs, albums and artists. Each kind has a vault (the single source
// of truth per id) and an ordered view for listing UIs; all server data enters
// through SyncWithVault so every consumer shares the same instances.
package library

// Kind identifies an entity kind.
type Kind string

const (
	KindSong   Kind = "song"
	KindAlbum  Kind = "album"
	KindArtist Kind = "artist"
)

// PlaybackState is the playback status of a single song.
type PlaybackState string

const (
	PlaybackStopped PlaybackState = "Stopped"
	PlaybackPlaying PlaybackState = "Playing"
	PlaybackPaused  PlaybackState = "Paused"
)

// Reserved server-side identities.
const (
	UnknownAlbumID   int64 = 1
	UnknownArtistID  int64 = 1
	VariousArtistsID int64 = 2
)

// NoNextPage is returned by Fetch when the server reports no further pages.
// Pages are 1-based, so zero never collides with a real page number.
const NoNextPage = 0

// SortOrder is the direction of a sorted listing request.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether the order is one the server contract accepts.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// SongSortField is a sortable column of the song listing.
type SongSortField string

const (
	SortByTitle      SongSortField = "title"
	SortByAlbumName  SongSortField = "album_name"
	SortByArtistName SongSortField = "artist_name"
	SortByTrack      SongSortField = "track"
	SortByLength     SongSortField = "length"
	SortByCreatedAt  SongSortField = "created_at"
)

// Valid reports whether the field is one the server contract accepts.
func (f SongSortField) Valid() bool {
	switch f {
	case SortByTitle, SortByAlbumName, SortByArtistName, SortByTrack, SortByLength, SortByCreatedAt:
		return true
	}
	return false
}

// Song is the canonical representation of a single song. Album and artist are
// referenced by id, with denormalized display fields alongside.
type Song struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Lyrics        string        `json:"lyrics"`
	AlbumID       int64         `json:"albumId"`
	AlbumName     string        `json:"albumName"`
	AlbumCover    string        `json:"albumCover"`
	ArtistID      int64         `json:"artistId"`
	ArtistName    string        `json:"artistName"`
	Length        float64       `json:"length"`
	Track         int           `json:"track"`
	Disc          int           `json:"disc"`
	Liked         bool          `json:"liked"`
	PlayCount     int           `json:"playCount"`
	CreatedAt     string        `json:"createdAt"`
	PlaybackState PlaybackState `json:"playbackState"`

	// PlayStartTime is the Unix timestamp of the current playback start,
	// reported when scrobbling.
	PlayStartTime int64 `json:"playStartTime,omitempty"`

	// InfoRetrieved marks that the lazily-loaded extended info (full lyrics,
	// video link) has been fetched for this song.
	InfoRetrieved bool   `json:"-"`
	VideoURL      string `json:"videoUrl,omitempty"`
}

// Album is the canonical representation of an album. Length, PlayCount and
// SongCount are aggregates over the constituent songs.
type Album struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Cover         string  `json:"cover"`
	ArtistID      int64   `json:"artistId"`
	ArtistName    string  `json:"artistName"`
	IsCompilation bool    `json:"isCompilation"`
	Length        float64 `json:"length"`
	PlayCount     int     `json:"playCount"`
	SongCount     int     `json:"songCount"`
	CreatedAt     string  `json:"createdAt"`
	Songs         []*Song `json:"songs"`

	// Thumbnail is loaded lazily via AlbumStore.FetchThumbnail.
	Thumbnail          string `json:"thumbnail,omitempty"`
	ThumbnailRetrieved bool   `json:"-"`
}

// Artist is the canonical representation of an artist.
type Artist struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Image      string   `json:"image"`
	Length     float64  `json:"length"`
	PlayCount  int      `json:"playCount"`
	SongCount  int      `json:"songCount"`
	AlbumCount int      `json:"albumCount"`
	CreatedAt  string   `json:"createdAt"`
	Albums     []*Album `json:"albums"`
	Songs      []*Song  `json:"songs"`
}

// SongPayload is the wire representation of a song as returned by the server.
// Scalar fields are pointers so that a field absent from the payload is
// distinguishable from a zero value: nil preserves the vaulted value, non-nil
// overwrites it.
type SongPayload struct {
	ID         string   `json:"id"`
	Title      *string  `json:"title"`
	Lyrics     *string  `json:"lyrics"`
	AlbumID    *int64   `json:"albumId"`
	AlbumName  *string  `json:"albumName"`
	AlbumCover *string  `json:"albumCover"`
	ArtistID   *int64   `json:"artistId"`
	ArtistName *string  `json:"artistName"`
	Length     *float64 `json:"length"`
	Track      *int     `json:"track"`
	Disc       *int     `json:"disc"`
	Liked      *bool    `json:"liked"`
	PlayCount  *int     `json:"playCount"`
	CreatedAt  *string  `json:"createdAt"`
}

// AlbumPayload is the wire representation of an album. The Songs field never
// travels on the wire; it carries canonical song references when an internal
// caller merges an updated constituent list, and follows the list rule: nil
// preserves, non-nil replaces wholesale.
type AlbumPayload struct {
	ID            int64    `json:"id"`
	Name          *string  `json:"name"`
	Cover         *string  `json:"cover"`
	ArtistID      *int64   `json:"artistId"`
	ArtistName    *string  `json:"artistName"`
	IsCompilation *bool    `json:"isCompilation"`
	Length        *float64 `json:"length"`
	PlayCount     *int     `json:"playCount"`
	SongCount     *int     `json:"songCount"`
	CreatedAt     *string  `json:"createdAt"`
	Songs         []*Song  `json:"-"`
}

// ArtistPayload is the wire representation of an artist. See AlbumPayload for
// the Songs/Albums field semantics.
type ArtistPayload struct {
	ID         int64    `json:"id"`
	Name       *string  `json:"name"`
	Image      *string  `json:"image"`
	Length     *float64 `json:"length"`
	PlayCount  *int     `json:"playCount"`
	SongCount  *int     `json:"songCount"`
	AlbumCount *int     `json:"albumCount"`
	CreatedAt  *string  `json:"createdAt"`
	Albums     []*Album `json:"-"`
	Songs      []*Song  `json:"-"`
}

// SongInfo is the lazily-loaded extended information for a song.
type SongInfo struct {
	Lyrics   string `json:"lyrics"`
	VideoURL string `json:"videoUrl"`
}

// SongEdit is the metadata applied to songs in a bulk update.
type SongEdit struct {
	Title         string `json:"title,omitempty"`
	AlbumName     string `json:"album_name,omitempty"`
	ArtistName    string `json:"artist_name,omitempty"`
	Lyrics        string `json:"lyrics,omitempty"`
	Track         int    `json:"track,omitempty"`
	Disc          int    `json:"disc,omitempty"`
	IsCompilation bool   `json:"is_compilation,omitempty"`
}

// SongUpdateResult is the server response to a bulk song update: the updated
// songs plus any albums and artists created by the re-tag.
type SongUpdateResult struct {
	Songs   []SongPayload   `json:"songs"`
	Albums  []AlbumPayload  `json:"albums"`
	Artists []ArtistPayload `json:"artists"`
}
