package library

import "context"

// Gateway is the remote media server surface the library depends on.
// Transport-level retries, timeouts and authentication belong to the
// implementation; errors simply propagate to the caller.
type Gateway interface {
	// Paginated listings. The returned int is the next page to request, or
	// NoNextPage when the server reports no further pages.
	ListSongs(ctx context.Context, page int, sort SongSortField, order SortOrder) ([]SongPayload, int, error)
	ListAlbums(ctx context.Context, page int) ([]AlbumPayload, int, error)
	ListArtists(ctx context.Context, page int) ([]ArtistPayload, int, error)

	// Single-resource fetches.
	GetSong(ctx context.Context, id string) (*SongPayload, error)
	GetAlbum(ctx context.Context, id int64) (*AlbumPayload, error)
	GetArtist(ctx context.Context, id int64) (*ArtistPayload, error)

	// Related listings.
	AlbumSongs(ctx context.Context, albumID int64) ([]SongPayload, error)
	ArtistSongs(ctx context.Context, artistID int64) ([]SongPayload, error)
	PlaylistSongs(ctx context.Context, playlistID int64) ([]SongPayload, error)

	// Extras loaded lazily on first access.
	SongInfo(ctx context.Context, songID string) (*SongInfo, error)
	AlbumThumbnail(ctx context.Context, albumID int64) (string, error)

	// Mutations.
	UpdateSongs(ctx context.Context, songIDs []string, edit SongEdit) (*SongUpdateResult, error)
	UploadAlbumCover(ctx context.Context, albumID int64, cover string) (string, error)
	UploadArtistImage(ctx context.Context, artistID int64, image string) (string, error)
}
