package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// paginated is the envelope for list endpoints. A non-null links.next means
// another page exists; meta.current_page numbers pages from 1.
type paginated[P any] struct {
	Data  []P `json:"data"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
	Meta struct {
		CurrentPage int `json:"current_page"`
	} `json:"meta"`
}

// nextPage derives the follow-up page number from the envelope.
func (p *paginated[P]) nextPage() int {
	if p.Links.Next == nil {
		return library.NoNextPage
	}
	return p.Meta.CurrentPage + 1
}

// ListSongs fetches one page of the paginated song listing.
func (c *Client) ListSongs(ctx context.Context, page int, sort library.SongSortField, order library.SortOrder) ([]library.SongPayload, int, error) {
	if !sort.Valid() {
		log.Panic().Str("sort", string(sort)).Msg("invalid song sort field")
	}
	if !order.Valid() {
		log.Panic().Str("order", string(order)).Msg("invalid sort order")
	}

	path := fmt.Sprintf("songs?page=%d&sort=%s&order=%s", page, url.QueryEscape(string(sort)), order)

	var resp paginated[library.SongPayload]
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.nextPage(), nil
}

// ListAlbums fetches one page of the paginated album listing.
func (c *Client) ListAlbums(ctx context.Context, page int) ([]library.AlbumPayload, int, error) {
	var resp paginated[library.AlbumPayload]
	if err := c.get(ctx, fmt.Sprintf("albums?page=%d", page), &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.nextPage(), nil
}

// ListArtists fetches one page of the paginated artist listing.
func (c *Client) ListArtists(ctx context.Context, page int) ([]library.ArtistPayload, int, error) {
	var resp paginated[library.ArtistPayload]
	if err := c.get(ctx, fmt.Sprintf("artists?page=%d", page), &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.nextPage(), nil
}

// GetSong fetches a single song by ID.
func (c *Client) GetSong(ctx context.Context, id string) (*library.SongPayload, error) {
	var payload library.SongPayload
	if err := c.get(ctx, "songs/"+url.PathEscape(id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetAlbum fetches a single album by ID.
func (c *Client) GetAlbum(ctx context.Context, id int64) (*library.AlbumPayload, error) {
	var payload library.AlbumPayload
	if err := c.get(ctx, fmt.Sprintf("albums/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetArtist fetches a single artist by ID.
func (c *Client) GetArtist(ctx context.Context, id int64) (*library.ArtistPayload, error) {
	var payload library.ArtistPayload
	if err := c.get(ctx, fmt.Sprintf("artists/%d", id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AlbumSongs fetches the full song list of an album.
func (c *Client) AlbumSongs(ctx context.Context, albumID int64) ([]library.SongPayload, error) {
	var payloads []library.SongPayload
	if err := c.get(ctx, fmt.Sprintf("albums/%d/songs", albumID), &payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}

// ArtistSongs fetches the full song list of an artist.
func (c *Client) ArtistSongs(ctx context.Context, artistID int64) ([]library.SongPayload, error) {
	var payloads []library.SongPayload
	if err := c.get(ctx, fmt.Sprintf("artists/%d/songs", artistID), &payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}

// PlaylistSongs fetches the current content of a playlist. For smart
// playlists the server evaluates the rules at request time.
func (c *Client) PlaylistSongs(ctx context.Context, playlistID int64) ([]library.SongPayload, error) {
	var payloads []library.SongPayload
	if err := c.get(ctx, fmt.Sprintf("playlists/%d/songs", playlistID), &payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}

// SongInfo fetches the lazy-loaded extras of a song (lyrics, video link).
func (c *Client) SongInfo(ctx context.Context, songID string) (*library.SongInfo, error) {
	var info library.SongInfo
	if err := c.get(ctx, "song/"+url.PathEscape(songID)+"/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AlbumThumbnail fetches the thumbnail URL of an album. The server answers
// with an empty URL when no thumbnail has been generated.
func (c *Client) AlbumThumbnail(ctx context.Context, albumID int64) (string, error) {
	var resp struct {
		ThumbnailURL string `json:"thumbnailUrl"`
	}
	if err := c.get(ctx, fmt.Sprintf("album/%d/thumbnail", albumID), &resp); err != nil {
		return "", err
	}
	return resp.ThumbnailURL, nil
}

// UpdateSongs applies one edit to a set of songs and returns the refreshed
// payloads of every entity the edit touched.
func (c *Client) UpdateSongs(ctx context.Context, songIDs []string, edit library.SongEdit) (*library.SongUpdateResult, error) {
	body := struct {
		Data  library.SongEdit `json:"data"`
		Songs []string         `json:"songs"`
	}{Data: edit, Songs: songIDs}

	var result library.SongUpdateResult
	if err := c.do(ctx, http.MethodPut, "songs", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadAlbumCover replaces an album cover and returns the new image URL.
func (c *Client) UploadAlbumCover(ctx context.Context, albumID int64, data string) (string, error) {
	body := struct {
		Cover string `json:"cover"`
	}{Cover: data}

	var resp struct {
		CoverURL string `json:"coverUrl"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("album/%d/cover", albumID), body, &resp); err != nil {
		return "", err
	}
	return resp.CoverURL, nil
}

// UploadArtistImage replaces an artist image and returns the new image URL.
func (c *Client) UploadArtistImage(ctx context.Context, artistID int64, data string) (string, error) {
	body := struct {
		Image string `json:"image"`
	}{Image: data}

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("artist/%d/image", artistID), body, &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}
