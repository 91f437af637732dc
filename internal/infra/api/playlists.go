package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lyraplayer/lyra-backend/internal/domain/playlist"
)

// CreatePlaylist creates a playlist on the server. For a smart playlist the
// rules go up in their stored wire form and songs must be empty.
func (c *Client) CreatePlaylist(ctx context.Context, name string, songIDs []string, rules []playlist.StoredRuleGroup) (*playlist.Payload, error) {
	body := struct {
		Name  string                     `json:"name"`
		Songs []string                   `json:"songs"`
		Rules []playlist.StoredRuleGroup `json:"rules"`
	}{Name: name, Songs: songIDs, Rules: rules}

	var payload playlist.Payload
	if err := c.do(ctx, http.MethodPost, "playlist", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdatePlaylist renames a playlist and replaces its rules.
func (c *Client) UpdatePlaylist(ctx context.Context, id int64, name string, rules []playlist.StoredRuleGroup) error {
	body := struct {
		Name  string                     `json:"name"`
		Rules []playlist.StoredRuleGroup `json:"rules"`
	}{Name: name, Rules: rules}

	return c.do(ctx, http.MethodPut, fmt.Sprintf("playlist/%d", id), body, nil)
}

// SyncPlaylistSongs replaces the song list of a standard playlist.
func (c *Client) SyncPlaylistSongs(ctx context.Context, id int64, songIDs []string) error {
	body := struct {
		Songs []string `json:"songs"`
	}{Songs: songIDs}

	return c.do(ctx, http.MethodPut, fmt.Sprintf("playlist/%d/sync", id), body, nil)
}

// DeletePlaylist removes a playlist from the server.
func (c *Client) DeletePlaylist(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("playlist/%d", id), nil, nil)
}
