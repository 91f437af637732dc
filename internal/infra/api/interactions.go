package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lyraplayer/lyra-backend/internal/domain/interaction"
)

// RegisterPlay records a playback of a song. The server returns the updated
// interaction record, whose play count is authoritative.
func (c *Client) RegisterPlay(ctx context.Context, songID string) (*interaction.Interaction, error) {
	body := struct {
		Song string `json:"song"`
	}{Song: songID}

	var resp interaction.Interaction
	if err := c.do(ctx, http.MethodPost, "interaction/play", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleLike flips the favorite flag of a song and returns the resulting
// interaction record.
func (c *Client) ToggleLike(ctx context.Context, songID string) (*interaction.Interaction, error) {
	body := struct {
		Song string `json:"song"`
	}{Song: songID}

	var resp interaction.Interaction
	if err := c.do(ctx, http.MethodPost, "interaction/like", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Scrobble reports a play to the configured external scrobbling service.
func (c *Client) Scrobble(ctx context.Context, songID string, startTime int64) error {
	body := struct {
		Timestamp int64 `json:"timestamp"`
	}{Timestamp: startTime}

	return c.do(ctx, http.MethodPost, url.PathEscape(songID)+"/scrobble", body, nil)
}
