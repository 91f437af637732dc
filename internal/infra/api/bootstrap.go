package api

import (
	"context"

	"github.com/lyraplayer/lyra-backend/internal/domain/common"
	"github.com/lyraplayer/lyra-backend/internal/domain/library"
	"github.com/lyraplayer/lyra-backend/internal/domain/overview"
)

// FetchData retrieves the bootstrap snapshot: settings, users, playlists and
// the interaction records of the current user.
func (c *Client) FetchData(ctx context.Context) (*common.Snapshot, error) {
	var snapshot common.Snapshot
	if err := c.get(ctx, "data", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FetchOverview retrieves the home-screen aggregate lists in one call.
func (c *Client) FetchOverview(ctx context.Context) (*overview.Payload, error) {
	var payload overview.Payload
	if err := c.get(ctx, "overview", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListRecentlyPlayed retrieves the full recently-played history, most recent
// first.
func (c *Client) ListRecentlyPlayed(ctx context.Context) ([]library.SongPayload, error) {
	var payloads []library.SongPayload
	if err := c.get(ctx, "recently-played", &payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}
