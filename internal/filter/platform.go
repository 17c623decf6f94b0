// Package filter resolves a YouTube link to its uploads playlist, walks the
// playlist page by page and keeps the videos that match the view and date
// criteria, ordered by views or upload date.
package filter

import (
	"context"

	"github.com/yt-filter/internal/models"
)

// Platform is the subset of the YouTube Data API the filter needs
type Platform interface {
	LookupChannel(ctx context.Context, query models.ChannelQuery) (*models.Channel, error)
	LookupVideo(ctx context.Context, videoID string) (*models.VideoDetails, error)
	ListPlaylistPage(ctx context.Context, playlistID, pageToken string, pageSize int64) (*models.PlaylistPage, error)
}

// RunStore archives filter runs
type RunStore interface {
	StoreRun(run *models.FilterRun) error
	GetLatestRun(channelTitle string) (*models.FilterRun, error)
}
