package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yt-filter/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeAPI reads channels, videos and playlist pages through the YouTube Data API
type YouTubeAPI struct {
	service *youtube.Service
}

// NewYouTubeAPI creates a client authenticated with an API key.
// Extra options are appended after the key, e.g. option.WithEndpoint in tests.
func NewYouTubeAPI(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &YouTubeAPI{service: service}, nil
}

// LookupChannel fetches the title and uploads playlist of a channel
func (y *YouTubeAPI) LookupChannel(ctx context.Context, query models.ChannelQuery) (*models.Channel, error) {
	const op = "channels.list"

	call := y.service.Channels.List([]string{"snippet", "contentDetails"})
	if query.ID != "" {
		call = call.Id(query.ID)
	} else {
		call = call.ForUsername(query.Username)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("query", query.String()).Msg("Failed to get channel from YouTube API")
		return nil, transportError(op, err)
	}

	if len(response.Items) == 0 {
		return nil, models.Malformed(op, "items")
	}

	item := response.Items[0]
	if item.Snippet == nil {
		return nil, models.Malformed(op, "snippet")
	}
	if item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil {
		return nil, models.Malformed(op, "contentDetails.relatedPlaylists")
	}
	if item.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, models.Malformed(op, "contentDetails.relatedPlaylists.uploads")
	}

	channel := &models.Channel{
		ID:                item.Id,
		Title:             item.Snippet.Title,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
	}

	log.Debug().
		Str("channel_id", channel.ID).
		Str("title", channel.Title).
		Str("uploads", channel.UploadsPlaylistID).
		Msg("YouTube channel info retrieved")

	return channel, nil
}

// LookupVideo fetches the owning channel and view count of a video
func (y *YouTubeAPI) LookupVideo(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	const op = "videos.list"

	response, err := y.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("video_id", videoID).Msg("Failed to get video from YouTube API")
		return nil, transportError(op, err)
	}

	if len(response.Items) == 0 {
		return nil, models.Malformed(op, "items")
	}

	item := response.Items[0]
	if item.Snippet == nil {
		return nil, models.Malformed(op, "snippet")
	}
	if item.Statistics == nil {
		return nil, models.Malformed(op, "statistics")
	}

	return &models.VideoDetails{
		ID:           item.Id,
		ChannelID:    item.Snippet.ChannelId,
		ChannelTitle: item.Snippet.ChannelTitle,
		Views:        int64(item.Statistics.ViewCount),
	}, nil
}

// ListPlaylistPage fetches one page of playlist items
func (y *YouTubeAPI) ListPlaylistPage(ctx context.Context, playlistID, pageToken string, pageSize int64) (*models.PlaylistPage, error) {
	const op = "playlistItems.list"

	call := y.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("playlist_id", playlistID).Msg("Failed to get videos from playlist")
		return nil, transportError(op, err)
	}

	page := &models.PlaylistPage{
		Items:         make([]models.PlaylistItem, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item == nil || item.Snippet == nil {
			return nil, models.Malformed(op, "snippet")
		}
		if item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			return nil, models.Malformed(op, "snippet.resourceId.videoId")
		}
		if item.Snippet.PublishedAt == "" {
			return nil, models.Malformed(op, "snippet.publishedAt")
		}
		page.Items = append(page.Items, models.PlaylistItem{
			VideoID:     item.Snippet.ResourceId.VideoId,
			Title:       item.Snippet.Title,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}

	return page, nil
}

// transportError tags API client errors; HTTP status details stay reachable through errors.As
func transportError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: status %d: %w", models.ErrTransportFailure, op, apiErr.Code, err)
	}
	return fmt.Errorf("%w: %s: %w", models.ErrTransportFailure, op, err)
}
