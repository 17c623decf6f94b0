package filter

import (
	"context"

	"github.com/yt-filter/internal/models"
	"golang.org/x/time/rate"
)

// rateLimitedPlatform paces every call to the wrapped platform with a token bucket
type rateLimitedPlatform struct {
	next    Platform
	limiter *rate.Limiter
}

// RateLimit wraps platform so that calls are made at most rps times per second.
// An rps of 0 or less returns platform unchanged.
func RateLimit(platform Platform, rps float64) Platform {
	if rps <= 0 {
		return platform
	}
	// burst of 1 keeps concurrent lookups from bunching up
	return &rateLimitedPlatform{next: platform, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (r *rateLimitedPlatform) LookupChannel(ctx context.Context, query models.ChannelQuery) (*models.Channel, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.LookupChannel(ctx, query)
}

func (r *rateLimitedPlatform) LookupVideo(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.LookupVideo(ctx, videoID)
}

func (r *rateLimitedPlatform) ListPlaylistPage(ctx context.Context, playlistID, pageToken string, pageSize int64) (*models.PlaylistPage, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListPlaylistPage(ctx, playlistID, pageToken, pageSize)
}
