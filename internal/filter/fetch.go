package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yt-filter/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the largest page the playlistItems endpoint returns
const DefaultPageSize int64 = 50

// Fetcher walks a playlist and collects the videos matching the criteria
type Fetcher struct {
	platform    Platform
	pageSize    int64
	concurrency int
	earlyStop   bool
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithPageSize overrides the page size
func WithPageSize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.pageSize = size
		}
	}
}

// WithConcurrency bounds the number of views lookups in flight within one page
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithEarlyStop toggles stopping once a page starts before the minimum date.
// It relies on the playlist being listed newest first.
func WithEarlyStop(enabled bool) FetcherOption {
	return func(f *Fetcher) {
		f.earlyStop = enabled
	}
}

// NewFetcher creates a sequential fetcher with early-stop enabled
func NewFetcher(platform Platform, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		platform:    platform,
		pageSize:    DefaultPageSize,
		concurrency: 1,
		earlyStop:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch pages through the playlist until no continuation token is returned
// or, with early-stop enabled, a page's first item predates criteria.MinDate.
func (f *Fetcher) Fetch(ctx context.Context, playlistID string, criteria models.FilterCriteria) (models.VideoCollection, error) {
	videos := make(models.VideoCollection)
	pageToken := ""

	for page := 1; ; page++ {
		log.Debug().Str("playlist_id", playlistID).Int("page", page).Msg("Fetching playlist page")

		response, err := f.platform.ListPlaylistPage(ctx, playlistID, pageToken, f.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
		}
		if len(response.Items) == 0 {
			break
		}

		if f.earlyStop && !criteria.MinDate.IsZero() {
			newest, err := models.ParsePublishedAt(response.Items[0].PublishedAt)
			if err != nil {
				return nil, &models.MalformedResponseError{Operation: "playlistItems.list", Field: "snippet.publishedAt", Err: err}
			}
			if newest.Before(criteria.MinDate) {
				log.Info().
					Str("playlist_id", playlistID).
					Int("page", page).
					Str("first_upload", newest.String()).
					Str("min_date", criteria.MinDate.String()).
					Msg("Page starts before minimum date, stopping")
				break
			}
		}

		if err := f.collectPage(ctx, response.Items, criteria, videos); err != nil {
			return nil, err
		}

		log.Debug().
			Str("playlist_id", playlistID).
			Int("page", page).
			Int("items", len(response.Items)).
			Int("kept", len(videos)).
			Msg("Processed playlist page")

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	log.Info().Str("playlist_id", playlistID).Int("video_count", len(videos)).Msg("Fetched filtered videos")
	return videos, nil
}

// collectPage looks up the views of every item inside the date bounds and
// inserts the ones that pass the full predicate.
func (f *Fetcher) collectPage(ctx context.Context, items []models.PlaylistItem, criteria models.FilterCriteria, videos models.VideoCollection) error {
	type candidate struct {
		item       models.PlaylistItem
		uploadedAt models.Date
	}

	candidates := make([]candidate, 0, len(items))
	for _, item := range items {
		if item.VideoID == "" {
			return models.Malformed("playlistItems.list", "snippet.resourceId.videoId")
		}
		uploadedAt, err := models.ParsePublishedAt(item.PublishedAt)
		if err != nil {
			return &models.MalformedResponseError{Operation: "playlistItems.list", Field: "snippet.publishedAt", Err: err}
		}
		if criteria.MatchDate(uploadedAt) {
			candidates = append(candidates, candidate{item: item, uploadedAt: uploadedAt})
		}
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)

	for _, c := range candidates {
		c := c
		eg.Go(func() error {
			details, err := f.platform.LookupVideo(egCtx, c.item.VideoID)
			if err != nil {
				return fmt.Errorf("failed to get views for video %s: %w", c.item.VideoID, err)
			}
			if !criteria.MatchViews(details.Views) {
				return nil
			}

			record := models.NewVideoRecord(c.item.VideoID, c.item.Title, details.Views, c.uploadedAt)
			mu.Lock()
			videos[record.ID] = record
			mu.Unlock()
			return nil
		})
	}

	return eg.Wait()
}
