package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yt-filter/internal/models"
)

// Options is the run configuration, fixed for one invocation
type Options struct {
	Link     string
	Criteria models.FilterCriteria
	Sort     models.SortOptions
	// EarlyStop stops paging once a page starts before Criteria.MinDate
	EarlyStop bool
	// UseListPlaylist walks the list of a watch link instead of the channel uploads
	UseListPlaylist bool
	Concurrency     int
}

// DefaultOptions returns the options for a link with no bounds, sorted by views descending
func DefaultOptions(link string) Options {
	return Options{
		Link:        link,
		Criteria:    models.DefaultCriteria(),
		Sort:        models.SortOptions{By: models.SortByViews},
		EarlyStop:   true,
		Concurrency: 1,
	}
}

// Result is the filtered and ordered outcome of a run
type Result struct {
	Channel    models.Channel
	PlaylistID string
	Videos     models.VideoCollection
	Order      []string
	Summary    models.RunSummary
	Options    Options
}

// Sorted returns the records in result order
func (r *Result) Sorted() []models.VideoRecord {
	return r.Videos.Ordered(r.Order)
}

// Resort recomputes the order for new sort options
func (r *Result) Resort(opts models.SortOptions) {
	r.Options.Sort = opts
	r.Order = SortVideos(r.Videos, opts)
}

// Record converts the result into an archive entry
func (r *Result) Record() *models.FilterRun {
	return &models.FilterRun{
		Channel:    r.Channel,
		PlaylistID: r.PlaylistID,
		Criteria:   r.Options.Criteria,
		Sort:       r.Options.Sort,
		Videos:     r.Videos,
		Order:      r.Order,
		Summary:    r.Summary,
		Timestamp:  time.Now().UTC(),
	}
}

// Filter runs link resolution, fetching and sorting against a platform
type Filter struct {
	platform Platform
}

// New creates a Filter
func New(platform Platform) *Filter {
	return &Filter{platform: platform}
}

// Run executes one complete filter run
func (f *Filter) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Criteria.Validate(); err != nil {
		return nil, err
	}

	link := ParseLink(opts.Link)
	if link.Kind == LinkUnrecognized {
		return nil, fmt.Errorf("%w: %s", models.ErrWrongLink, opts.Link)
	}

	resolution, err := ResolveLink(ctx, f.platform, link, opts.UseListPlaylist)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("channel", resolution.Channel.Title).
		Str("playlist_id", resolution.PlaylistID).
		Str("link_kind", link.Kind.String()).
		Msg("Resolved link")

	earlyStop := opts.EarlyStop && resolution.Ordered
	if opts.EarlyStop && !resolution.Ordered {
		log.Warn().Str("playlist_id", resolution.PlaylistID).Msg("Playlist order unknown, early stop disabled")
	}

	fetcher := NewFetcher(f.platform, WithConcurrency(opts.Concurrency), WithEarlyStop(earlyStop))
	videos, err := fetcher.Fetch(ctx, resolution.PlaylistID, opts.Criteria)
	if err != nil {
		return nil, err
	}

	return &Result{
		Channel:    resolution.Channel,
		PlaylistID: resolution.PlaylistID,
		Videos:     videos,
		Order:      SortVideos(videos, opts.Sort),
		Summary:    models.Summarize(videos),
		Options:    opts,
	}, nil
}
