package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yt-filter/internal/models"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("https://www.youtube.com/channel/UC1")

	assert.Equal(t, "https://www.youtube.com/channel/UC1", opts.Link)
	assert.Equal(t, models.DefaultCriteria(), opts.Criteria)
	assert.Equal(t, models.SortByViews, opts.Sort.By)
	assert.False(t, opts.Sort.Ascending)
	assert.True(t, opts.EarlyStop)
	assert.Equal(t, 1, opts.Concurrency)
}

func TestResult_ResortAndRecord(t *testing.T) {
	p := newPagedPlatform()
	p.pages = [][]models.PlaylistItem{{
		p.video("new", "2022-01-01", 10),
		p.video("mid", "2021-01-01", 30),
		p.video("old", "2020-01-01", 20),
	}}

	result, err := New(p).Run(context.Background(), DefaultOptions("https://www.youtube.com/channel/UC123"))
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "old", "new"}, result.Order)

	result.Resort(models.SortOptions{By: models.SortByDate, Ascending: true})
	assert.Equal(t, []string{"old", "mid", "new"}, result.Order)

	sorted := result.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "old", sorted[0].ID)

	record := result.Record()
	assert.Empty(t, record.ID)
	assert.Equal(t, "Test Channel", record.Channel.Title)
	assert.Equal(t, "UU123", record.PlaylistID)
	assert.Equal(t, models.SortOptions{By: models.SortByDate, Ascending: true}, record.Sort)
	assert.Equal(t, result.Order, record.Order)
	assert.Equal(t, int64(60), record.Summary.TotalViews)
	assert.Equal(t, "2020-01-01", record.Summary.TimeRange.StartDate)
	assert.Equal(t, "2022-01-01", record.Summary.TimeRange.EndDate)
	assert.False(t, record.Timestamp.IsZero())
}

func TestFilterRun_EmptyResult(t *testing.T) {
	p := newPagedPlatform()
	p.pages = [][]models.PlaylistItem{{p.video("a", "2022-01-01", 10)}}

	opts := DefaultOptions("https://www.youtube.com/c/Creator")
	opts.Criteria.MinViews = 1000

	result, err := New(p).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, result.Videos)
	assert.Empty(t, result.Order)
	assert.Equal(t, 0, result.Summary.TotalVideos)
	assert.Equal(t, "Creator", result.Channel.Title)
}
