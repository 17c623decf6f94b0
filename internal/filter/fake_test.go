package filter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/yt-filter/internal/models"
)

// pagedPlatform serves a fixed list of playlist pages and per-video views
type pagedPlatform struct {
	mu            sync.Mutex
	channel       models.Channel
	pages         [][]models.PlaylistItem
	views         map[string]int64
	videoErr      error
	pageRequests  []string
	videoRequests []string
}

func newPagedPlatform(pages ...[]models.PlaylistItem) *pagedPlatform {
	return &pagedPlatform{
		channel: models.Channel{ID: "UC123", Title: "Test Channel", UploadsPlaylistID: "UU123"},
		pages:   pages,
		views:   make(map[string]int64),
	}
}

func (p *pagedPlatform) LookupChannel(ctx context.Context, query models.ChannelQuery) (*models.Channel, error) {
	channel := p.channel
	return &channel, nil
}

func (p *pagedPlatform) LookupVideo(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoRequests = append(p.videoRequests, videoID)
	if p.videoErr != nil {
		return nil, p.videoErr
	}
	views, ok := p.views[videoID]
	if !ok {
		return nil, models.Malformed("videos.list", "items")
	}
	return &models.VideoDetails{ID: videoID, ChannelID: p.channel.ID, ChannelTitle: p.channel.Title, Views: views}, nil
}

func (p *pagedPlatform) ListPlaylistPage(ctx context.Context, playlistID, pageToken string, pageSize int64) (*models.PlaylistPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageRequests = append(p.pageRequests, pageToken)

	index := 0
	if pageToken != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(pageToken, "page-"))
		if err != nil {
			return nil, fmt.Errorf("bad token %q", pageToken)
		}
		index = n
	}
	if index >= len(p.pages) {
		return &models.PlaylistPage{}, nil
	}

	page := &models.PlaylistPage{Items: p.pages[index]}
	if index+1 < len(p.pages) {
		page.NextPageToken = fmt.Sprintf("page-%d", index+1)
	}
	return page, nil
}

// video registers an item with its views and returns the playlist item
func (p *pagedPlatform) video(id, date string, views int64) models.PlaylistItem {
	p.views[id] = views
	return models.PlaylistItem{VideoID: id, Title: "Video " + id, PublishedAt: date + "T12:00:00Z"}
}

// mockPlatform is a testify mock of Platform
type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) LookupChannel(ctx context.Context, query models.ChannelQuery) (*models.Channel, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *mockPlatform) LookupVideo(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoDetails), args.Error(1)
}

func (m *mockPlatform) ListPlaylistPage(ctx context.Context, playlistID, pageToken string, pageSize int64) (*models.PlaylistPage, error) {
	args := m.Called(ctx, playlistID, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaylistPage), args.Error(1)
}
