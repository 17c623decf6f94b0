package filter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yt-filter/internal/models"
)

// LinkKind tags the recognised link shapes
type LinkKind int

const (
	LinkUnrecognized LinkKind = iota
	LinkChannel
	LinkWatchWithList
	LinkVanity
)

func (k LinkKind) String() string {
	switch k {
	case LinkChannel:
		return "channel"
	case LinkWatchWithList:
		return "watch-with-list"
	case LinkVanity:
		return "vanity"
	default:
		return "unrecognized"
	}
}

// Link is the classified form of an input URL
type Link struct {
	Kind      LinkKind
	Raw       string
	ChannelID string
	VideoID   string
	ListID    string
	Vanity    string
}

// ParseLink classifies a YouTube URL. It never calls the API.
//
// Recognised forms:
//
//	https://www.youtube.com/channel/<channelId>
//	https://www.youtube.com/watch?v=<videoId>&list=<playlistId>
//	https://www.youtube.com/c/<vanityName>/...
func ParseLink(raw string) Link {
	link := Link{Kind: LinkUnrecognized, Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsedURL, err := url.Parse(trimmed)
	if err != nil || !isYouTubeHost(parsedURL.Hostname()) {
		return link
	}

	segments := pathSegments(parsedURL.Path)
	if len(segments) == 0 {
		return link
	}

	switch segments[0] {
	case "channel":
		if len(segments) >= 2 {
			link.Kind = LinkChannel
			link.ChannelID = segments[1]
		}
	case "watch":
		query := parsedURL.Query()
		videoID, listID := query.Get("v"), query.Get("list")
		if videoID != "" && listID != "" {
			link.Kind = LinkWatchWithList
			link.VideoID = videoID
			link.ListID = listID
		}
	case "c":
		if len(segments) >= 2 {
			link.Kind = LinkVanity
			link.Vanity = segments[1]
		}
	}

	return link
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

func pathSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Resolution is the channel and playlist a link points at
type Resolution struct {
	Channel    models.Channel
	PlaylistID string
	// Ordered is false when the playlist is not known to be in upload order
	Ordered bool
}

// ResolveLink looks up the channel behind a link and picks the playlist to walk.
// With useList set, a watch link's own list is walked instead of the channel uploads.
func ResolveLink(ctx context.Context, platform Platform, link Link, useList bool) (*Resolution, error) {
	log.Debug().Str("link", link.Raw).Str("kind", link.Kind.String()).Msg("Resolving link")

	switch link.Kind {
	case LinkChannel:
		channel, err := platform.LookupChannel(ctx, models.ChannelQuery{ID: link.ChannelID})
		if err != nil {
			return nil, fmt.Errorf("failed to look up channel %s: %w", link.ChannelID, err)
		}
		return uploadsResolution(channel), nil

	case LinkWatchWithList:
		video, err := platform.LookupVideo(ctx, link.VideoID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up video %s: %w", link.VideoID, err)
		}
		if useList {
			return &Resolution{
				Channel:    models.Channel{ID: video.ChannelID, Title: video.ChannelTitle},
				PlaylistID: link.ListID,
				Ordered:    false,
			}, nil
		}
		channel, err := platform.LookupChannel(ctx, models.ChannelQuery{ID: video.ChannelID})
		if err != nil {
			return nil, fmt.Errorf("failed to look up channel %s: %w", video.ChannelID, err)
		}
		if video.ChannelTitle != "" {
			channel.Title = video.ChannelTitle
		}
		return uploadsResolution(channel), nil

	case LinkVanity:
		channel, err := platform.LookupChannel(ctx, models.ChannelQuery{Username: link.Vanity})
		if err != nil {
			return nil, fmt.Errorf("failed to look up channel %s: %w", link.Vanity, err)
		}
		channel.Title = link.Vanity
		return uploadsResolution(channel), nil
	}

	return nil, fmt.Errorf("%w: %s", models.ErrWrongLink, link.Raw)
}

func uploadsResolution(channel *models.Channel) *Resolution {
	return &Resolution{
		Channel:    *channel,
		PlaylistID: channel.UploadsPlaylistID,
		Ordered:    true,
	}
}
