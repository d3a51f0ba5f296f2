package youtube

import (
	"context"
	"fmt"

	yt "google.golang.org/api/youtube/v3"

	"github.com/reelearn/shorts-api/internal/video"
)

// maxShortSeconds is the inclusion threshold for Shorts.
const maxShortSeconds = 60

// Search searches YouTube for Shorts matching the query and returns up
// to maxResults normalized records. Only videos with a duration of 60
// seconds or less are kept; the search API's "short" filter alone admits
// videos up to 4 minutes.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]video.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	searchResp, err := c.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		VideoDuration("short").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search call failed for %q: %w", query, err)
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	// Fetch duration metadata for all candidates in one batched call.
	videosResp, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("metadata call failed for %q: %w", query, err)
	}

	return c.collectShorts(videosResp.Items), nil
}

// collectShorts maps raw video items to normalized records, skipping
// malformed entries and anything longer than a Short.
func (c *Client) collectShorts(items []*yt.Video) []video.Video {
	shorts := make([]video.Video, 0, len(items))
	for _, item := range items {
		if item.Id == "" {
			c.logger.Warn("skipping video entry without id")
			continue
		}
		if item.ContentDetails == nil || item.ContentDetails.Duration == "" {
			c.logger.Warn("skipping video entry without duration", "video_id", item.Id)
			continue
		}

		if ParseISODuration(item.ContentDetails.Duration) > maxShortSeconds {
			continue
		}

		title := "Untitled"
		if item.Snippet != nil && item.Snippet.Title != "" {
			title = item.Snippet.Title
		}

		shorts = append(shorts, video.Video{
			VideoID:  item.Id,
			Title:    title,
			WatchURL: "https://www.youtube.com/shorts/" + item.Id,
			EmbedURL: "https://www.youtube.com/embed/" + item.Id,
			Source:   video.SourceYouTube,
		})
	}
	return shorts
}
