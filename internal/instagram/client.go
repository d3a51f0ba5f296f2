// Package instagram pulls recent reels from the Instagram Graph API
// hashtag search.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/reelearn/shorts-api/internal/video"
)

const callTimeout = 20 * time.Second

var (
	whitespace     = regexp.MustCompile(`\s+`)
	nonTagChars    = regexp.MustCompile(`[^0-9A-Za-z_]`)
	shortcodeMatch = regexp.MustCompile(`/(reel|p)/([^/]+)/?`)
)

// Client searches reels by resolving the query to a single hashtag.
type Client struct {
	accessToken string
	userID      string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a Graph API client.
func NewClient(accessToken, userID, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		userID:      userID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: callTimeout},
		logger:      logger,
	}
}

type mediaItem struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
	Permalink string `json:"permalink"`
}

// Search normalizes the query to a hashtag, resolves its id and fetches
// recent video media tagged with it.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]video.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	hashtag := normalizeHashtag(query)
	if hashtag == "" {
		return nil, nil
	}

	hashtagID, err := c.hashtagID(ctx, hashtag)
	if err != nil {
		return nil, err
	}
	if hashtagID == "" {
		c.logger.Warn("instagram hashtag search returned no results", "hashtag", hashtag)
		return nil, nil
	}

	params := url.Values{
		"user_id":      {c.userID},
		"fields":       {"id,caption,media_type,media_url,permalink,thumbnail_url"},
		"limit":        {fmt.Sprint(maxResults)},
		"access_token": {c.accessToken},
	}

	var parsed struct {
		Data []mediaItem `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/"+hashtagID+"/recent_media?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	results := make([]video.Video, 0, len(parsed.Data))
	for _, media := range parsed.Data {
		if media.MediaType != "REELS" && media.MediaType != "VIDEO" {
			continue
		}
		if media.ID == "" {
			continue
		}

		embedURL := ""
		if code := extractShortcode(media.Permalink); code != "" {
			embedURL = "https://www.instagram.com/reel/" + code + "/embed"
		}

		title := media.Caption
		if title == "" {
			title = "Untitled Reel"
		}

		results = append(results, video.Video{
			VideoID:  media.ID,
			Title:    title,
			WatchURL: media.Permalink,
			EmbedURL: embedURL,
			Source:   video.SourceInstagram,
		})
	}

	return results, nil
}

// hashtagID resolves a hashtag name to the Graph API's internal id.
// An empty id with nil error means the hashtag simply does not exist.
func (c *Client) hashtagID(ctx context.Context, hashtag string) (string, error) {
	params := url.Values{
		"user_id":      {c.userID},
		"q":            {hashtag},
		"access_token": {c.accessToken},
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/ig_hashtag_search?"+params.Encode(), &parsed); err != nil {
		return "", err
	}

	if len(parsed.Data) == 0 {
		return "", nil
	}
	return parsed.Data[0].ID, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph API returned %d: %s", resp.StatusCode, detail)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode graph API response: %w", err)
	}
	return nil
}

// normalizeHashtag reduces the query to a single lowercase hashtag built
// from its first whitespace-delimited token.
func normalizeHashtag(query string) string {
	tokens := whitespace.Split(strings.TrimSpace(query), -1)
	if len(tokens) == 0 {
		return ""
	}
	return strings.ToLower(nonTagChars.ReplaceAllString(tokens[0], ""))
}

// extractShortcode pulls the shortcode out of a /reel/ or /p/ permalink.
func extractShortcode(permalink string) string {
	m := shortcodeMatch.FindStringSubmatch(permalink)
	if m == nil {
		return ""
	}
	return m[2]
}
