package tiktok

import (
	"bytes"
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

// fallbackHashtag feeds the trending feed when the query produces no
// usable hashtag tokens.
const fallbackHashtag = "fyp"

// runWaitSeconds is how long the Apify platform holds the run request
// open waiting for the actor to finish.
const runWaitSeconds = 60

var (
	nonHashtagChars = regexp.MustCompile(`[^0-9A-Za-z_]`)
	webVideoID      = regexp.MustCompile(`/video/(\d+)`)
)

// ApifyClient runs a TikTok scraper actor on the Apify platform and reads
// its result dataset.
type ApifyClient struct {
	token      string
	actor      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewApifyClient creates a scraper-actor client.
func NewApifyClient(token, actor, baseURL string, logger *slog.Logger) *ApifyClient {
	return &ApifyClient{
		token:   token,
		actor:   actor,
		baseURL: strings.TrimRight(baseURL, "/"),
		// The run call blocks server-side for up to runWaitSeconds.
		httpClient: &http.Client{Timeout: (runWaitSeconds + 30) * time.Second},
		logger:     logger,
	}
}

// apifyItem is the subset of scraper output fields this adapter reads.
// Different actor versions populate different media fields; see
// resolveMediaURL for the priority order.
type apifyItem struct {
	Text        string   `json:"text"`
	WebVideoURL string   `json:"webVideoUrl"`
	MediaURLs   []string `json:"mediaUrls"`
	VideoMeta   struct {
		DownloadAddr string `json:"downloadAddr"`
	} `json:"videoMeta"`
	Video struct {
		PlayAddr     string `json:"playAddr"`
		DownloadAddr string `json:"downloadAddr"`
	} `json:"video"`
	VideoURL     string `json:"videoUrl"`
	DownloadAddr string `json:"downloadAddr"`
}

// Search scrapes recent videos for the query's hashtags and normalizes the
// dataset items.
func (c *ApifyClient) Search(ctx context.Context, query string, maxResults int) ([]video.Video, error) {
	input := map[string]any{
		"hashtags":                      hashtagTokens(query),
		"resultsPerPage":                maxResults,
		"shouldDownloadVideos":          false,
		"shouldDownloadCovers":          false,
		"shouldDownloadSubtitles":       false,
		"shouldDownloadSlideshowImages": false,
	}

	datasetID, err := c.startRun(ctx, input)
	if err != nil {
		return nil, err
	}

	items, err := c.datasetItems(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	results := make([]video.Video, 0, len(items))
	for _, item := range items {
		if item.WebVideoURL == "" {
			c.logger.Warn("skipping scraped item without web url")
			continue
		}

		id := extractVideoID(item.WebVideoURL)
		embedURL := item.WebVideoURL
		if id != "" {
			embedURL = "https://www.tiktok.com/embed/v2/" + id
		} else {
			// Keep the record addressable even without a numeric id.
			id = item.WebVideoURL
		}

		title := item.Text
		if title == "" {
			title = "Untitled TikTok"
		}

		results = append(results, video.Video{
			VideoID:  id,
			Title:    title,
			WatchURL: item.WebVideoURL,
			EmbedURL: embedURL,
			Source:   video.SourceTikTok,
			VideoURL: resolveMediaURL(item),
		})
	}

	return results, nil
}

// startRun submits the scrape job and waits for it, returning the default
// dataset id.
func (c *ApifyClient) startRun(ctx context.Context, input map[string]any) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode actor input: %w", err)
	}

	runURL := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s&waitForFinish=%d",
		c.baseURL, url.PathEscape(c.actor), url.QueryEscape(c.token), runWaitSeconds)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, runURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("actor run failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("actor run returned %d: %s", resp.StatusCode, detail)
	}

	var run struct {
		Data struct {
			Status           string `json:"status"`
			DefaultDatasetID string `json:"defaultDatasetId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return "", fmt.Errorf("failed to decode run response: %w", err)
	}
	if run.Data.DefaultDatasetID == "" {
		return "", fmt.Errorf("actor run has no dataset (status %q)", run.Data.Status)
	}

	return run.Data.DefaultDatasetID, nil
}

// datasetItems fetches the run's result dataset.
func (c *ApifyClient) datasetItems(ctx context.Context, datasetID string) ([]apifyItem, error) {
	itemsURL := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json&clean=true",
		c.baseURL, url.PathEscape(datasetID), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemsURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("dataset fetch returned %d: %s", resp.StatusCode, detail)
	}

	var items []apifyItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode dataset items: %w", err)
	}

	return items, nil
}

// resolveMediaURL returns the first populated direct media URL. Actor
// versions disagree on where they put it, so candidates are checked most
// specific first.
func resolveMediaURL(item apifyItem) string {
	for _, u := range item.MediaURLs {
		if u != "" {
			return u
		}
	}
	for _, u := range []string{
		item.VideoMeta.DownloadAddr,
		item.Video.PlayAddr,
		item.Video.DownloadAddr,
		item.VideoURL,
		item.DownloadAddr,
	} {
		if u != "" {
			return u
		}
	}
	return ""
}

// extractVideoID pulls the numeric video id out of a TikTok web URL.
func extractVideoID(webURL string) string {
	m := webVideoID.FindStringSubmatch(webURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// hashtagTokens converts the query into hashtag tokens by stripping every
// character that is not alphanumeric or underscore, falling back to the
// trending feed tag when nothing survives.
func hashtagTokens(query string) []string {
	tags := make([]string, 0, 4)
	for _, tok := range whitespace.Split(query, -1) {
		tag := nonHashtagChars.ReplaceAllString(tok, "")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = []string{fallbackHashtag}
	}
	return tags
}
