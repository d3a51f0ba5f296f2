// Package tiktok provides two TikTok discovery backends sharing one output
// contract: the official Research API and an Apify scraper actor.
package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/reelearn/shorts-api/internal/video"
)

const callTimeout = 20 * time.Second

var whitespace = regexp.MustCompile(`\s+`)

// ResearchClient queries the TikTok Research API for keyword-matched videos.
type ResearchClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewResearchClient creates a Research API client.
func NewResearchClient(token, baseURL string, logger *slog.Logger) *ResearchClient {
	return &ResearchClient{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: callTimeout},
		logger:     logger,
	}
}

// flexID decodes a provider identifier that may arrive as a JSON string
// or a bare number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type researchVideo struct {
	VideoID          flexID `json:"video_id"`
	ID               flexID `json:"id"`
	VideoDescription string `json:"video_description"`
	Title            string `json:"title"`
	ShareURL         string `json:"share_url"`
	VideoURL         string `json:"video_url"`
	EmbedURL         string `json:"embed_url"`
}

type researchResponse struct {
	Data struct {
		Videos []researchVideo `json:"videos"`
	} `json:"data"`
	Videos []researchVideo `json:"videos"`
}

// Search issues a keyword query over the last 30 days and normalizes the
// results.
func (c *ResearchClient) Search(ctx context.Context, query string, maxResults int) ([]video.Video, error) {
	if query == "" {
		return nil, nil
	}

	now := time.Now()
	payload := map[string]any{
		"query": map[string]any{
			"and": []map[string]any{
				{
					"operation":    "IN",
					"field_name":   "keyword",
					"field_values": keywordTokens(query),
				},
			},
		},
		"start_date": now.AddDate(0, 0, -30).Format("20060102"),
		"end_date":   now.Format("20060102"),
		"max_count":  maxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode research query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/research/video/query/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("research query returned %d: %s", resp.StatusCode, detail)
	}

	var parsed researchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode research response: %w", err)
	}

	videos := parsed.Data.Videos
	if len(videos) == 0 {
		videos = parsed.Videos
	}

	results := make([]video.Video, 0, len(videos))
	for _, v := range videos {
		id := string(v.VideoID)
		if id == "" {
			id = string(v.ID)
		}
		if id == "" {
			continue
		}

		title := v.VideoDescription
		if title == "" {
			title = v.Title
		}
		if title == "" {
			title = "Untitled TikTok"
		}

		watchURL := v.ShareURL
		if watchURL == "" {
			watchURL = v.VideoURL
		}
		if watchURL == "" {
			watchURL = "https://www.tiktok.com/@tiktok/video/" + id
		}

		embedURL := v.EmbedURL
		if embedURL == "" {
			embedURL = "https://www.tiktok.com/embed/v2/" + id
		}

		results = append(results, video.Video{
			VideoID:  id,
			Title:    title,
			WatchURL: watchURL,
			EmbedURL: embedURL,
			Source:   video.SourceTikTok,
		})
	}

	return results, nil
}

// keywordTokens splits the query into whitespace-separated keywords,
// falling back to the whole query as a single keyword.
func keywordTokens(query string) []string {
	tokens := make([]string, 0, 4)
	for _, tok := range whitespace.Split(query, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		tokens = []string{query}
	}
	return tokens
}
