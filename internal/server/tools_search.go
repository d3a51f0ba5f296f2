package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelearn/shorts-api/internal/search"
	"github.com/reelearn/shorts-api/internal/video"
)

// Input/output types for search tools

type searchShortsInput struct {
	Query      string   `json:"query" jsonschema:"required,description=Search prompt (natural language is fine when query expansion is enabled)"`
	MaxResults int      `json:"maxResults" jsonschema:"description=Total maximum results to return (default 50, max 50),minimum=1,maximum=50"`
	Optimize   *bool    `json:"optimize" jsonschema:"description=Expand the prompt into several related search phrases (default true)"`
	Sources    []string `json:"sources" jsonschema:"description=Source tags to search: youtube, tiktok, instagram (default youtube)"`
}

type videoInfo struct {
	VideoID  string `json:"videoId" jsonschema:"description=Provider-scoped video identifier"`
	Title    string `json:"title" jsonschema:"description=Video title"`
	WatchURL string `json:"watchUrl" jsonschema:"description=User-facing playback link"`
	EmbedURL string `json:"embedUrl" jsonschema:"description=Iframe-embeddable link"`
	Source   string `json:"source" jsonschema:"description=Provider tag (youtube, tiktok, instagram)"`
}

type searchShortsOutput struct {
	Videos         []videoInfo `json:"videos"`
	Count          int         `json:"count" jsonschema:"description=Number of results returned"`
	Query          string      `json:"query" jsonschema:"description=The original prompt"`
	OptimizedQuery string      `json:"optimizedQuery" jsonschema:"description=The phrases that were actually searched"`
}

type embedHTMLInput struct {
	VideoID string `json:"videoId" jsonschema:"required,description=YouTube video ID to embed"`
	Width   int    `json:"width" jsonschema:"description=Player width in pixels (default 315)"`
	Height  int    `json:"height" jsonschema:"description=Player height in pixels (default 560)"`
}

type embedHTMLOutput struct {
	VideoID  string `json:"videoId"`
	EmbedURL string `json:"embedUrl"`
	HTML     string `json:"html" jsonschema:"description=Iframe embed fragment"`
}

// toSearchRequest maps tool input to an aggregator request, applying
// the defaults the schema documents: omitted or out-of-range maxResults
// becomes 50, and omitted optimize means expansion on, matching the
// HTTP API.
func toSearchRequest(input searchShortsInput) search.Request {
	maxResults := input.MaxResults
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 50
	}

	optimize := true
	if input.Optimize != nil {
		optimize = *input.Optimize
	}

	return search.Request{
		Query:      input.Query,
		MaxResults: maxResults,
		Optimize:   optimize,
		Sources:    input.Sources,
	}
}

// registerSearchTools registers the search and embed MCP tools.
func (s *Server) registerSearchTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_shorts",
		Description: "Search YouTube, TikTok and Instagram for short videos (60 seconds or less) matching a prompt. Results from all phrases and sources are deduplicated, mixed and capped at maxResults.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input searchShortsInput) (*mcp.CallToolResult, searchShortsOutput, error) {
		result, err := s.searcher.Search(ctx, toSearchRequest(input))
		if err != nil {
			return nil, searchShortsOutput{}, fmt.Errorf("failed to search shorts: %w", err)
		}

		videos := make([]videoInfo, len(result.Videos))
		for i, v := range result.Videos {
			videos[i] = videoInfo{
				VideoID:  v.VideoID,
				Title:    v.Title,
				WatchURL: v.WatchURL,
				EmbedURL: v.EmbedURL,
				Source:   v.Source,
			}
		}

		output := searchShortsOutput{
			Videos:         videos,
			Count:          len(videos),
			Query:          input.Query,
			OptimizedQuery: strings.Join(result.Phrases, ", "),
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Found %d short videos for prompt '%s'", len(videos), input.Query)},
			},
		}, output, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_embed_html",
		Description: "Build the iframe embed fragment for a YouTube video ID. Purely local; no API quota is consumed.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input embedHTMLInput) (*mcp.CallToolResult, embedHTMLOutput, error) {
		if input.VideoID == "" {
			return nil, embedHTMLOutput{}, fmt.Errorf("videoId cannot be empty")
		}

		width := input.Width
		if width <= 0 {
			width = 315
		}
		height := input.Height
		if height <= 0 {
			height = 560
		}

		output := embedHTMLOutput{
			VideoID:  input.VideoID,
			EmbedURL: "https://www.youtube.com/embed/" + input.VideoID,
			HTML:     video.EmbedHTML(input.VideoID, width, height),
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Embed HTML for video " + input.VideoID},
			},
		}, output, nil
	})
}
