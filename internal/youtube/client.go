package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// callTimeout bounds every outbound API call.
const callTimeout = 20 * time.Second

// Client wraps the YouTube Data API service with Shorts search helpers.
type Client struct {
	service *youtube.Service
	logger  *slog.Logger
}

// NewClient creates a new YouTube API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube API key cannot be empty")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger,
	}, nil
}
