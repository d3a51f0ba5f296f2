package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reelearn/shorts-api/internal/config"
	"github.com/reelearn/shorts-api/internal/instagram"
	"github.com/reelearn/shorts-api/internal/tiktok"
	"github.com/reelearn/shorts-api/internal/video"
	"github.com/reelearn/shorts-api/internal/youtube"
)

// Adapter is the contract every source backend implements.
type Adapter interface {
	Search(ctx context.Context, query string, maxResults int) ([]video.Video, error)
}

// AdapterSource resolves a source tag to its adapter.
type AdapterSource interface {
	Adapter(ctx context.Context, source string) (Adapter, error)
}

var (
	// ErrSourceNotConfigured means the source was requested but its
	// credentials are absent.
	ErrSourceNotConfigured = errors.New("source not configured")

	// ErrUnknownSource means the source tag is not a provider at all.
	ErrUnknownSource = errors.New("unknown source")
)

// Providers lazily constructs one adapter per configured source and shares
// it, read-only, for the lifetime of the process.
type Providers struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.Mutex
	adapters map[string]Adapter
}

// NewProviders creates the provider factory. No adapter is built until a
// request asks for its source.
func NewProviders(cfg *config.Config, logger *slog.Logger) *Providers {
	return &Providers{
		cfg:      cfg,
		logger:   logger,
		adapters: make(map[string]Adapter),
	}
}

// Adapter returns the adapter for a source tag, constructing it on first
// use. Requesting a source without credentials yields
// ErrSourceNotConfigured.
func (p *Providers) Adapter(ctx context.Context, source string) (Adapter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if adapter, ok := p.adapters[source]; ok {
		return adapter, nil
	}

	adapter, err := p.build(ctx, source)
	if err != nil {
		return nil, err
	}

	p.adapters[source] = adapter
	return adapter, nil
}

func (p *Providers) build(ctx context.Context, source string) (Adapter, error) {
	switch source {
	case video.SourceYouTube:
		if p.cfg.YouTubeAPIKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotConfigured, source)
		}
		return youtube.NewClient(ctx, p.cfg.YouTubeAPIKey, p.logger)

	case video.SourceTikTok:
		// An Apify token selects the scraper-actor backend; otherwise the
		// official Research API is used.
		if p.cfg.ApifyToken != "" {
			return tiktok.NewApifyClient(p.cfg.ApifyToken, p.cfg.ApifyTikTokActor, p.cfg.ApifyBaseURL, p.logger), nil
		}
		if p.cfg.TikTokAccessToken != "" {
			return tiktok.NewResearchClient(p.cfg.TikTokAccessToken, p.cfg.TikTokBaseURL, p.logger), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrSourceNotConfigured, source)

	case video.SourceInstagram:
		if p.cfg.InstagramAccessToken == "" || p.cfg.InstagramUserID == "" {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotConfigured, source)
		}
		return instagram.NewClient(p.cfg.InstagramAccessToken, p.cfg.InstagramUserID, p.cfg.InstagramBaseURL, p.logger), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
}
