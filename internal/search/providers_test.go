package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelearn/shorts-api/internal/config"
	"github.com/reelearn/shorts-api/internal/tiktok"
)

func TestProvidersUnknownSource(t *testing.T) {
	p := NewProviders(&config.Config{}, testLogger())
	_, err := p.Adapter(context.Background(), "vimeo")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestProvidersMissingCredentials(t *testing.T) {
	p := NewProviders(&config.Config{}, testLogger())

	for _, source := range []string{"youtube", "tiktok", "instagram"} {
		_, err := p.Adapter(context.Background(), source)
		assert.ErrorIs(t, err, ErrSourceNotConfigured, "source %s", source)
	}
}

func TestProvidersTikTokVariantSelection(t *testing.T) {
	// An Apify token wins over a research token.
	p := NewProviders(&config.Config{
		ApifyToken:        "apify-tok",
		ApifyTikTokActor:  "actor",
		ApifyBaseURL:      "https://api.apify.com",
		TikTokAccessToken: "research-tok",
		TikTokBaseURL:     "https://open.tiktokapis.com",
	}, testLogger())

	adapter, err := p.Adapter(context.Background(), "tiktok")
	require.NoError(t, err)
	assert.IsType(t, &tiktok.ApifyClient{}, adapter)

	p = NewProviders(&config.Config{
		TikTokAccessToken: "research-tok",
		TikTokBaseURL:     "https://open.tiktokapis.com",
	}, testLogger())

	adapter, err = p.Adapter(context.Background(), "tiktok")
	require.NoError(t, err)
	assert.IsType(t, &tiktok.ResearchClient{}, adapter)
}

func TestProvidersMemoizeAdapters(t *testing.T) {
	p := NewProviders(&config.Config{
		InstagramAccessToken: "tok",
		InstagramUserID:      "user",
		InstagramBaseURL:     "https://graph.facebook.com/v20.0",
	}, testLogger())

	first, err := p.Adapter(context.Background(), "instagram")
	require.NoError(t, err)
	second, err := p.Adapter(context.Background(), "instagram")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
