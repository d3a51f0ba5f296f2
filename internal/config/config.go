package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
// Every provider credential is optional; a source without credentials is
// disabled, and explicitly requesting a disabled source yields 503.
type Config struct {
	// YouTubeAPIKey is the YouTube Data API v3 key.
	YouTubeAPIKey string `env:"YOUTUBE_API_KEY"`

	// GeminiAPIKey enables query expansion when set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// TikTokAccessToken is the TikTok Research API bearer token.
	TikTokAccessToken string `env:"TIKTOK_ACCESS_TOKEN"`

	// TikTokBaseURL is the TikTok Research API base URL.
	TikTokBaseURL string `env:"TIKTOK_API_BASE_URL" envDefault:"https://open.tiktokapis.com"`

	// ApifyToken selects the Apify scraper-actor TikTok backend when set.
	ApifyToken string `env:"APIFY_API_TOKEN"`

	// ApifyTikTokActor is the actor identifier for the TikTok scraper.
	ApifyTikTokActor string `env:"APIFY_TIKTOK_ACTOR" envDefault:"clockworks~free-tiktok-scraper"`

	// ApifyBaseURL is the Apify platform API base URL.
	ApifyBaseURL string `env:"APIFY_API_BASE_URL" envDefault:"https://api.apify.com"`

	// InstagramAccessToken is the Instagram Graph API access token.
	InstagramAccessToken string `env:"INSTAGRAM_ACCESS_TOKEN"`

	// InstagramUserID is the Instagram business account ID used for
	// hashtag lookups.
	InstagramUserID string `env:"INSTAGRAM_USER_ID"`

	// InstagramBaseURL is the Graph API base URL.
	InstagramBaseURL string `env:"INSTAGRAM_API_BASE_URL" envDefault:"https://graph.facebook.com/v20.0"`

	// Port is the HTTP listen port (default: 8000).
	Port int `env:"PORT" envDefault:"8000"`

	// Mode selects the serving surface: "http" (default) or "mcp" (stdio).
	Mode string `env:"MODE" envDefault:"http"`
}

// Load loads the configuration from environment variables.
// It first attempts to load a .env file (if present), then parses
// environment variables.
func Load() (*Config, error) {
	// Load .env file if present (ignore error - .env is optional)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
