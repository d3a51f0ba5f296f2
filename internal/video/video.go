package video

import (
	"fmt"
	"strings"
)

// Source tags identify the provider that produced a video record.
const (
	SourceYouTube   = "youtube"
	SourceTikTok    = "tiktok"
	SourceInstagram = "instagram"
)

// Video is the normalized record every source adapter produces.
// VideoID is provider-scoped: it is unique within one source but not
// across sources, so cross-source deduplication keys on (Source, VideoID).
type Video struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	WatchURL string `json:"watch_url"`
	EmbedURL string `json:"embed_url"`
	Source   string `json:"source,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

// Key returns the cross-source deduplication key for the record.
func (v Video) Key() string {
	return v.Source + "\x00" + v.VideoID
}

// EmbedHTML renders the iframe embed fragment for a YouTube video ID with
// the given pixel dimensions.
func EmbedHTML(videoID string, width, height int) string {
	return fmt.Sprintf(`<iframe
    width="%d"
    height="%d"
    src="https://www.youtube.com/embed/%s"
    title="YouTube Short"
    frameborder="0"
    allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
    allowfullscreen>
</iframe>`, width, height, videoID)
}

// FormatResults renders search results as a numbered console listing.
func FormatResults(videos []Video) string {
	if len(videos) == 0 {
		return "No short videos found for this search.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d short videos:\n\n", len(videos))
	for i, v := range videos {
		fmt.Fprintf(&b, "%d. %s\n", i+1, v.Title)
		fmt.Fprintf(&b, "   Watch: %s\n", v.WatchURL)
		fmt.Fprintf(&b, "   Embed: %s\n\n", v.EmbedURL)
	}
	return b.String()
}
