package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelearn/shorts-api/internal/video"
)

type adapterFunc func(ctx context.Context, query string, maxResults int) ([]video.Video, error)

func (f adapterFunc) Search(ctx context.Context, query string, maxResults int) ([]video.Video, error) {
	return f(ctx, query, maxResults)
}

type fakeProviders map[string]Adapter

func (f fakeProviders) Adapter(_ context.Context, source string) (Adapter, error) {
	adapter, ok := f[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotConfigured, source)
	}
	return adapter, nil
}

type fakeExpander struct {
	phrases []string
	calls   int
}

func (f *fakeExpander) Enabled() bool { return f.phrases != nil }

func (f *fakeExpander) Expand(_ context.Context, prompt string, _ int) []string {
	f.calls++
	if f.phrases == nil {
		return []string{prompt}
	}
	return f.phrases
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ytVideos(ids ...string) []video.Video {
	out := make([]video.Video, len(ids))
	for i, id := range ids {
		out[i] = video.Video{VideoID: id, Title: "t-" + id, Source: video.SourceYouTube}
	}
	return out
}

func idSet(videos []video.Video) map[string]struct{} {
	set := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		set[v.Source+"/"+v.VideoID] = struct{}{}
	}
	return set
}

func TestSearchDedupesAcrossPhrases(t *testing.T) {
	byPhrase := map[string][]video.Video{
		"p1": ytVideos("A", "B", "C"),
		"p2": ytVideos("B", "C", "D"),
	}
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(_ context.Context, query string, _ int) ([]video.Video, error) {
			return byPhrase[query], nil
		}),
	}

	agg := New(providers, &fakeExpander{phrases: []string{"p1", "p2"}}, testLogger())
	result, err := agg.Search(context.Background(), Request{
		Query:      "anything",
		MaxResults: 50,
		Optimize:   true,
	})
	require.NoError(t, err)

	require.Len(t, result.Videos, 4)
	assert.Equal(t, map[string]struct{}{
		"youtube/A": {}, "youtube/B": {}, "youtube/C": {}, "youtube/D": {},
	}, idSet(result.Videos))
	assert.Equal(t, []string{"p1", "p2"}, result.Phrases)
}

func TestSearchTruncatesToMaxResults(t *testing.T) {
	all := ytVideos("a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l")
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(context.Context, string, int) ([]video.Video, error) {
			return all, nil
		}),
	}

	agg := New(providers, &fakeExpander{}, testLogger())
	result, err := agg.Search(context.Background(), Request{Query: "q", MaxResults: 5})
	require.NoError(t, err)

	require.Len(t, result.Videos, 5)
	full := idSet(all)
	for key := range idSet(result.Videos) {
		assert.Contains(t, full, key)
	}
}

func TestSearchPerPhraseBudget(t *testing.T) {
	var limits []int
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(_ context.Context, _ string, maxResults int) ([]video.Video, error) {
			limits = append(limits, maxResults)
			return nil, nil
		}),
	}

	agg := New(providers, &fakeExpander{phrases: []string{"a", "b", "c", "d"}}, testLogger())
	_, err := agg.Search(context.Background(), Request{Query: "q", MaxResults: 20, Optimize: true})
	require.NoError(t, err)

	// 20/4 + 3 per phrase.
	assert.Equal(t, []int{8, 8, 8, 8}, limits)
}

func TestSearchNonPositiveMaxResults(t *testing.T) {
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(context.Context, string, int) ([]video.Video, error) {
			return ytVideos("a", "b", "c"), nil
		}),
		video.SourceTikTok: adapterFunc(func(context.Context, string, int) ([]video.Video, error) {
			return []video.Video{{VideoID: "1", Source: video.SourceTikTok}}, nil
		}),
	}

	agg := New(providers, &fakeExpander{}, testLogger())
	for _, maxResults := range []int{0, -1} {
		result, err := agg.Search(context.Background(), Request{Query: "q", MaxResults: maxResults})
		require.NoError(t, err)
		assert.Empty(t, result.Videos)

		result, err = agg.Search(context.Background(), Request{
			Query:      "q",
			MaxResults: maxResults,
			Sources:    []string{"youtube", "tiktok"},
		})
		require.NoError(t, err)
		assert.Empty(t, result.Videos)
	}
}

func TestSearchSkipsExpansionWhenDisabled(t *testing.T) {
	var queries []string
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(_ context.Context, query string, _ int) ([]video.Video, error) {
			queries = append(queries, query)
			return nil, nil
		}),
	}

	exp := &fakeExpander{phrases: []string{"x", "y"}}
	agg := New(providers, exp, testLogger())
	result, err := agg.Search(context.Background(), Request{Query: "raw prompt", MaxResults: 10, Optimize: false})
	require.NoError(t, err)

	assert.Zero(t, exp.calls)
	assert.Equal(t, []string{"raw prompt"}, queries)
	assert.Equal(t, []string{"raw prompt"}, result.Phrases)
}

func TestSearchAdapterFailureIsEmptyContribution(t *testing.T) {
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(_ context.Context, query string, _ int) ([]video.Video, error) {
			if query == "bad" {
				return nil, errors.New("provider exploded")
			}
			return ytVideos("ok"), nil
		}),
	}

	agg := New(providers, &fakeExpander{phrases: []string{"bad", "good"}}, testLogger())
	result, err := agg.Search(context.Background(), Request{Query: "q", MaxResults: 10, Optimize: true})
	require.NoError(t, err)

	require.Len(t, result.Videos, 1)
	assert.Equal(t, "ok", result.Videos[0].VideoID)
}

func TestSearchMultiSourceSplitsBudget(t *testing.T) {
	calls := map[string][]any{}
	record := func(source string) Adapter {
		return adapterFunc(func(_ context.Context, query string, maxResults int) ([]video.Video, error) {
			calls[source] = []any{query, maxResults}
			return []video.Video{{VideoID: "1", Source: source}}, nil
		})
	}
	providers := fakeProviders{
		video.SourceYouTube: record(video.SourceYouTube),
		video.SourceTikTok:  record(video.SourceTikTok),
	}

	exp := &fakeExpander{phrases: []string{"never used"}}
	agg := New(providers, exp, testLogger())
	result, err := agg.Search(context.Background(), Request{
		Query:      "funny cats",
		MaxResults: 10,
		Optimize:   true,
		Sources:    []string{"YouTube", "tiktok", "tiktok"},
	})
	require.NoError(t, err)

	// Raw query, no expansion, budget halved across the two sources.
	assert.Zero(t, exp.calls)
	assert.Equal(t, []any{"funny cats", 5}, calls[video.SourceYouTube])
	assert.Equal(t, []any{"funny cats", 5}, calls[video.SourceTikTok])

	// Identical ids from different providers are both kept.
	require.Len(t, result.Videos, 2)
}

func TestSearchMultiSourceMissingCredentials(t *testing.T) {
	providers := fakeProviders{
		video.SourceYouTube: adapterFunc(func(context.Context, string, int) ([]video.Video, error) {
			return ytVideos("a"), nil
		}),
	}

	agg := New(providers, &fakeExpander{}, testLogger())
	_, err := agg.Search(context.Background(), Request{
		Query:      "q",
		MaxResults: 10,
		Sources:    []string{"youtube", "tiktok"},
	})
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
}

func TestNormalizeSources(t *testing.T) {
	assert.Equal(t, []string{"youtube"}, normalizeSources(nil))
	assert.Equal(t, []string{"youtube"}, normalizeSources([]string{"", "  "}))
	assert.Equal(t, []string{"tiktok", "instagram"},
		normalizeSources([]string{" TikTok ", "instagram", "tiktok"}))
}
