// Package search fans a query out across the configured video sources and
// merges the results into a single shuffled list.
package search

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/reelearn/shorts-api/internal/video"
)

// defaultNumTopics is used when a request does not say how many phrases
// to expand into.
const defaultNumTopics = 4

// Expander produces related search phrases for a prompt.
type Expander interface {
	Enabled() bool
	Expand(ctx context.Context, prompt string, numTopics int) []string
}

// Request describes one aggregated search.
type Request struct {
	Query      string
	MaxResults int
	Optimize   bool
	NumTopics  int
	Sources    []string
}

// Result is the merged outcome of one search. Phrases records what was
// actually searched (the raw query unless expansion produced more).
type Result struct {
	Videos  []video.Video
	Phrases []string
}

// Aggregator orchestrates expansion, fan-out, deduplication and mixing.
type Aggregator struct {
	providers AdapterSource
	expander  Expander
	logger    *slog.Logger
}

// New creates an aggregator over the given providers and expander.
func New(providers AdapterSource, expander Expander, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		providers: providers,
		expander:  expander,
		logger:    logger,
	}
}

// Search runs the aggregated search. A single requested youtube source
// goes through phrase expansion; any other source combination splits the
// budget across sources and searches the raw query. Adapter transport
// failures contribute empty lists and are never surfaced to the caller;
// configuration errors (unknown or credential-less sources) are.
func (a *Aggregator) Search(ctx context.Context, req Request) (*Result, error) {
	sources := normalizeSources(req.Sources)

	if len(sources) == 1 && sources[0] == video.SourceYouTube {
		return a.searchByPhrase(ctx, req)
	}
	return a.searchBySource(ctx, req, sources)
}

// searchByPhrase expands the prompt into topics and queries YouTube once
// per topic, deduplicating across topics.
func (a *Aggregator) searchByPhrase(ctx context.Context, req Request) (*Result, error) {
	adapter, err := a.providers.Adapter(ctx, video.SourceYouTube)
	if err != nil {
		return nil, err
	}

	phrases := []string{req.Query}
	if req.Optimize {
		numTopics := req.NumTopics
		if numTopics <= 0 {
			numTopics = defaultNumTopics
		}
		phrases = a.expander.Expand(ctx, req.Query, numTopics)
	}
	if len(phrases) == 0 {
		return &Result{Phrases: phrases}, nil
	}

	// The +3 buffer compensates for duplicate loss during the merge.
	perPhrase := max(1, req.MaxResults/len(phrases)+3)

	var merged []video.Video
	seen := make(map[string]struct{})
	for _, phrase := range phrases {
		found := a.callAdapter(ctx, adapter, video.SourceYouTube, phrase, perPhrase)
		for _, v := range found {
			if _, dup := seen[v.Key()]; dup {
				continue
			}
			seen[v.Key()] = struct{}{}
			merged = append(merged, v)
		}
		a.logger.Info("searched phrase", "phrase", phrase, "found", len(found), "unique_total", len(merged))
	}

	return &Result{
		Videos:  mix(merged, req.MaxResults),
		Phrases: phrases,
	}, nil
}

// searchBySource splits the budget across the requested sources and
// queries each with the raw prompt.
func (a *Aggregator) searchBySource(ctx context.Context, req Request, sources []string) (*Result, error) {
	// Resolve every adapter up front so a misconfigured source fails the
	// request before any network call.
	adapters := make([]Adapter, len(sources))
	for i, source := range sources {
		adapter, err := a.providers.Adapter(ctx, source)
		if err != nil {
			return nil, err
		}
		adapters[i] = adapter
	}

	perSource := max(1, req.MaxResults/len(sources))

	var merged []video.Video
	seen := make(map[string]struct{})
	for i, source := range sources {
		found := a.callAdapter(ctx, adapters[i], source, req.Query, perSource)
		for _, v := range found {
			if _, dup := seen[v.Key()]; dup {
				continue
			}
			seen[v.Key()] = struct{}{}
			merged = append(merged, v)
		}
		a.logger.Info("searched source", "source", source, "found", len(found), "unique_total", len(merged))
	}

	return &Result{
		Videos:  mix(merged, req.MaxResults),
		Phrases: []string{req.Query},
	}, nil
}

// callAdapter is the single choke point for the uniform failure policy:
// any adapter error is logged and becomes an empty contribution, so
// callers cannot distinguish a failed call from an empty one.
func (a *Aggregator) callAdapter(ctx context.Context, adapter Adapter, source, query string, limit int) []video.Video {
	found, err := adapter.Search(ctx, query, limit)
	if err != nil {
		a.logger.Error("source search failed", "source", source, "query", query, "error", err)
		return nil
	}
	return found
}

// mix shuffles the merged list and truncates it to the requested total.
// A non-positive total yields no results.
func mix(videos []video.Video, maxResults int) []video.Video {
	if maxResults <= 0 {
		return nil
	}
	rand.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})
	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}
	return videos
}

// normalizeSources lowercases, trims and dedupes the requested source
// tags, defaulting to youtube.
func normalizeSources(sources []string) []string {
	out := make([]string, 0, len(sources))
	seen := make(map[string]struct{})
	for _, s := range sources {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		out = []string{video.SourceYouTube}
	}
	return out
}
