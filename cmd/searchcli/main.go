// Command searchcli runs one aggregated search from the terminal and
// prints the results as a numbered list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/reelearn/shorts-api/internal/config"
	"github.com/reelearn/shorts-api/internal/expander"
	"github.com/reelearn/shorts-api/internal/search"
	"github.com/reelearn/shorts-api/internal/video"
)

func main() {
	query := flag.String("query", "", "search prompt (required)")
	maxResults := flag.Int("max", 10, "total maximum results")
	optimize := flag.Bool("optimize", true, "expand the prompt into related phrases (disable with -optimize=false)")
	sources := flag.String("sources", "", "comma-separated source tags (default youtube)")
	showEmbed := flag.Bool("embed", false, "print the embed HTML for the first result")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: searchcli -query <prompt> [-max n] [-optimize=false] [-sources youtube,tiktok]")
		os.Exit(2)
	}
	if *maxResults < 1 {
		fmt.Fprintln(os.Stderr, "-max must be at least 1")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	exp, err := expander.New(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create query expander:", err)
		os.Exit(1)
	}

	aggregator := search.New(search.NewProviders(cfg, logger), exp, logger)

	var tags []string
	if *sources != "" {
		tags = strings.Split(*sources, ",")
	}

	result, err := aggregator.Search(ctx, search.Request{
		Query:      *query,
		MaxResults: *maxResults,
		Optimize:   *optimize,
		Sources:    tags,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "search failed:", err)
		os.Exit(1)
	}

	fmt.Print(video.FormatResults(result.Videos))

	if *showEmbed && len(result.Videos) > 0 {
		fmt.Println("Embed code for first video:")
		fmt.Println(video.EmbedHTML(result.Videos[0].VideoID, 315, 560))
	}
}
