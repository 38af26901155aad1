package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"transcript-search/pkg/candidates"
	"transcript-search/pkg/collector"
	"transcript-search/pkg/db"
	"transcript-search/pkg/domain"
	"transcript-search/pkg/match"
	"transcript-search/pkg/report"
	"transcript-search/pkg/runner"
	"transcript-search/pkg/selector"
	"transcript-search/pkg/surface/browser"
	"transcript-search/pkg/transcript"
)

func main() {
	var (
		query    = flag.String("query", "", "Search query for the results page (required)")
		keywords = flag.String("keywords", "", "Comma-separated keywords to locate in transcripts (required)")
		exact    = flag.Bool("exact", false, "Match keywords as exact substrings instead of whole words")

		channels    = flag.String("channels", "", "Comma-separated channel IDs; when set, candidates come from channel upload feeds instead of the search page")
		target      = flag.Int("target", 100, "Number of candidate videos to collect")
		maxAttempts = flag.Int("max-attempts", 20, "Max scroll attempts while collecting candidates")
		headless    = flag.Bool("headless", true, "Run the browser without a visible window")

		output = flag.String("output", "results/session.json", "Path of the JSON session report")

		mongoURI   = flag.String("mongo-uri", "", "MongoDB connection string (empty disables persistence)")
		dbName     = flag.String("db", "transcriptsearch", "MongoDB database name")
		collection = flag.String("collection", "results", "MongoDB collection for video results")
	)
	flag.Parse()

	if *query == "" || *keywords == "" {
		flag.Usage()
		log.Fatal("both -query and -keywords are required")
	}

	keywordList := splitKeywords(*keywords)
	if len(keywordList) == 0 {
		log.Fatal("no usable keywords after parsing -keywords")
	}

	ctx := context.Background()

	surf, err := browser.New(ctx, browser.Options{Headless: *headless})
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}
	defer surf.Close()

	var (
		saver  runner.ResultSaver
		filter candidates.URLFilter
	)
	if *mongoURI != "" {
		dbClient := db.NewClient(*mongoURI, *dbName, *collection)
		if err := dbClient.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbClient.Close(ctx)
		saver = dbClient

		// Skip candidates that already have a stored result.
		if known, err := dbClient.GetAllURLs(ctx); err == nil && len(known) > 0 {
			filter = candidates.NewAlreadySeenFilter(known)
		}
	}

	var collect runner.CandidateCollector
	if *channels != "" {
		collect = &feedCollector{
			source:   candidates.NewFeedSource(4),
			channels: splitKeywords(*channels),
			limit:    *target,
		}
	} else {
		collectCfg := collector.DefaultConfig()
		collectCfg.TargetCount = *target
		collectCfg.MaxAttempts = *maxAttempts
		cascade := selector.NewCascade(candidates.TileStrategies()...)
		collect = collector.New(surf, cascade, collectCfg)
	}

	r, err := runner.New(runner.Config{
		Surface:   surf,
		Collector: collect,
		Acquirer:  transcript.NewAcquirer(surf, transcript.DefaultConfig()),
		Matcher:   match.New(*exact),
		Saver:     saver,
		Filter:    filter,
	})
	if err != nil {
		log.Fatalf("Failed to build runner: %v", err)
	}

	session := domain.NewSearchSession(*query, keywordList, *exact)

	start := time.Now()
	log.Printf("Searching %q for keywords %v (exact=%v)", *query, keywordList, *exact)
	summary, err := r.Run(ctx, session)
	if err != nil {
		log.Fatalf("Search run failed: %v", err)
	}
	log.Printf("Done. Processed %d, matched %d, skipped %d. Duration: %s",
		summary.Processed, summary.Matched, summary.Skipped, time.Since(start))

	if err := report.Write(session, *output); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.Printf("Report written to %s", *output)
}

// feedCollector sources candidates from channel upload feeds, bypassing the
// scroll-harvesting loop.
type feedCollector struct {
	source   *candidates.FeedSource
	channels []string
	limit    int
}

func (f *feedCollector) Collect(ctx context.Context) ([]domain.ResourceCandidate, collector.Reason) {
	found, err := f.source.Discover(ctx, f.channels)
	if err != nil {
		log.Printf("Feed discovery failed: %v", err)
		return nil, collector.Reason("feed discovery failed")
	}
	if f.limit > 0 && len(found) > f.limit {
		found = found[:f.limit]
	}
	return found, collector.Reason("feed discovery complete")
}

func splitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
