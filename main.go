package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"transcript-search/pkg/domain"
	"transcript-search/pkg/match"
	"transcript-search/pkg/surface/static"
	"transcript-search/pkg/transcript"
)

// Demo entrypoint: parse a saved transcript panel and locate keywords in it.
// Usage: go run . panel.html keyword [keyword...]
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: transcript-search <panel.html> <keyword> [keyword...]")
		os.Exit(2)
	}

	htmlBytes, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read panel HTML: %v", err)
	}

	surf, err := static.New(string(htmlBytes))
	if err != nil {
		log.Fatalf("Failed to parse panel HTML: %v", err)
	}

	ctx := context.Background()
	segments := transcript.ParseSegments(ctx, surf)
	fmt.Printf("Parsed %d transcript segments\n\n", len(segments))

	candidate := domain.ResourceCandidate{
		ID:  "demo",
		URL: "https://www.youtube.com/watch?v=demo",
	}

	result := match.New(false).Match(candidate, "saved panel", segments, os.Args[2:])
	if result == nil {
		fmt.Println("No keyword matches found.")
		return
	}

	fmt.Printf("Found %d matches:\n\n", len(result.Matches))
	for i, m := range result.Matches {
		fmt.Printf("Match %d:\n", i+1)
		fmt.Printf("  Keyword: %s\n", m.Keyword)
		fmt.Printf("  Segment starts: %s\n", m.OriginalTimestamp)
		fmt.Printf("  Precise moment: %s\n", m.PreciseTimestamp)
		fmt.Printf("  Text: %s\n", m.Text)
		fmt.Printf("  URL: %s\n", m.URL)
		fmt.Println()
	}
}
