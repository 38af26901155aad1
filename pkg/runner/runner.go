package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"transcript-search/pkg/candidates"
	"transcript-search/pkg/collector"
	"transcript-search/pkg/content"
	"transcript-search/pkg/domain"
	"transcript-search/pkg/match"
	"transcript-search/pkg/surface"
	"transcript-search/pkg/transcript"
)

const searchBaseURL = "https://www.youtube.com/results?search_query="

// CandidateCollector gathers candidate video URLs from a search results page.
type CandidateCollector interface {
	Collect(ctx context.Context) ([]domain.ResourceCandidate, collector.Reason)
}

// SegmentAcquirer drives a candidate page until its transcript segments are available.
type SegmentAcquirer interface {
	Acquire(ctx context.Context, candidate domain.ResourceCandidate) ([]domain.TranscriptSegment, error)
}

// ResultSaver persists matched results. Optional; a nil saver disables persistence.
type ResultSaver interface {
	SaveResult(ctx context.Context, result *domain.VideoResult) error
}

// Config wires the runner dependencies.
type Config struct {
	Surface   surface.Surface
	Collector CandidateCollector
	Acquirer  SegmentAcquirer
	Matcher   *match.Matcher
	Saver     ResultSaver

	// Filter drops candidates before acquisition, e.g. URLs already stored by
	// a previous run. Nil keeps everything.
	Filter candidates.URLFilter
}

// Summary reports what happened across one search run.
type Summary struct {
	Processed int
	Matched   int
	Skipped   int
}

// Runner executes a full search session: collect candidates, acquire each
// candidate's transcript, and match keywords against the segments.
//
// Candidates are processed sequentially; each candidate navigates the shared
// browser surface, so running them in parallel would fight over the page.
type Runner struct {
	surf     surface.Surface
	coll     CandidateCollector
	acquirer SegmentAcquirer
	matcher  *match.Matcher
	saver    ResultSaver
	filter   candidates.URLFilter
}

func New(cfg Config) (*Runner, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("surface is required")
	}
	if cfg.Collector == nil {
		return nil, fmt.Errorf("collector is required")
	}
	if cfg.Acquirer == nil {
		return nil, fmt.Errorf("acquirer is required")
	}
	if cfg.Matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	return &Runner{
		surf:     cfg.Surface,
		coll:     cfg.Collector,
		acquirer: cfg.Acquirer,
		matcher:  cfg.Matcher,
		saver:    cfg.Saver,
		filter:   cfg.Filter,
	}, nil
}

// SearchURL builds the results page URL for a query.
func SearchURL(query string) string {
	return searchBaseURL + url.QueryEscape(query)
}

// Run executes the session for the given query and keywords. Per-candidate
// failures are logged and skipped; only surface-level failures (navigation to
// the search page itself) abort the run. A session with zero matches is a
// normal outcome, not an error.
func (r *Runner) Run(ctx context.Context, session *domain.SearchSession) (Summary, error) {
	var summary Summary

	if err := r.surf.Navigate(ctx, SearchURL(session.Query)); err != nil {
		return summary, fmt.Errorf("navigate to search results: %w", err)
	}

	found, reason := r.coll.Collect(ctx)
	log.Printf("Collected %d candidates (%s)", len(found), reason)

	for _, candidate := range found {
		if r.filter != nil {
			keep, err := r.filter.ShouldKeep(ctx, candidate.URL)
			if err == nil && !keep {
				continue
			}
		}
		summary.Processed++

		result, err := r.processCandidate(ctx, session, candidate)
		if err != nil {
			if errors.Is(err, transcript.ErrSkipped) {
				log.Printf("Skipping %s: %v", candidate.URL, err)
			} else {
				log.Printf("Failed to process %s: %v", candidate.URL, err)
			}
			summary.Skipped++
			continue
		}
		if result == nil {
			// Transcript acquired but no keyword matched.
			continue
		}

		summary.Matched++
		session.Append(*result)

		if r.saver != nil {
			if err := r.saver.SaveResult(ctx, result); err != nil {
				log.Printf("Failed to save result for %s: %v", candidate.URL, err)
			}
		}
	}

	log.Printf("Session complete: processed %d, matched %d, skipped %d",
		summary.Processed, summary.Matched, summary.Skipped)

	return summary, nil
}

func (r *Runner) processCandidate(ctx context.Context, session *domain.SearchSession, candidate domain.ResourceCandidate) (*domain.VideoResult, error) {
	if err := r.surf.Navigate(ctx, candidate.URL); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	segments, err := r.acquirer.Acquire(ctx, candidate)
	if err != nil {
		return nil, err
	}

	title := r.pageTitle(ctx, candidate)

	return r.matcher.Match(candidate, title, segments, session.Keywords), nil
}

// pageTitle extracts the video title from the current page. Title extraction
// is best effort; a candidate with no usable title falls back to its ID.
func (r *Runner) pageTitle(ctx context.Context, candidate domain.ResourceCandidate) string {
	htmlContent, err := r.surf.HTML(ctx)
	if err != nil {
		return candidate.ID
	}
	title, err := content.ExtractTitle(htmlContent)
	if err != nil || title == "" {
		return candidate.ID
	}
	return title
}
