package match

import (
	"strings"
	"testing"

	"transcript-search/pkg/domain"
)

var testCandidate = domain.ResourceCandidate{
	URL: "https://www.youtube.com/watch?v=abc123",
	ID:  "abc123",
}

func segments(pairs ...string) []domain.TranscriptSegment {
	var segs []domain.TranscriptSegment
	for i := 0; i+1 < len(pairs); i += 2 {
		segs = append(segs, domain.TranscriptSegment{Timestamp: pairs[i], Text: pairs[i+1]})
	}
	return segs
}

// TestPreciseSecondsFromOffset verifies the intra-segment offset estimate:
// "agent" starts at index 10 of a 20-character segment spanning 10s..20s, so
// position 0.5 resolves to round(10 + 0.5*10) = 15.
func TestPreciseSecondsFromOffset(t *testing.T) {
	segs := segments(
		"00:10", "the quick agent runs",
		"00:20", "something else entirely",
	)

	result := New(false).Match(testCandidate, "title", segs, []string{"agent"})
	if result == nil {
		t.Fatal("expected a match for \"agent\"")
	}
	if len(result.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(result.Matches))
	}

	m := result.Matches[0]
	if m.PreciseSeconds != 15 {
		t.Errorf("PreciseSeconds = %d, want 15", m.PreciseSeconds)
	}
	if m.PreciseTimestamp != "00:15" {
		t.Errorf("PreciseTimestamp = %q, want %q", m.PreciseTimestamp, "00:15")
	}
	if m.OriginalTimestamp != "00:10" {
		t.Errorf("OriginalTimestamp = %q, want %q", m.OriginalTimestamp, "00:10")
	}
	if !strings.HasSuffix(m.URL, "&t=15s") {
		t.Errorf("match URL = %q, want t=15s suffix appended with &", m.URL)
	}
}

// TestLastSegmentAssumedDuration verifies the final segment uses the fixed
// 5-second assumption for its end time.
func TestLastSegmentAssumedDuration(t *testing.T) {
	segs := segments("01:00", "closing words here now")

	result := New(false).Match(testCandidate, "", segs, []string{"now"})
	if result == nil {
		t.Fatal("expected a match")
	}

	// "now" starts at index 19 of 22 chars: round(60 + 19/22*5) = 64.
	if got := result.Matches[0].PreciseSeconds; got != 64 {
		t.Errorf("PreciseSeconds = %d, want 64", got)
	}
}

// TestOutOfOrderSegmentsDegradeToStart verifies that a segment whose successor
// starts earlier gets duration 0, so the precise time is the segment start.
func TestOutOfOrderSegmentsDegradeToStart(t *testing.T) {
	segs := segments(
		"01:00", "the keyword sits late in this text",
		"00:30", "earlier than its predecessor",
	)

	result := New(false).Match(testCandidate, "", segs, []string{"text"})
	if result == nil {
		t.Fatal("expected a match")
	}
	if got := result.Matches[0].PreciseSeconds; got != 60 {
		t.Errorf("PreciseSeconds = %d, want 60 (segment start)", got)
	}
}

// TestExactVersusWordBoundary constructs the case where exact-phrase matching
// succeeds but word-boundary matching must not: "gent" inside "agent".
func TestExactVersusWordBoundary(t *testing.T) {
	segs := segments("00:10", "an ai agent appeared", "00:20", "more talk")

	if result := New(true).Match(testCandidate, "", segs, []string{"gent"}); result == nil {
		t.Error("exact-phrase mode should match \"gent\" inside \"agent\"")
	}
	if result := New(false).Match(testCandidate, "", segs, []string{"gent"}); result != nil {
		t.Error("word-boundary mode must not match \"gent\" inside \"agent\"")
	}

	// A multi-word phrase flanked by spaces matches in both modes.
	for _, exact := range []bool{true, false} {
		if result := New(exact).Match(testCandidate, "", segs, []string{"ai agent"}); result == nil {
			t.Errorf("exact=%v should match \"ai agent\"", exact)
		}
	}
}

// TestDedupIgnoresKeyword verifies that two distinct keywords resolving to the
// same (preciseSeconds, text) pair collapse into a single retained match, with
// the first-seen keyword winning.
func TestDedupIgnoresKeyword(t *testing.T) {
	segs := segments(
		"00:10", "the quick agent runs",
		"00:20", "something else",
	)

	// Both keywords start at index 10, so both resolve to second 15.
	result := New(false).Match(testCandidate, "", segs, []string{"agent", "agent runs"})
	if result == nil {
		t.Fatal("expected matches")
	}
	if len(result.Matches) != 1 {
		t.Fatalf("got %d matches, want 1 (collapsed)", len(result.Matches))
	}
	if result.Matches[0].Keyword != "agent" {
		t.Errorf("retained keyword = %q, want first-seen %q", result.Matches[0].Keyword, "agent")
	}
}

// TestNoMatchesReturnsNil verifies that a candidate with no keyword hits
// produces no result at all rather than an empty one.
func TestNoMatchesReturnsNil(t *testing.T) {
	segs := segments("00:10", "nothing relevant here")

	if result := New(false).Match(testCandidate, "", segs, []string{"absent"}); result != nil {
		t.Errorf("got result with %d matches, want nil", len(result.Matches))
	}
}

// TestRegexMetacharactersAreLiteral verifies user keywords are escaped before
// word-boundary compilation.
func TestRegexMetacharactersAreLiteral(t *testing.T) {
	segs := segments("00:10", "costs $5.99 per month")

	if result := New(false).Match(testCandidate, "", segs, []string{"$5.99"}); result == nil {
		t.Error("keyword with regex metacharacters should match literally")
	}
	if result := New(false).Match(testCandidate, "", segs, []string{"$5x99"}); result != nil {
		t.Error("dot must not act as a wildcard")
	}
}

// TestPlaybackURLSeparator verifies the time parameter uses ? when the
// candidate URL carries no query string.
func TestPlaybackURLSeparator(t *testing.T) {
	bare := domain.ResourceCandidate{URL: "https://www.youtube.com/shorts/abc123", ID: "abc123"}
	segs := segments("00:10", "the quick agent runs", "00:20", "more")

	result := New(false).Match(bare, "", segs, []string{"agent"})
	if result == nil {
		t.Fatal("expected a match")
	}
	if !strings.HasSuffix(result.Matches[0].URL, "?t=15s") {
		t.Errorf("match URL = %q, want ?t=15s suffix", result.Matches[0].URL)
	}
}
