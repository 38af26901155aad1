// Package match resolves keywords to precise playback timestamps inside
// parsed transcript segments.
package match

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"transcript-search/pkg/domain"
	"transcript-search/pkg/timecode"
)

// lastSegmentDuration is the assumed length of the final segment; the panel
// exposes no end time for it.
const lastSegmentDuration = 5

// Matcher matches session keywords against transcript segments.
type Matcher struct {
	exactPhrase bool
}

// New creates a matcher. exactPhrase selects case-insensitive substring
// containment; otherwise keywords must sit on word boundaries.
func New(exactPhrase bool) *Matcher {
	return &Matcher{exactPhrase: exactPhrase}
}

// Match evaluates every keyword against every segment and assembles the
// per-video report. It returns nil when nothing matched: an empty result is
// never emitted.
//
// A segment's end time is taken from the next segment's start; segments are
// assumed to arrive in ascending order. When that assumption is violated the
// duration would come out non-positive, and the match degrades to the segment
// start instead of producing a negative offset.
//
// Matches are deduplicated by (preciseSeconds, text), first seen wins. The
// keyword is deliberately not part of the key: two keywords resolving to the
// same second of the same segment collapse into one retained match.
func (m *Matcher) Match(candidate domain.ResourceCandidate, title string, segments []domain.TranscriptSegment, keywords []string) *domain.VideoResult {
	if len(segments) == 0 || len(keywords) == 0 {
		return nil
	}

	checks := make([]keywordCheck, len(keywords))
	for i, kw := range keywords {
		checks[i] = m.compile(kw)
	}

	type dedupKey struct {
		seconds int
		text    string
	}
	seen := make(map[dedupKey]bool)
	var matches []domain.KeywordMatch

	for i, seg := range segments {
		start := timecode.Parse(seg.Timestamp)

		duration := lastSegmentDuration
		if i+1 < len(segments) {
			duration = timecode.Parse(segments[i+1].Timestamp) - start
			if duration < 0 {
				duration = 0
			}
		}

		for _, check := range checks {
			if !check.matches(seg.Text) {
				continue
			}

			position := 0.0
			if idx := strings.Index(strings.ToLower(seg.Text), strings.ToLower(check.keyword)); idx >= 0 && len(seg.Text) > 0 {
				position = float64(idx) / float64(len(seg.Text))
			}

			precise := int(math.Round(float64(start) + position*float64(duration)))

			key := dedupKey{seconds: precise, text: seg.Text}
			if seen[key] {
				continue
			}
			seen[key] = true

			matches = append(matches, domain.KeywordMatch{
				Keyword:           check.keyword,
				OriginalTimestamp: seg.Timestamp,
				PreciseTimestamp:  timecode.Format(precise),
				PreciseSeconds:    precise,
				Text:              seg.Text,
				URL:               playbackURL(candidate.URL, precise),
			})
		}
	}

	if len(matches) == 0 {
		return nil
	}

	return &domain.VideoResult{
		ID:      candidate.ID,
		Title:   title,
		URL:     candidate.URL,
		Matches: matches,
		FoundAt: time.Now(),
	}
}

type keywordCheck struct {
	keyword string
	matches func(text string) bool
}

func (m *Matcher) compile(keyword string) keywordCheck {
	if m.exactPhrase {
		lower := strings.ToLower(keyword)
		return keywordCheck{
			keyword: keyword,
			matches: func(text string) bool {
				return strings.Contains(strings.ToLower(text), lower)
			},
		}
	}

	// Word-boundary mode: the keyword must be flanked by non-alphanumeric
	// characters or the string boundaries. Metacharacters in the keyword are
	// escaped so user input is always a literal.
	re := regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(keyword) + `([^a-z0-9]|$)`)
	return keywordCheck{
		keyword: keyword,
		matches: re.MatchString,
	}
}

// playbackURL appends a time-offset query parameter to the candidate URL.
func playbackURL(candidateURL string, seconds int) string {
	separator := "?"
	if strings.Contains(candidateURL, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%st=%ds", candidateURL, separator, seconds)
}
