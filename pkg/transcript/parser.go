package transcript

import (
	"context"
	"log"
	"regexp"
	"strings"

	"transcript-search/pkg/domain"
	"transcript-search/pkg/surface"
	"transcript-search/pkg/timecode"
)

// segmentStrategy locates repeated segment containers of one known DOM shape
// and reads the timestamp and text sub-elements via nested selector fallbacks.
type segmentStrategy struct {
	name          string
	container     string
	timestampSels []string
	textSels      []string
}

// Segment container shapes observed across layout experiments, most specific
// first. The generic element scan below is the last resort when none apply.
var segmentStrategies = []segmentStrategy{
	{
		name:          "segment-renderer",
		container:     "ytd-transcript-segment-renderer",
		timestampSels: []string{".segment-timestamp", "div.segment-start-offset", "[class*='timestamp']"},
		textSels:      []string{"yt-formatted-string.segment-text", ".segment-text", "[class*='segment-text']"},
	},
	{
		name:          "segment-div",
		container:     "div.segment",
		timestampSels: []string{".segment-timestamp", "[class*='timestamp']", "[class*='offset']"},
		textSels:      []string{".segment-text", "[class*='text']"},
	},
	{
		name:          "cue-group",
		container:     "div.cue-group",
		timestampSels: []string{".cue-group-start-offset", "[class*='offset']", "[class*='timestamp']"},
		textSels:      []string{".cue", "[class*='cue']"},
	},
}

// containerLineRe splits a container's whole text when the timestamp and text
// live in the same node.
var containerLineRe = regexp.MustCompile(`(?s)^(\d{1,2}:\d{2}(?::\d{2})?)\s*(.+)$`)

// timestampShapeRe is the strict shape for the generic fallback: a short,
// purely clock-like leaf text.
var timestampShapeRe = regexp.MustCompile(`^\d+:\d+(:\d+)?$`)

// ParseSegments extracts ordered (timestamp, text) pairs from the transcript
// panel currently shown on the surface. Structural strategies are tried in
// order and the first one yielding at least one accepted segment wins; if all
// fail, a generic scan pairs timestamp-shaped leaf elements with their next
// sibling's text. The result preserves panel-encounter order.
func ParseSegments(ctx context.Context, surf surface.Surface) []domain.TranscriptSegment {
	for _, strategy := range segmentStrategies {
		containers, err := surf.QueryAll(ctx, strategy.container)
		if err != nil || len(containers) == 0 {
			continue
		}

		var segments []domain.TranscriptSegment
		for _, container := range containers {
			if seg, ok := parseContainer(ctx, container, strategy); ok {
				segments = append(segments, seg)
			}
		}
		if len(segments) > 0 {
			log.Printf("transcript: %d segments via %s", len(segments), strategy.name)
			return segments
		}
	}

	return parseGeneric(ctx, surf)
}

// parseContainer reads one segment container. Only segments with both a
// non-empty timestamp and non-empty text are accepted.
func parseContainer(ctx context.Context, container surface.Element, strategy segmentStrategy) (domain.TranscriptSegment, bool) {
	timestamp := firstText(ctx, container, strategy.timestampSels)
	text := firstText(ctx, container, strategy.textSels)

	// Some shapes put timestamp and text in a single node; split the whole
	// text on the leading-clock boundary instead.
	if timestamp == "" && text == "" {
		whole, err := container.Text(ctx)
		if err == nil {
			if m := containerLineRe.FindStringSubmatch(whole); m != nil {
				timestamp = m[1]
				text = strings.TrimSpace(m[2])
			}
		}
	}

	if timestamp == "" || text == "" {
		return domain.TranscriptSegment{}, false
	}

	return domain.TranscriptSegment{
		Timestamp:    timestamp,
		StartSeconds: timecode.Parse(timestamp),
		Text:         text,
	}, true
}

// parseGeneric scans every element on the panel, treating any element whose
// full text is a short clock shape as a timestamp anchor paired with the text
// of its immediate next sibling.
func parseGeneric(ctx context.Context, surf surface.Surface) []domain.TranscriptSegment {
	all, err := surf.QueryAll(ctx, "*")
	if err != nil {
		return nil
	}

	var segments []domain.TranscriptSegment
	for _, el := range all {
		text, err := el.Text(ctx)
		if err != nil || len(text) > 8 || !timestampShapeRe.MatchString(text) {
			continue
		}

		sibling, err := el.NextSiblingText(ctx)
		if err != nil || sibling == "" {
			continue
		}

		segments = append(segments, domain.TranscriptSegment{
			Timestamp:    text,
			StartSeconds: timecode.Parse(text),
			Text:         sibling,
		})
	}

	if len(segments) > 0 {
		log.Printf("transcript: %d segments via generic element scan", len(segments))
	}
	return segments
}

// firstText returns the trimmed text of the first element matched by any of
// the selectors, in order.
func firstText(ctx context.Context, root surface.Element, selectors []string) string {
	for _, sel := range selectors {
		found, err := root.Find(ctx, sel)
		if err != nil || len(found) == 0 {
			continue
		}
		for _, el := range found {
			if text, err := el.Text(ctx); err == nil && text != "" {
				return text
			}
		}
	}
	return ""
}
