package domain

import "time"

// ResourceCandidate is a video discovered on the listing surface, eligible for
// transcript acquisition. Candidates are deduplicated by URL; insertion order
// is the order of first discovery.
type ResourceCandidate struct {
	// URL is the canonical watch URL of the video.
	URL string `bson:"url" json:"url"`

	// ID is the stable video identifier derived from the URL.
	ID string `bson:"id" json:"id"`
}

// TranscriptSegment is one timestamped chunk of transcript text as exposed by
// the transcript panel. Segments are emitted in panel-encounter order, which
// the matcher assumes to be ascending by StartSeconds.
type TranscriptSegment struct {
	// Timestamp is the raw display form, e.g. "1:02:03" or "02:03".
	Timestamp string `bson:"timestamp" json:"timestamp"`

	// StartSeconds is Timestamp parsed to seconds; 0 when unparseable.
	StartSeconds int `bson:"start_seconds" json:"start_seconds"`

	// Text is the segment's transcript text.
	Text string `bson:"text" json:"text"`
}

// KeywordMatch is a single keyword hit inside a transcript segment, resolved
// to a precise playback position.
type KeywordMatch struct {
	Keyword string `bson:"keyword" json:"keyword"`

	// OriginalTimestamp is the display timestamp of the matched segment.
	OriginalTimestamp string `bson:"original_timestamp" json:"original_timestamp"`

	// PreciseTimestamp is PreciseSeconds formatted back to display form.
	PreciseTimestamp string `bson:"precise_timestamp" json:"precise_timestamp"`

	// PreciseSeconds is the estimated playback position of the keyword inside
	// the segment, in seconds.
	PreciseSeconds int `bson:"precise_seconds" json:"precise_seconds"`

	// Text is the full text of the matched segment.
	Text string `bson:"text" json:"text"`

	// URL is the candidate URL with a time-offset query parameter pointing at
	// PreciseSeconds.
	URL string `bson:"url" json:"url"`
}

// VideoResult is the per-video match report. It is only created when at least
// one keyword matched; an empty Matches list is never emitted.
type VideoResult struct {
	ID      string         `bson:"id" json:"id"`
	Title   string         `bson:"title" json:"title"`
	URL     string         `bson:"url" json:"url"`
	Matches []KeywordMatch `bson:"matches" json:"matches"`

	// FoundAt is when the transcript was extracted and matched.
	FoundAt time.Time `bson:"found_at" json:"found_at"`
}
