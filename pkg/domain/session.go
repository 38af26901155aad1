package domain

// SearchSession holds the inputs of a single search run and accumulates its
// results. It is immutable for the lifetime of the run except for Results,
// which is append-only and owned by the single control goroutine driving the
// run.
type SearchSession struct {
	// Query is the search text entered on the listing surface.
	Query string `bson:"query" json:"query"`

	// Keywords are matched against transcript segments, in the order given.
	Keywords []string `bson:"keywords" json:"keywords"`

	// ExactPhrase selects substring matching instead of word-boundary matching.
	ExactPhrase bool `bson:"exact_phrase" json:"exact_phrase"`

	// Results is built incrementally as candidates are processed. A video only
	// appears here if at least one keyword matched its transcript.
	Results []VideoResult `bson:"results" json:"results"`
}

// NewSearchSession creates a session for the given query and keywords.
func NewSearchSession(query string, keywords []string, exactPhrase bool) *SearchSession {
	return &SearchSession{
		Query:       query,
		Keywords:    keywords,
		ExactPhrase: exactPhrase,
	}
}

// Append records a finished video result. Results keep the order in which
// candidates were processed.
func (s *SearchSession) Append(result VideoResult) {
	s.Results = append(s.Results, result)
}
