package candidates

import "context"

// URLFilter decides whether a discovered URL should be kept.
type URLFilter interface {
	ShouldKeep(ctx context.Context, url string) (bool, error)
}

// VideoURLFilter keeps only URLs that point at a playable video.
type VideoURLFilter struct{}

func NewVideoURLFilter() *VideoURLFilter {
	return &VideoURLFilter{}
}

func (f *VideoURLFilter) ShouldKeep(ctx context.Context, url string) (bool, error) {
	return IsVideoURL(url), nil
}

// AlreadySeenFilter drops URLs already present in the provided set, e.g. URLs
// that were fully processed on a previous run.
type AlreadySeenFilter struct {
	seen map[string]bool
}

func NewAlreadySeenFilter(seen map[string]bool) *AlreadySeenFilter {
	return &AlreadySeenFilter{seen: seen}
}

func (f *AlreadySeenFilter) ShouldKeep(ctx context.Context, url string) (bool, error) {
	return !f.seen[url], nil
}
