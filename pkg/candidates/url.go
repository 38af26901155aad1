// Package candidates recognizes, normalizes, and discovers video resource
// URLs for the harvesting engine.
package candidates

import (
	"fmt"
	"net/url"
	"strings"

	"transcript-search/pkg/domain"
)

const watchBase = "https://www.youtube.com/watch?v="

// listingBase resolves relative hrefs harvested from listing tiles.
const listingBase = "https://www.youtube.com"

// IsVideoURL reports whether a raw href points at a playable video in any of
// the recognized shapes: standard watch URL, shorts URL, or youtu.be short
// link. Relative hrefs ("/watch?v=...") count.
func IsVideoURL(raw string) bool {
	return strings.Contains(raw, "/watch?v=") ||
		strings.Contains(raw, "/shorts/") ||
		strings.Contains(raw, "youtu.be/")
}

// IsShortsURL reports whether the URL uses the short-form-content layout,
// which requires different element-location strategies during acquisition.
func IsShortsURL(raw string) bool {
	return strings.Contains(raw, "/shorts/")
}

// VideoID extracts the stable video identifier from any recognized URL shape.
// Unrecognized URLs fall back to the trailing path segment.
func VideoID(raw string) string {
	switch {
	case strings.Contains(raw, "/shorts/"):
		id := after(raw, "/shorts/")
		return cutAny(id, "?", "&", "#")
	case strings.Contains(raw, "/watch?v="):
		id := after(raw, "/watch?v=")
		return cutAny(id, "&", "#")
	case strings.Contains(raw, "youtu.be/"):
		id := after(raw, "youtu.be/")
		return cutAny(id, "?", "&", "#")
	}

	if u, err := url.Parse(raw); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) > 0 {
			return segments[len(segments)-1]
		}
	}
	return ""
}

// Normalize converts any recognized video URL shape, absolute or relative, to
// the canonical watch form. Shorts keep their original URL: the short-form
// page is a distinct surface and must be navigated as such.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.HasPrefix(raw, "/") {
		raw = listingBase + raw
	}

	if strings.Contains(raw, "/shorts/") {
		id := VideoID(raw)
		if id == "" {
			return "", fmt.Errorf("no video id in shorts URL %q", raw)
		}
		return listingBase + "/shorts/" + id, nil
	}

	id := VideoID(raw)
	if id == "" {
		return "", fmt.Errorf("unsupported video URL format: %q", raw)
	}
	return watchBase + id, nil
}

// FromHref builds a candidate from a harvested href, reporting false when the
// href is not a recognized video URL.
func FromHref(href string) (domain.ResourceCandidate, bool) {
	if !IsVideoURL(href) {
		return domain.ResourceCandidate{}, false
	}
	normalized, err := Normalize(href)
	if err != nil {
		return domain.ResourceCandidate{}, false
	}
	return domain.ResourceCandidate{URL: normalized, ID: VideoID(normalized)}, true
}

func after(s, marker string) string {
	_, rest, found := strings.Cut(s, marker)
	if !found {
		return ""
	}
	return rest
}

func cutAny(s string, separators ...string) string {
	for _, sep := range separators {
		if head, _, found := strings.Cut(s, sep); found {
			s = head
		}
	}
	return s
}
