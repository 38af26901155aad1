package candidates

import (
	"context"

	"transcript-search/pkg/selector"
	"transcript-search/pkg/surface"
)

// TileStrategies is the selector cascade for video tiles on the search results
// surface, most specific first:
//  1. Title anchors on standard result tiles
//  2. Thumbnail anchors inside video renderers
//  3. Any watch-URL anchor
//  4. Any shorts-URL anchor
//
// Every strategy carries the same validity filter: the element must expose an
// href shaped like a video URL.
func TileStrategies() []selector.Strategy {
	return []selector.Strategy{
		{Name: "title-anchor", Selector: "a#video-title", Filter: hasVideoHref},
		{Name: "renderer-thumbnail", Selector: "ytd-video-renderer a#thumbnail", Filter: hasVideoHref},
		{Name: "watch-anchor", Selector: "a[href*='/watch?v=']", Filter: hasVideoHref},
		{Name: "shorts-anchor", Selector: "a[href*='/shorts/']", Filter: hasVideoHref},
	}
}

func hasVideoHref(ctx context.Context, el surface.Element) bool {
	href, ok, err := el.Attr(ctx, "href")
	if err != nil || !ok {
		return false
	}
	return IsVideoURL(href)
}
