// Package surface defines the navigable-surface contract the harvesting engine
// runs against. The engine never talks to a browser directly; it queries and
// activates elements through these interfaces, which lets the same cascades and
// state machine run against a live browser tab or a saved HTML snapshot.
package surface

import (
	"context"
	"time"
)

// Element is a handle to a single element on the surface.
type Element interface {
	// Text returns the element's visible text content, whitespace-trimmed.
	Text(ctx context.Context) (string, error)

	// Attr returns the value of the named attribute and whether it exists.
	Attr(ctx context.Context, name string) (string, bool, error)

	// Click activates the element.
	Click(ctx context.Context) error

	// Visible reports whether the element is currently rendered.
	Visible(ctx context.Context) (bool, error)

	// Size returns the element's rendered width and height in pixels.
	Size(ctx context.Context) (width, height float64, err error)

	// NextSiblingText returns the trimmed text of the immediate next element
	// sibling, or "" when there is none.
	NextSiblingText(ctx context.Context) (string, error)

	// Find queries descendants of this element with a CSS selector.
	Find(ctx context.Context, selector string) ([]Element, error)
}

// Surface is a navigable document the engine can query and drive.
type Surface interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// QueryAll returns all elements matching a CSS selector, in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// ScrollBy scrolls the viewport down by the given number of pixels.
	ScrollBy(ctx context.Context, pixels int) error

	// ScrollToEnd scrolls to the full current extent of the document, forcing
	// lazy content to load.
	ScrollToEnd(ctx context.Context) error

	// Sleep is a settle pause: it waits for asynchronous UI updates before the
	// caller re-queries. Snapshot surfaces return immediately.
	Sleep(ctx context.Context, d time.Duration) error

	// HTML returns the current document markup.
	HTML(ctx context.Context) (string, error)
}
