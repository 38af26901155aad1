// Package static implements surface.Surface over a parsed HTML snapshot.
// Interaction operations (navigation, clicks, scrolling, settle pauses) are
// no-ops: the snapshot never changes. It backs tests and the offline
// parse-a-saved-panel flow.
package static

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"transcript-search/pkg/surface"
)

// Surface is a read-only snapshot of an HTML document.
type Surface struct {
	doc *goquery.Document
}

// New parses the given HTML into a snapshot surface.
func New(html string) (*Surface, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot HTML: %w", err)
	}
	return &Surface{doc: doc}, nil
}

func (s *Surface) Navigate(ctx context.Context, url string) error { return nil }

func (s *Surface) QueryAll(ctx context.Context, selector string) ([]surface.Element, error) {
	return wrapSelections(s.doc.Find(selector)), nil
}

func (s *Surface) ScrollBy(ctx context.Context, pixels int) error { return nil }

func (s *Surface) ScrollToEnd(ctx context.Context) error { return nil }

// Sleep returns immediately: a snapshot has nothing to settle.
func (s *Surface) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func (s *Surface) HTML(ctx context.Context) (string, error) {
	return goquery.OuterHtml(s.doc.Selection)
}

// Element wraps a single goquery selection node.
type Element struct {
	sel *goquery.Selection
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

// Click is a no-op on a snapshot.
func (e *Element) Click(ctx context.Context) error { return nil }

// Visible reports false only for elements marked hidden in the markup.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	if _, hidden := e.sel.Attr("hidden"); hidden {
		return false, nil
	}
	if v, ok := e.sel.Attr("aria-hidden"); ok && v == "true" {
		return false, nil
	}
	return true, nil
}

// Size reads numeric width/height attributes; elements without them report
// zero, which keeps geometry-based last-resort fallbacks inert on snapshots.
func (e *Element) Size(ctx context.Context) (float64, float64, error) {
	return attrFloat(e.sel, "width"), attrFloat(e.sel, "height"), nil
}

func (e *Element) NextSiblingText(ctx context.Context) (string, error) {
	next := e.sel.Next()
	if next.Length() == 0 {
		return "", nil
	}
	return strings.TrimSpace(next.Text()), nil
}

func (e *Element) Find(ctx context.Context, selector string) ([]surface.Element, error) {
	return wrapSelections(e.sel.Find(selector)), nil
}

func wrapSelections(sel *goquery.Selection) []surface.Element {
	elements := make([]surface.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &Element{sel: s})
	})
	return elements
}

func attrFloat(sel *goquery.Selection, name string) float64 {
	v, ok := sel.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}
