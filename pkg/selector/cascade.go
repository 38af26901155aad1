// Package selector implements ordered selector cascades. The underlying UI
// experiences unannounced structural A/B variation, so a single locator is
// brittle; a cascade encodes a preference order (most specific and stable
// first) and stops at the first strategy that yields a plausible result.
package selector

import (
	"context"

	"transcript-search/pkg/surface"
)

// Strategy is one way of locating a set of elements: a CSS selector plus an
// optional Go-side filter applied to each hit.
type Strategy struct {
	// Name identifies the strategy in diagnostics.
	Name string

	// Selector is the CSS selector evaluated against the surface.
	Selector string

	// Filter, when set, keeps only elements for which it returns true
	// (e.g. "href must look like a watch URL"). A nil Filter keeps everything.
	Filter func(ctx context.Context, el surface.Element) bool
}

// Cascade is an ordered list of strategies.
type Cascade struct {
	strategies []Strategy
}

// NewCascade builds a cascade that evaluates the given strategies in order.
func NewCascade(strategies ...Strategy) *Cascade {
	return &Cascade{strategies: strategies}
}

// Resolve evaluates strategies strictly in order against the whole surface and
// returns the filtered result set of the first strategy that yields at least
// one element, together with that strategy's name. Later strategies are not
// evaluated. If every strategy comes up empty, Resolve returns (nil, "");
// it never fails: a query error just means that strategy found nothing.
func (c *Cascade) Resolve(ctx context.Context, surf surface.Surface) ([]surface.Element, string) {
	return c.resolve(ctx, surf.QueryAll)
}

// ResolveWithin is Resolve scoped to the descendants of a single element.
func (c *Cascade) ResolveWithin(ctx context.Context, root surface.Element) ([]surface.Element, string) {
	return c.resolve(ctx, root.Find)
}

type queryFunc func(ctx context.Context, selector string) ([]surface.Element, error)

func (c *Cascade) resolve(ctx context.Context, query queryFunc) ([]surface.Element, string) {
	for _, strategy := range c.strategies {
		found, err := query(ctx, strategy.Selector)
		if err != nil || len(found) == 0 {
			continue
		}

		if strategy.Filter == nil {
			return found, strategy.Name
		}

		kept := make([]surface.Element, 0, len(found))
		for _, el := range found {
			if strategy.Filter(ctx, el) {
				kept = append(kept, el)
			}
		}
		if len(kept) > 0 {
			return kept, strategy.Name
		}
	}

	return nil, ""
}
