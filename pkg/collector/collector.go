// Package collector harvests candidate URLs from an infinite-scroll listing
// surface. The surface loads content asynchronously, so each scroll is
// followed by settle pauses before re-querying; the loop is bounded by a
// target count, an attempt ceiling, and a stability ceiling (consecutive
// passes with no growth).
package collector

import (
	"context"
	"log"
	"time"

	"transcript-search/pkg/candidates"
	"transcript-search/pkg/domain"
	"transcript-search/pkg/selector"
	"transcript-search/pkg/surface"
)

// Reason reports why collection stopped.
type Reason string

const (
	ReasonTargetReached     Reason = "target reached"
	ReasonAttemptsExhausted Reason = "attempts exhausted"
	ReasonStable            Reason = "no growth"
)

// Config bounds the collection loop.
type Config struct {
	// TargetCount is how many unique candidates to collect.
	TargetCount int

	// MaxAttempts caps scroll passes regardless of growth.
	MaxAttempts int

	// MaxConsecutiveNoGrowth stops collection after this many scroll passes in
	// a row that surfaced nothing new.
	MaxConsecutiveNoGrowth int

	// ScrollStep is the pixel distance of the first-phase scroll per pass.
	ScrollStep int

	// SettlePause follows the first-phase scroll.
	SettlePause time.Duration

	// LoadPause follows the forced scroll to full extent. It is longer than
	// SettlePause because the listing surface is observed to need more time
	// after a full-extent load trigger.
	LoadPause time.Duration
}

// DefaultConfig mirrors the production listing surface bounds.
func DefaultConfig() Config {
	return Config{
		TargetCount:            100,
		MaxAttempts:            20,
		MaxConsecutiveNoGrowth: 3,
		ScrollStep:             2000,
		SettlePause:            1500 * time.Millisecond,
		LoadPause:              2500 * time.Millisecond,
	}
}

// Collector drives scroll pagination over a surface and accumulates unique
// candidates in discovery order.
type Collector struct {
	surf    surface.Surface
	cascade *selector.Cascade
	cfg     Config

	ordered []domain.ResourceCandidate
	seen    map[string]bool
}

// New creates a collector that locates tiles via the given cascade.
func New(surf surface.Surface, cascade *selector.Cascade, cfg Config) *Collector {
	return &Collector{
		surf:    surf,
		cascade: cascade,
		cfg:     cfg,
		seen:    make(map[string]bool),
	}
}

// Collect runs the pagination loop and returns up to TargetCount candidates in
// discovery order, plus the termination reason. It never fails: query and
// scroll errors just mean a pass surfaced nothing new.
func (c *Collector) Collect(ctx context.Context) ([]domain.ResourceCandidate, Reason) {
	// The surface may already show enough tiles before any scrolling.
	c.snapshot(ctx)

	attempts := 0
	noGrowth := 0

	for len(c.ordered) < c.cfg.TargetCount &&
		attempts < c.cfg.MaxAttempts &&
		noGrowth < c.cfg.MaxConsecutiveNoGrowth {

		previous := len(c.ordered)

		// Two-phase load: a step scroll with a short settle, then a forced
		// full-extent scroll with a longer settle.
		if err := c.surf.ScrollBy(ctx, c.cfg.ScrollStep); err != nil {
			log.Printf("collector: scroll failed: %v", err)
		}
		_ = c.surf.Sleep(ctx, c.cfg.SettlePause)
		if err := c.surf.ScrollToEnd(ctx); err != nil {
			log.Printf("collector: scroll to end failed: %v", err)
		}
		_ = c.surf.Sleep(ctx, c.cfg.LoadPause)

		c.snapshot(ctx)

		if len(c.ordered) == previous {
			noGrowth++
		} else {
			noGrowth = 0
		}
		attempts++

		if ctx.Err() != nil {
			break
		}
	}

	var reason Reason
	switch {
	case len(c.ordered) >= c.cfg.TargetCount:
		reason = ReasonTargetReached
	case noGrowth >= c.cfg.MaxConsecutiveNoGrowth:
		reason = ReasonStable
	default:
		reason = ReasonAttemptsExhausted
	}

	result := c.ordered
	if len(result) > c.cfg.TargetCount {
		result = result[:c.cfg.TargetCount]
	}

	log.Printf("collector: %d candidates after %d attempts (%s)", len(result), attempts, reason)
	return result, reason
}

// snapshot re-queries the surface and folds any new candidates into the
// ordered set, deduplicating by normalized URL.
func (c *Collector) snapshot(ctx context.Context) {
	found, strategy := c.cascade.Resolve(ctx, c.surf)
	if len(found) == 0 {
		return
	}

	added := 0
	for _, el := range found {
		href, ok, err := el.Attr(ctx, "href")
		if err != nil || !ok {
			continue
		}
		candidate, ok := candidates.FromHref(href)
		if !ok || c.seen[candidate.URL] {
			continue
		}
		c.seen[candidate.URL] = true
		c.ordered = append(c.ordered, candidate)
		added++
	}

	if added > 0 {
		log.Printf("collector: +%d candidates via %s (total %d)", added, strategy, len(c.ordered))
	}
}
