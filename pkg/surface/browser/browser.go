// Package browser implements surface.Surface over a live headless Chrome tab
// driven through chromedp. All element handles are CDP nodes; geometry and
// sibling lookups go through the DOM domain so they reflect the rendered page,
// not a snapshot.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"transcript-search/pkg/surface"
)

// Options configures the browser surface.
type Options struct {
	// Headless runs Chrome without a visible window. Default true.
	Headless bool

	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string

	// NavigateTimeout bounds a single Navigate call. Zero means 60s.
	NavigateTimeout time.Duration
}

// Surface drives a single Chrome tab.
type Surface struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	navTimeout    time.Duration
}

// New starts a browser and opens a blank tab. A failure here is fatal to the
// run: no candidate can be processed without a working surface.
func New(ctx context.Context, opts Options) (*Surface, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("mute-audio", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	bctx, cancelBrowser := chromedp.NewContext(actx)

	// Running an empty action list forces the browser to start now, so a
	// missing or incompatible Chrome binary surfaces before any candidate.
	if err := chromedp.Run(bctx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	navTimeout := opts.NavigateTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}

	return &Surface{
		ctx:           bctx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		navTimeout:    navTimeout,
	}, nil
}

// Close shuts the tab and the browser down.
func (s *Surface) Close() {
	s.cancelBrowser()
	s.cancelAlloc()
}

func (s *Surface) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()

	return chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *Surface) QueryAll(ctx context.Context, selector string) ([]surface.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var nodes []*cdp.Node
	err := chromedp.Run(s.ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	elements := make([]surface.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &Element{surf: s, node: n})
	}
	return elements, nil
}

func (s *Surface) ScrollBy(ctx context.Context, pixels int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	js := fmt.Sprintf("window.scrollBy(0, %d)", pixels)
	return chromedp.Run(s.ctx, chromedp.Evaluate(js, nil))
}

func (s *Surface) ScrollToEnd(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	const js = "window.scrollTo(0, document.documentElement.scrollHeight)"
	return chromedp.Run(s.ctx, chromedp.Evaluate(js, nil))
}

func (s *Surface) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, chromedp.Sleep(d))
}

func (s *Surface) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var html string
	err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Element is a handle to a CDP node in the live tab.
type Element struct {
	surf *Surface
	node *cdp.Node
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var text string
	err := chromedp.Run(e.surf.ctx,
		chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID),
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	attrs := e.node.Attributes
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == name {
			return attrs[i+1], true, nil
		}
	}
	return "", false, nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(e.surf.ctx, chromedp.MouseClickNode(e.node))
}

// Visible reports whether the node has a rendered box.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	w, h, err := e.Size(ctx)
	if err != nil {
		return false, nil
	}
	return w > 0 && h > 0, nil
}

func (e *Element) Size(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	var width, height float64
	err := chromedp.Run(e.surf.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		box, err := dom.GetBoxModel().WithNodeID(e.node.NodeID).Do(cctx)
		if err != nil {
			return err
		}
		width = float64(box.Width)
		height = float64(box.Height)
		return nil
	}))
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func (e *Element) NextSiblingText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	js := fmt.Sprintf(`(() => {
		const r = document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
		const n = r.singleNodeValue;
		if (!n || !n.nextElementSibling) { return ""; }
		return n.nextElementSibling.textContent.trim();
	})()`, e.node.FullXPath())

	var text string
	if err := chromedp.Run(e.surf.ctx, chromedp.Evaluate(js, &text)); err != nil {
		return "", err
	}
	return text, nil
}

func (e *Element) Find(ctx context.Context, selector string) ([]surface.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var nodes []*cdp.Node
	err := chromedp.Run(e.surf.ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, err
	}

	elements := make([]surface.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &Element{surf: e.surf, node: n})
	}
	return elements, nil
}
