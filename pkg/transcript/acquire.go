// Package transcript reaches the transcript panel of a single video through a
// UI-variant-tolerant navigation sequence, then extracts its time-coded
// segments. The navigation surface varies by experiment cohort and content
// type, so every stage is a cascade of alternatives with a soft skip at the
// end, never a hard failure.
package transcript

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"transcript-search/pkg/candidates"
	"transcript-search/pkg/domain"
	"transcript-search/pkg/surface"
)

// Config holds the settle pauses inserted after navigation and activation
// actions. The surface loads asynchronously; the machine waits then re-queries
// rather than assuming readiness.
type Config struct {
	// SettlePause follows small activations (consent dismissal, menu open).
	SettlePause time.Duration

	// MenuPause follows opening the overflow menu, before searching its items.
	MenuPause time.Duration

	// PanelPause follows activating the transcript option, before the panel
	// is queried.
	PanelPause time.Duration
}

// DefaultConfig mirrors the pauses the live surface is observed to need.
func DefaultConfig() Config {
	return Config{
		SettlePause: 1 * time.Second,
		MenuPause:   1500 * time.Millisecond,
		PanelPause:  2 * time.Second,
	}
}

// Acquirer drives the acquisition state machine. It is stateless across
// candidates: every Acquire starts from a clean StateStart.
type Acquirer struct {
	surf surface.Surface
	cfg  Config
}

// NewAcquirer creates an acquirer over the given surface.
func NewAcquirer(surf surface.Surface, cfg Config) *Acquirer {
	return &Acquirer{surf: surf, cfg: cfg}
}

// Acquire runs the state machine for one candidate, whose page is assumed to
// be loaded on the surface, and returns its parsed transcript segments. On any
// dead end it returns an error wrapping ErrSkipped; no failure propagates
// beyond the candidate.
func (a *Acquirer) Acquire(ctx context.Context, candidate domain.ResourceCandidate) ([]domain.TranscriptSegment, error) {
	state := StateStart

	for {
		switch state {
		case StateStart:
			a.dismissConsent(ctx)
			state = StateConsentChecked

		case StateConsentChecked:
			// Some layouts expose the transcript control directly; try that
			// before any menu navigation.
			if a.openDirectTranscript(ctx) {
				state = StateTranscriptOption
			} else {
				state = StateMenuCascade
			}

		case StateMenuCascade:
			var err error
			if candidates.IsShortsURL(candidate.URL) {
				err = a.openShortsOverflow(ctx)
			} else {
				err = a.openStandardOverflow(ctx)
			}
			if err != nil {
				return nil, err
			}
			state = StateAwaitingMenu

		case StateAwaitingMenu:
			_ = a.surf.Sleep(ctx, a.cfg.MenuPause)

			// Idempotent short-circuit: the panel may already be open, e.g.
			// when the direct control and the menu race each other.
			if a.panelPresent(ctx) {
				state = StatePanelReady
				break
			}
			if err := a.locateTranscriptOption(ctx); err != nil {
				return nil, err
			}
			state = StateTranscriptOption

		case StateTranscriptOption:
			_ = a.surf.Sleep(ctx, a.cfg.PanelPause)
			// Best effort: absence of a dropdown means a single transcript is
			// already displayed.
			a.selectTranscriptLanguage(ctx)
			state = StatePanelReady

		case StatePanelReady:
			segments := ParseSegments(ctx, a.surf)
			if len(segments) == 0 {
				return nil, skip(StatePanelReady, "panel reached but no segments parsed")
			}
			state = StateExtracted
			return segments, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, skip(state, "context cancelled: %v", err)
		}
	}
}

// dismissConsent clicks a visible acceptance affirmation if a consent dialog
// is present. Absence of the dialog is not an error.
func (a *Acquirer) dismissConsent(ctx context.Context) {
	button := a.firstVisibleWithText(ctx,
		"button, tp-yt-paper-button, ytd-button-renderer",
		"accept all", "i agree")
	if button == nil {
		return
	}
	if err := button.Click(ctx); err != nil {
		return
	}
	_ = a.surf.Sleep(ctx, a.cfg.SettlePause)
}

// openDirectTranscript activates a directly exposed transcript control and
// reports whether one was found.
func (a *Acquirer) openDirectTranscript(ctx context.Context) bool {
	control := a.firstVisibleWithText(ctx,
		"button, a, [role='button'], yt-formatted-string",
		"transcript")
	if control == nil {
		return false
	}
	if err := control.Click(ctx); err != nil {
		return false
	}
	return true
}

// shortsOverflowSelectors is the restricted set of button classes the
// short-form layout uses for its overflow control.
var shortsOverflowSelectors = []string{
	"ytd-reel-player-overlay-renderer button",
	"#actions button",
	"button.yt-spec-button-shape-next",
}

// openShortsOverflow locates the short-form overflow control by iconography.
// The short-form layout has no further fallback: exhaustion skips immediately.
func (a *Acquirer) openShortsOverflow(ctx context.Context) error {
	for _, sel := range shortsOverflowSelectors {
		found, err := a.surf.QueryAll(ctx, sel)
		if err != nil {
			continue
		}
		for _, el := range found {
			if !isVisible(ctx, el) || !hasIcon(ctx, el) {
				continue
			}
			if err := el.Click(ctx); err != nil {
				continue
			}
			return nil
		}
	}
	return skip(StateMenuCascade, "no overflow control on short-form layout")
}

// standardOverflowSelectors locate the "more actions" control on the standard
// watch layout, most specific first.
var standardOverflowSelectors = []string{
	"#actions button[aria-label]",
	"ytd-menu-renderer #button-shape button",
	"button[aria-label]",
}

// openStandardOverflow walks the more-actions cascade: labeled icon buttons
// first, then any visible icon button, then as a last resort the last
// sufficiently large visible button.
func (a *Acquirer) openStandardOverflow(ctx context.Context) error {
	for _, sel := range standardOverflowSelectors {
		found, err := a.surf.QueryAll(ctx, sel)
		if err != nil {
			continue
		}
		for _, el := range found {
			if !isVisible(ctx, el) || !hasIcon(ctx, el) {
				continue
			}
			label, _, _ := el.Attr(ctx, "aria-label")
			if !strings.Contains(strings.ToLower(label), "more") {
				continue
			}
			if el.Click(ctx) == nil {
				return nil
			}
		}
	}

	// Fallback: any visible button bearing an icon.
	buttons, err := a.surf.QueryAll(ctx, "button")
	if err == nil {
		for _, el := range buttons {
			if isVisible(ctx, el) && hasIcon(ctx, el) && el.Click(ctx) == nil {
				return nil
			}
		}
	}

	// Last resort: the last visible button with a plausible hit target.
	var last surface.Element
	for _, el := range buttons {
		if !isVisible(ctx, el) {
			continue
		}
		w, h, err := el.Size(ctx)
		if err != nil || w <= 20 || h <= 20 {
			continue
		}
		last = el
	}
	if last != nil && last.Click(ctx) == nil {
		return nil
	}

	return skip(StateMenuCascade, "no more-actions control on standard layout")
}

// panelSelectors recognize an open transcript panel.
const panelSelectors = "ytd-transcript-renderer, ytd-transcript-segment-list-renderer, #segments-container"

func (a *Acquirer) panelPresent(ctx context.Context) bool {
	found, err := a.surf.QueryAll(ctx, panelSelectors)
	return err == nil && len(found) > 0
}

// locateTranscriptOption finds and activates the transcript entry of the open
// menu, walking from menu items to a broad text scan to a reopen retry to the
// engagement-panel control.
func (a *Acquirer) locateTranscriptOption(ctx context.Context) error {
	const menuItems = "ytd-menu-service-item-renderer, tp-yt-paper-item, [role='menuitem']"

	if item := a.firstVisibleWithText(ctx, menuItems, "show transcript", "open transcript"); item != nil {
		if item.Click(ctx) == nil {
			return nil
		}
	}

	// Broad scan: any element whose text or accessible label mentions the
	// transcript.
	broad, err := a.surf.QueryAll(ctx, menuItems+", yt-formatted-string, button, a")
	if err == nil {
		for _, el := range broad {
			if !isVisible(ctx, el) {
				continue
			}
			if !textOrLabelContains(ctx, el, "transcript") {
				continue
			}
			if el.Click(ctx) == nil {
				return nil
			}
		}
	}

	// The menu may have closed under us; reopen it once and re-search the
	// freshly opened popup's items.
	if reopen := a.firstVisibleWithLabel(ctx, "button[aria-label]", "more"); reopen != nil {
		if reopen.Click(ctx) == nil {
			_ = a.surf.Sleep(ctx, a.cfg.SettlePause)
			popupItems := "tp-yt-paper-listbox [role='menuitem'], ytd-menu-popup-renderer tp-yt-paper-item"
			if item := a.firstVisibleWithText(ctx, popupItems, "transcript"); item != nil {
				if item.Click(ctx) == nil {
					return nil
				}
			}
		}
	}

	// Direct engagement-panel control, matched on id or label.
	controls, err := a.surf.QueryAll(ctx, "[id*='transcript'], button[aria-label]")
	if err == nil {
		for _, el := range controls {
			id, _, _ := el.Attr(ctx, "id")
			label, _, _ := el.Attr(ctx, "aria-label")
			if !strings.Contains(strings.ToLower(id), "transcript") &&
				!strings.Contains(strings.ToLower(label), "transcript") {
				continue
			}
			if isVisible(ctx, el) && el.Click(ctx) == nil {
				return nil
			}
		}
	}

	return skip(StateAwaitingMenu, "no transcript option in any menu shape")
}

// autoGeneratedRe recognizes the auto-generated transcript label in its
// observed phrasings.
var autoGeneratedRe = regexp.MustCompile(`(?i)auto[\s-]?generated|automatically generated`)

// languageDropdownSelectors are the known dropdown/list-container kinds the
// language selector appears as.
const languageDropdownSelectors = "tp-yt-paper-dropdown-menu, yt-dropdown-menu, tp-yt-paper-menu-button, select"

// selectTranscriptLanguage opens the language dropdown when present and picks
// an option: auto-generated label first, then "english", then the first
// option. No dropdown means a single transcript is already displayed.
func (a *Acquirer) selectTranscriptLanguage(ctx context.Context) {
	dropdowns, err := a.surf.QueryAll(ctx, languageDropdownSelectors)
	if err != nil {
		return
	}

	var dropdown surface.Element
	for _, el := range dropdowns {
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		lower := strings.ToLower(text)
		if strings.Contains(lower, "transcript") || strings.Contains(lower, "auto") ||
			strings.Contains(lower, "english") {
			dropdown = el
			break
		}
	}
	if dropdown == nil {
		return
	}

	if dropdown.Click(ctx) != nil {
		return
	}
	_ = a.surf.Sleep(ctx, a.cfg.SettlePause)

	options, err := a.surf.QueryAll(ctx, "tp-yt-paper-item, tp-yt-paper-listbox [role='option'], option")
	if err != nil || len(options) == 0 {
		return
	}

	chosen := options[0]
	var english surface.Element
	for _, opt := range options {
		text, err := opt.Text(ctx)
		if err != nil {
			continue
		}
		if autoGeneratedRe.MatchString(text) {
			chosen = opt
			english = nil
			break
		}
		if english == nil && strings.Contains(strings.ToLower(text), "english") {
			english = opt
		}
	}
	if english != nil {
		chosen = english
	}

	if err := chosen.Click(ctx); err != nil {
		log.Printf("transcript: language option click failed: %v", err)
		return
	}
	_ = a.surf.Sleep(ctx, a.cfg.SettlePause)
}

// firstVisibleWithText returns the first visible element matching the selector
// whose text contains any of the given substrings, case-insensitively.
func (a *Acquirer) firstVisibleWithText(ctx context.Context, sel string, substrings ...string) surface.Element {
	found, err := a.surf.QueryAll(ctx, sel)
	if err != nil {
		return nil
	}
	for _, el := range found {
		if !isVisible(ctx, el) {
			continue
		}
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		lower := strings.ToLower(text)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return el
			}
		}
	}
	return nil
}

// firstVisibleWithLabel is firstVisibleWithText over the aria-label attribute.
func (a *Acquirer) firstVisibleWithLabel(ctx context.Context, sel string, substring string) surface.Element {
	found, err := a.surf.QueryAll(ctx, sel)
	if err != nil {
		return nil
	}
	for _, el := range found {
		if !isVisible(ctx, el) {
			continue
		}
		label, ok, err := el.Attr(ctx, "aria-label")
		if err != nil || !ok {
			continue
		}
		if strings.Contains(strings.ToLower(label), substring) {
			return el
		}
	}
	return nil
}

func textOrLabelContains(ctx context.Context, el surface.Element, substring string) bool {
	if text, err := el.Text(ctx); err == nil &&
		strings.Contains(strings.ToLower(text), substring) {
		return true
	}
	label, _, _ := el.Attr(ctx, "aria-label")
	return strings.Contains(strings.ToLower(label), substring)
}

func isVisible(ctx context.Context, el surface.Element) bool {
	visible, err := el.Visible(ctx)
	return err == nil && visible
}

// hasIcon reports whether the element carries an icon-bearing child.
func hasIcon(ctx context.Context, el surface.Element) bool {
	icons, err := el.Find(ctx, "yt-icon, svg, path")
	return err == nil && len(icons) > 0
}
