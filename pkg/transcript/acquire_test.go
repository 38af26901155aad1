package transcript

import (
	"context"
	"errors"
	"testing"
	"time"

	"transcript-search/pkg/domain"
	"transcript-search/pkg/surface"
)

// scriptedElement is an element whose click can mutate the surface, modeling
// menus and panels that open in response to activation.
type scriptedElement struct {
	text     string
	attrs    map[string]string
	hidden   bool
	width    float64
	height   float64
	icon     bool
	children map[string][]surface.Element
	onClick  func()
}

func (e *scriptedElement) Text(ctx context.Context) (string, error) { return e.text, nil }

func (e *scriptedElement) Attr(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *scriptedElement) Click(ctx context.Context) error {
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *scriptedElement) Visible(ctx context.Context) (bool, error) { return !e.hidden, nil }

func (e *scriptedElement) Size(ctx context.Context) (float64, float64, error) {
	return e.width, e.height, nil
}

func (e *scriptedElement) NextSiblingText(ctx context.Context) (string, error) { return "", nil }

func (e *scriptedElement) Find(ctx context.Context, selector string) ([]surface.Element, error) {
	if e.icon && selector == "yt-icon, svg, path" {
		return []surface.Element{&scriptedElement{}}, nil
	}
	return e.children[selector], nil
}

// scriptedSurface serves elements by exact selector string; click handlers
// mutate the map to reveal menus and panels.
type scriptedSurface struct {
	results map[string][]surface.Element
}

func newScriptedSurface() *scriptedSurface {
	return &scriptedSurface{results: make(map[string][]surface.Element)}
}

func (s *scriptedSurface) Navigate(ctx context.Context, url string) error { return nil }

func (s *scriptedSurface) QueryAll(ctx context.Context, selector string) ([]surface.Element, error) {
	return s.results[selector], nil
}

func (s *scriptedSurface) ScrollBy(ctx context.Context, pixels int) error   { return nil }
func (s *scriptedSurface) ScrollToEnd(ctx context.Context) error            { return nil }
func (s *scriptedSurface) Sleep(ctx context.Context, d time.Duration) error { return nil }
func (s *scriptedSurface) HTML(ctx context.Context) (string, error)         { return "", nil }

func segmentContainer(timestamp, text string) surface.Element {
	return &scriptedElement{
		children: map[string][]surface.Element{
			".segment-timestamp":               {&scriptedElement{text: timestamp}},
			"yt-formatted-string.segment-text": {&scriptedElement{text: text}},
		},
	}
}

var watchCandidate = domain.ResourceCandidate{
	URL: "https://www.youtube.com/watch?v=abc123",
	ID:  "abc123",
}

// TestAcquireDirectTranscriptControl verifies the path where a layout exposes
// the transcript control directly: clicking it reveals the segment panel.
func TestAcquireDirectTranscriptControl(t *testing.T) {
	surf := newScriptedSurface()

	direct := &scriptedElement{text: "Show transcript"}
	direct.onClick = func() {
		surf.results["ytd-transcript-segment-renderer"] = []surface.Element{
			segmentContainer("0:00", "hello and welcome"),
			segmentContainer("0:10", "to the show"),
		}
	}
	surf.results["button, a, [role='button'], yt-formatted-string"] = []surface.Element{direct}

	acquirer := NewAcquirer(surf, Config{})
	segments, err := acquirer.Acquire(context.Background(), watchCandidate)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "hello and welcome" {
		t.Errorf("segment 0 text = %q", segments[0].Text)
	}
}

// TestAcquireStandardMenuCascade verifies the menu path: no direct control, a
// labeled icon button opens the menu, whose transcript item opens the panel.
func TestAcquireStandardMenuCascade(t *testing.T) {
	surf := newScriptedSurface()
	const menuItems = "ytd-menu-service-item-renderer, tp-yt-paper-item, [role='menuitem']"

	more := &scriptedElement{
		attrs: map[string]string{"aria-label": "More actions"},
		icon:  true,
		width: 40, height: 40,
	}
	more.onClick = func() {
		item := &scriptedElement{text: "Show transcript"}
		item.onClick = func() {
			surf.results["ytd-transcript-segment-renderer"] = []surface.Element{
				segmentContainer("0:05", "first words"),
			}
		}
		surf.results[menuItems] = []surface.Element{item}
	}
	surf.results["button[aria-label]"] = []surface.Element{more}
	surf.results["button"] = []surface.Element{more}

	acquirer := NewAcquirer(surf, Config{})
	segments, err := acquirer.Acquire(context.Background(), watchCandidate)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "first words" {
		t.Fatalf("segments = %+v", segments)
	}
}

// TestAcquireConsentDialogDismissed verifies a consent dialog is clicked away
// before the transcript search starts.
func TestAcquireConsentDialogDismissed(t *testing.T) {
	surf := newScriptedSurface()

	dismissed := false
	consent := &scriptedElement{text: "Accept all"}
	consent.onClick = func() {
		dismissed = true
		// Only after dismissal does the direct control become reachable.
		direct := &scriptedElement{text: "Show transcript"}
		direct.onClick = func() {
			surf.results["ytd-transcript-segment-renderer"] = []surface.Element{
				segmentContainer("0:00", "post-consent content"),
			}
		}
		surf.results["button, a, [role='button'], yt-formatted-string"] = []surface.Element{direct}
	}
	surf.results["button, tp-yt-paper-button, ytd-button-renderer"] = []surface.Element{consent}

	acquirer := NewAcquirer(surf, Config{})
	segments, err := acquirer.Acquire(context.Background(), watchCandidate)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if !dismissed {
		t.Error("consent dialog was not dismissed")
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
}

// TestAcquireShortsSkipsWithoutOverflow verifies the short-form variant skips
// immediately when no overflow control is found, without raising, and that a
// following acquisition starts clean.
func TestAcquireShortsSkipsWithoutOverflow(t *testing.T) {
	surf := newScriptedSurface()
	shorts := domain.ResourceCandidate{
		URL: "https://www.youtube.com/shorts/xyz789",
		ID:  "xyz789",
	}

	acquirer := NewAcquirer(surf, Config{})

	segments, err := acquirer.Acquire(context.Background(), shorts)
	if !errors.Is(err, ErrSkipped) {
		t.Fatalf("err = %v, want ErrSkipped", err)
	}
	if segments != nil {
		t.Errorf("got %d segments on skip, want none", len(segments))
	}

	var skipErr *SkipError
	if !errors.As(err, &skipErr) {
		t.Fatal("error is not a *SkipError")
	}
	if skipErr.State != StateMenuCascade {
		t.Errorf("skip state = %s, want %s", skipErr.State, StateMenuCascade)
	}

	// The acquirer holds no per-candidate state: the next candidate begins
	// from a clean start and can succeed.
	direct := &scriptedElement{text: "Show transcript"}
	direct.onClick = func() {
		surf.results["ytd-transcript-segment-renderer"] = []surface.Element{
			segmentContainer("0:00", "next candidate works"),
		}
	}
	surf.results["button, a, [role='button'], yt-formatted-string"] = []surface.Element{direct}

	if _, err := acquirer.Acquire(context.Background(), watchCandidate); err != nil {
		t.Fatalf("second Acquire after a skip returned error: %v", err)
	}
}

// TestAcquirePanelWithoutSegmentsSkips verifies a reachable panel that parses
// to zero segments ends in a skip, not a success.
func TestAcquirePanelWithoutSegmentsSkips(t *testing.T) {
	surf := newScriptedSurface()

	direct := &scriptedElement{text: "Show transcript"}
	surf.results["button, a, [role='button'], yt-formatted-string"] = []surface.Element{direct}

	acquirer := NewAcquirer(surf, Config{})
	_, err := acquirer.Acquire(context.Background(), watchCandidate)
	if !errors.Is(err, ErrSkipped) {
		t.Fatalf("err = %v, want ErrSkipped", err)
	}

	var skipErr *SkipError
	if !errors.As(err, &skipErr) {
		t.Fatal("error is not a *SkipError")
	}
	if skipErr.State != StatePanelReady {
		t.Errorf("skip state = %s, want %s", skipErr.State, StatePanelReady)
	}
}

// TestAcquireLanguageDropdownPrefersAutoGenerated verifies the language
// selection precedence: the auto-generated option wins over others.
func TestAcquireLanguageDropdownPrefersAutoGenerated(t *testing.T) {
	surf := newScriptedSurface()

	var clicked string
	option := func(text string) surface.Element {
		el := &scriptedElement{text: text}
		el.onClick = func() { clicked = text }
		return el
	}

	dropdown := &scriptedElement{text: "Transcript language"}
	dropdown.onClick = func() {
		surf.results["tp-yt-paper-item, tp-yt-paper-listbox [role='option'], option"] = []surface.Element{
			option("French"),
			option("English"),
			option("English (auto-generated)"),
		}
	}
	surf.results["tp-yt-paper-dropdown-menu, yt-dropdown-menu, tp-yt-paper-menu-button, select"] = []surface.Element{dropdown}

	direct := &scriptedElement{text: "Show transcript"}
	direct.onClick = func() {
		surf.results["ytd-transcript-segment-renderer"] = []surface.Element{
			segmentContainer("0:00", "parlez-vous"),
		}
	}
	surf.results["button, a, [role='button'], yt-formatted-string"] = []surface.Element{direct}

	acquirer := NewAcquirer(surf, Config{})
	if _, err := acquirer.Acquire(context.Background(), watchCandidate); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if clicked != "English (auto-generated)" {
		t.Errorf("selected option = %q, want the auto-generated one", clicked)
	}
}
