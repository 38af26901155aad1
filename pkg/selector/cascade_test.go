package selector

import (
	"context"
	"time"

	"testing"

	"transcript-search/pkg/surface"
)

// fakeElement is a minimal element with fixed text and attributes.
type fakeElement struct {
	text  string
	attrs map[string]string
}

func (e *fakeElement) Text(ctx context.Context) (string, error) { return e.text, nil }

func (e *fakeElement) Attr(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) Click(ctx context.Context) error            { return nil }
func (e *fakeElement) Visible(ctx context.Context) (bool, error)  { return true, nil }
func (e *fakeElement) Size(ctx context.Context) (float64, float64, error) {
	return 0, 0, nil
}
func (e *fakeElement) NextSiblingText(ctx context.Context) (string, error) { return "", nil }
func (e *fakeElement) Find(ctx context.Context, selector string) ([]surface.Element, error) {
	return nil, nil
}

// fakeSurface serves canned results per selector and records which selectors
// were evaluated.
type fakeSurface struct {
	results   map[string][]surface.Element
	evaluated []string
}

func (s *fakeSurface) Navigate(ctx context.Context, url string) error { return nil }

func (s *fakeSurface) QueryAll(ctx context.Context, selector string) ([]surface.Element, error) {
	s.evaluated = append(s.evaluated, selector)
	return s.results[selector], nil
}

func (s *fakeSurface) ScrollBy(ctx context.Context, pixels int) error       { return nil }
func (s *fakeSurface) ScrollToEnd(ctx context.Context) error                { return nil }
func (s *fakeSurface) Sleep(ctx context.Context, d time.Duration) error     { return nil }
func (s *fakeSurface) HTML(ctx context.Context) (string, error)             { return "", nil }

// TestResolveShortCircuit verifies that the cascade returns the first
// non-empty, filter-passing strategy and never evaluates anything past it.
func TestResolveShortCircuit(t *testing.T) {
	surf := &fakeSurface{results: map[string][]surface.Element{
		"c": {
			&fakeElement{text: "keep", attrs: map[string]string{"href": "/watch?v=abc"}},
			&fakeElement{text: "drop"},
		},
		"d": {&fakeElement{text: "never reached"}},
	}}

	hrefFilter := func(ctx context.Context, el surface.Element) bool {
		_, ok, _ := el.Attr(ctx, "href")
		return ok
	}

	cascade := NewCascade(
		Strategy{Name: "s0", Selector: "a"},
		Strategy{Name: "s1", Selector: "b"},
		Strategy{Name: "s2", Selector: "c", Filter: hrefFilter},
		Strategy{Name: "s3", Selector: "d"},
	)

	found, name := cascade.Resolve(context.Background(), surf)

	if name != "s2" {
		t.Fatalf("winning strategy = %q, want %q", name, "s2")
	}
	if len(found) != 1 {
		t.Fatalf("got %d elements, want 1 filter-passing element", len(found))
	}
	text, _ := found[0].Text(context.Background())
	if text != "keep" {
		t.Errorf("kept element text = %q, want %q", text, "keep")
	}

	for _, sel := range surf.evaluated {
		if sel == "d" {
			t.Error("strategy s3 was evaluated after s2 already succeeded")
		}
	}
}

// TestResolveAllEmpty verifies that a fully exhausted cascade reports empty
// without an error or panic.
func TestResolveAllEmpty(t *testing.T) {
	surf := &fakeSurface{results: map[string][]surface.Element{}}

	cascade := NewCascade(
		Strategy{Name: "s0", Selector: "a"},
		Strategy{Name: "s1", Selector: "b"},
	)

	found, name := cascade.Resolve(context.Background(), surf)
	if len(found) != 0 {
		t.Errorf("got %d elements, want 0", len(found))
	}
	if name != "" {
		t.Errorf("strategy name = %q, want empty", name)
	}
}

// TestResolveFilterRejectsAll verifies that a strategy whose hits all fail the
// filter falls through to the next strategy.
func TestResolveFilterRejectsAll(t *testing.T) {
	surf := &fakeSurface{results: map[string][]surface.Element{
		"a": {&fakeElement{text: "no href"}},
		"b": {&fakeElement{text: "plain"}},
	}}

	rejectAll := func(ctx context.Context, el surface.Element) bool { return false }

	cascade := NewCascade(
		Strategy{Name: "s0", Selector: "a", Filter: rejectAll},
		Strategy{Name: "s1", Selector: "b"},
	)

	found, name := cascade.Resolve(context.Background(), surf)
	if name != "s1" {
		t.Fatalf("winning strategy = %q, want %q", name, "s1")
	}
	if len(found) != 1 {
		t.Fatalf("got %d elements, want 1", len(found))
	}
}
