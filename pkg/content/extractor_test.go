package content

import "testing"

func TestExtractTitleStripsSiteSuffix(t *testing.T) {
	html := `<html><head><title>Building Agents in Go - YouTube</title></head><body><p>video page</p></body></html>`

	got, err := ExtractTitle(html)
	if err != nil {
		t.Fatalf("ExtractTitle returned error: %v", err)
	}
	if got != "Building Agents in Go" {
		t.Errorf("ExtractTitle = %q, want %q", got, "Building Agents in Go")
	}
}

func TestExtractTitleOGFallback(t *testing.T) {
	html := `<html><head><meta property="og:title" content="Fallback Title"></head><body></body></html>`

	got, err := ExtractTitle(html)
	if err != nil {
		t.Fatalf("ExtractTitle returned error: %v", err)
	}
	if got != "Fallback Title" {
		t.Errorf("ExtractTitle = %q, want %q", got, "Fallback Title")
	}
}

func TestExtractTitleMissing(t *testing.T) {
	if got, err := ExtractTitle(`<html><body><div></div></body></html>`); err == nil {
		t.Errorf("ExtractTitle = %q, want error for titleless HTML", got)
	}
}
