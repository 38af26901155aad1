package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"transcript-search/pkg/domain"
)

func TestWriteCreatesNestedDirectories(t *testing.T) {
	session := domain.NewSearchSession("ai agents", []string{"agent"}, false)
	session.Append(domain.VideoResult{
		ID:    "vid1",
		Title: "Agents Explained",
		URL:   "https://www.youtube.com/watch?v=vid1",
		Matches: []domain.KeywordMatch{{
			Keyword:           "agent",
			OriginalTimestamp: "0:10",
			PreciseTimestamp:  "0:15",
			PreciseSeconds:    15,
			Text:              "the quick agent runs",
			URL:               "https://www.youtube.com/watch?v=vid1&t=15s",
		}},
		FoundAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	})

	path := filepath.Join(t.TempDir(), "reports", "session.json")
	if err := Write(session, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded domain.SearchSession
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if decoded.Query != "ai agents" {
		t.Errorf("query = %q, want %q", decoded.Query, "ai agents")
	}
	if len(decoded.Results) != 1 || decoded.Results[0].Matches[0].PreciseSeconds != 15 {
		t.Errorf("results round-trip mismatch: %+v", decoded.Results)
	}
}

func TestWriteRejectsEmptyPath(t *testing.T) {
	session := domain.NewSearchSession("query", []string{"kw"}, false)
	if err := Write(session, ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestWriteRejectsNilSession(t *testing.T) {
	if err := Write(nil, filepath.Join(t.TempDir(), "out.json")); err == nil {
		t.Fatal("expected error for nil session")
	}
}
