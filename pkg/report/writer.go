// Package report writes completed search sessions to disk as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"transcript-search/pkg/domain"
)

// Write serializes the session to an indented JSON file at path, creating
// parent directories as needed.
func Write(session *domain.SearchSession, path string) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	if path == "" {
		return fmt.Errorf("report path is empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
