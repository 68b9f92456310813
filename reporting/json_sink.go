package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a11y-infra/at-acceptor/types"
)

// timestampLayout names report files so successive runs never collide.
const timestampLayout = "20060102-150405"

// WriteJSON writes the full MasterReport, pretty-printed, into dir and
// returns the file path.
func WriteJSON(dir string, report *MasterReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal master report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("master-report-%s.json", report.GeneratedAt.Format(timestampLayout)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write master report: %w", err)
	}
	return path, nil
}

// WriteResults writes the raw normalized result collection as its own
// artifact, used when individual-report saving is enabled.
func WriteResults(dir string, report *MasterReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	payload := struct {
		RunID   string             `json:"runId"`
		Results []types.TestResult `json:"results"`
	}{RunID: report.RunID, Results: report.Results}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("results-%s.json", report.GeneratedAt.Format(timestampLayout)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	return path, nil
}
