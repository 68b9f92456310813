package reporting

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11y-infra/at-acceptor/runner"
	"github.com/a11y-infra/at-acceptor/types"
)

func sampleRun() *runner.RunResult {
	return &runner.RunResult{
		RunID:    "run-123",
		Backends: []types.BackendID{types.BackendNVDA, types.BackendJAWS},
		Suites:   []string{"aria"},
		Results: []types.TestResult{
			{
				TestName:       "aria-button-role",
				Backend:        types.BackendNVDA,
				Passed:         false,
				ActualOutput:   "unlabelled element",
				ExpectedOutput: "Submit order, button",
				Violations: []types.Violation{{
					Rule:          "missing-accessible-name",
					Severity:      types.SeverityCritical,
					WCAGCriterion: "4.1.2",
					Description:   "element has no accessible name",
				}},
			},
			{
				TestName:       "aria-button-role",
				Backend:        types.BackendJAWS,
				Passed:         false,
				ActualOutput:   "unlabelled element.",
				ExpectedOutput: "Submit order, button",
			},
		},
		Stats:    runner.Stats{Total: 2, Passed: 0, Failed: 2},
		Duration: 1500 * time.Millisecond,
	}
}

func sampleComparisons() []types.ComparisonRecord {
	return []types.ComparisonRecord{{
		TestName:    "aria-button-role",
		Consistency: types.Consistent,
		Consensus:   false,
	}}
}

func TestBuildRecommendationTiers(t *testing.T) {
	comparisons := []types.ComparisonRecord{
		{TestName: "everywhere-broken", Consistency: types.Consistent, Consensus: false},
		{TestName: "everywhere-fine", Consistency: types.Consistent, Consensus: true},
		{TestName: "split-verdict", Consistency: types.PartiallyConsistent, Consensus: false},
		{TestName: "chaotic", Consistency: types.Inconsistent, Consensus: false},
	}

	report := Build(sampleRun(), comparisons, nil, "A")

	require.Len(t, report.Recommendations.Critical, 1)
	assert.Contains(t, report.Recommendations.Critical[0], "everywhere-broken")
	require.Len(t, report.Recommendations.Important, 2)
	assert.Contains(t, report.Recommendations.Important[0], "split-verdict")
	assert.NotEmpty(t, report.Recommendations.Suggested)
	assert.Equal(t, 1, report.Summary.CriticalIssues)
}

func TestBuildSummaryFigures(t *testing.T) {
	report := Build(sampleRun(), sampleComparisons(), nil, "non-conforming")

	assert.Equal(t, "run-123", report.RunID)
	assert.Equal(t, 2, report.Summary.TotalTests)
	assert.Equal(t, 2, report.Summary.Failed)
	assert.Zero(t, report.Summary.OverallSuccessRate)
	assert.Equal(t, int64(1500), report.Summary.DurationMs)
	assert.Equal(t, "non-conforming", report.Summary.ComplianceLevel)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestWriteJSONAndMarkdownAgree(t *testing.T) {
	dir := t.TempDir()
	cells := []types.ComplianceCell{{
		Criterion: "4.1.2",
		PerBackendPass: map[types.BackendID]bool{
			types.BackendNVDA: false,
			types.BackendJAWS: true,
		},
		OverallPass: false,
	}}
	report := Build(sampleRun(), sampleComparisons(), cells, "non-conforming")

	jsonPath, err := WriteJSON(dir, report)
	require.NoError(t, err)
	mdPath, err := WriteMarkdown(dir, report)
	require.NoError(t, err)

	assert.Contains(t, jsonPath, "master-report-")
	assert.Contains(t, mdPath, "summary-")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded MasterReport
	require.NoError(t, json.Unmarshal(data, &decoded))

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	markdown := string(md)

	// Cross-format consistency: the figures both formats show come from
	// the same summary.
	assert.Equal(t, report.Summary.TotalTests, decoded.Summary.TotalTests)
	assert.Equal(t, report.Summary.OverallSuccessRate, decoded.Summary.OverallSuccessRate)
	assert.Equal(t, report.Summary.CriticalIssues, decoded.Summary.CriticalIssues)
	assert.Contains(t, markdown, "Total tests: 2")
	assert.Contains(t, markdown, "Critical issues: 1")
	assert.Contains(t, markdown, "Overall success rate: 0.0%")
}

func TestFormatMarkdownSections(t *testing.T) {
	cells := []types.ComplianceCell{{
		Criterion: "4.1.2",
		PerBackendPass: map[types.BackendID]bool{
			types.BackendNVDA: false,
			types.BackendJAWS: true,
		},
		OverallPass: false,
	}}
	run := sampleRun()
	run.Errors = []runner.RunError{{
		Backend: types.BackendJAWS,
		Stage:   runner.StageInitialize,
		Message: "session refused",
	}}
	report := Build(run, sampleComparisons(), cells, "non-conforming")

	markdown := FormatMarkdown(report)

	for _, section := range []string{
		"# Accessibility Conformance Summary",
		"## Executive summary",
		"## Critical issues",
		"## Important issues",
		"## Compliance",
		"## Per-backend issues",
		"## Suggested improvements",
	} {
		assert.Contains(t, markdown, section)
	}

	assert.Contains(t, markdown, "| 4.1.2 | fail | pass | fail |")
	assert.Contains(t, markdown, "### nvda")
	assert.Contains(t, markdown, "element has no accessible name")
	assert.Contains(t, markdown, "[initialize] session refused")
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	report := Build(sampleRun(), nil, nil, "A")

	path, err := WriteResults(dir, report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimPrefix(path, dir), "/results-"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var payload struct {
		RunID   string             `json:"runId"`
		Results []types.TestResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "run-123", payload.RunID)
	assert.Len(t, payload.Results, 2)
}
