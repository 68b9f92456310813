package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a11y-infra/at-acceptor/types"
)

// WriteMarkdown writes the condensed human-readable summary into dir and
// returns the file path. Every figure is taken from the same MasterReport
// the JSON sink serializes.
func WriteMarkdown(dir string, report *MasterReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("summary-%s.md", report.GeneratedAt.Format(timestampLayout)))
	if err := os.WriteFile(path, []byte(FormatMarkdown(report)), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}

// FormatMarkdown renders the summary document.
func FormatMarkdown(report *MasterReport) string {
	var b strings.Builder
	s := report.Summary

	fmt.Fprintf(&b, "# Accessibility Conformance Summary\n\n")
	fmt.Fprintf(&b, "Run `%s` — %s\n\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "## Executive summary\n\n")
	fmt.Fprintf(&b, "- Total tests: %d\n", s.TotalTests)
	fmt.Fprintf(&b, "- Passed: %d\n", s.Passed)
	fmt.Fprintf(&b, "- Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "- Overall success rate: %.1f%%\n", s.OverallSuccessRate*100)
	fmt.Fprintf(&b, "- Critical issues: %d\n", s.CriticalIssues)
	fmt.Fprintf(&b, "- Compliance level: %s\n", s.ComplianceLevel)
	fmt.Fprintf(&b, "- Backends: %s\n", joinBackends(s.Backends))
	fmt.Fprintf(&b, "- Suites: %s\n", strings.Join(s.Suites, ", "))
	fmt.Fprintf(&b, "- Duration: %dms\n\n", s.DurationMs)

	fmt.Fprintf(&b, "## Critical issues\n\n")
	writeList(&b, report.Recommendations.Critical, "No issues fail on every backend.")

	fmt.Fprintf(&b, "## Important issues\n\n")
	writeList(&b, report.Recommendations.Important, "No cross-backend disagreements detected.")

	fmt.Fprintf(&b, "## Compliance\n\n")
	fmt.Fprintf(&b, "Conformance level: **%s**\n\n", report.Compliance.Level)
	if len(report.Compliance.Cells) > 0 {
		fmt.Fprintf(&b, "| Criterion | %s | Overall |\n", joinBackendHeader(s.Backends))
		fmt.Fprintf(&b, "|---|%s---|\n", strings.Repeat("---|", len(s.Backends)))
		for _, cell := range report.Compliance.Cells {
			fmt.Fprintf(&b, "| %s |", cell.Criterion)
			for _, backendID := range s.Backends {
				fmt.Fprintf(&b, " %s |", passMark(cell.PerBackendPass[backendID]))
			}
			fmt.Fprintf(&b, " %s |\n", passMark(cell.OverallPass))
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Per-backend issues\n\n")
	for _, backendID := range s.Backends {
		fmt.Fprintf(&b, "### %s\n\n", backendID)
		issues := backendIssues(report, backendID)
		writeList(&b, issues, "No issues recorded.")
	}

	fmt.Fprintf(&b, "## Suggested improvements\n\n")
	writeList(&b, report.Recommendations.Suggested, "")

	return b.String()
}

// backendIssues collects a backend's violations and recovered run errors.
func backendIssues(report *MasterReport, backendID types.BackendID) []string {
	var issues []string
	for _, e := range report.Errors {
		if e.Backend == backendID {
			issues = append(issues, fmt.Sprintf("[%s] %s", e.Stage, e.Message))
		}
	}
	for _, r := range report.Results {
		if r.Backend != backendID {
			continue
		}
		for _, v := range r.Violations {
			issue := fmt.Sprintf("%s: %s (%s", r.TestName, v.Description, v.Severity)
			if v.WCAGCriterion != "" {
				issue += ", WCAG " + v.WCAGCriterion
			}
			issue += ")"
			issues = append(issues, issue)
		}
	}
	return issues
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		if empty != "" {
			fmt.Fprintf(b, "%s\n\n", empty)
		}
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	fmt.Fprintf(b, "\n")
}

func passMark(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}

func joinBackends(ids []types.BackendID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func joinBackendHeader(ids []types.BackendID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, " | ")
}
