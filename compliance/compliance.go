// Package compliance aggregates normalized results into per-criterion WCAG
// compliance across backends and computes the overall conformance level.
package compliance

import (
	"sort"

	"github.com/a11y-infra/at-acceptor/types"
)

// Aggregate builds one ComplianceCell per WCAG criterion exercised by the
// run. A criterion is exercised when a test case is tagged with it or a
// backend reported a violation against it. A backend passes a criterion iff
// it reported zero violations tagged with that criterion; the overall
// verdict is the conjunction across all enabled backends.
func Aggregate(results []types.TestResult, backends []types.BackendID) []types.ComplianceCell {
	violated := make(map[string]map[types.BackendID]bool)
	exercised := make(map[string]bool)

	for _, r := range results {
		if c := r.Metadata["wcag"]; c != "" {
			exercised[c] = true
		}
		for _, v := range r.Violations {
			if v.WCAGCriterion == "" {
				continue
			}
			exercised[v.WCAGCriterion] = true
			if violated[v.WCAGCriterion] == nil {
				violated[v.WCAGCriterion] = make(map[types.BackendID]bool)
			}
			violated[v.WCAGCriterion][r.Backend] = true
		}
	}

	criteria := make([]string, 0, len(exercised))
	for c := range exercised {
		criteria = append(criteria, c)
	}
	sort.Strings(criteria)

	cells := make([]types.ComplianceCell, 0, len(criteria))
	for _, c := range criteria {
		cell := types.ComplianceCell{
			Criterion:      c,
			PerBackendPass: make(map[types.BackendID]bool, len(backends)),
			OverallPass:    true,
		}
		for _, b := range backends {
			pass := !violated[c][b]
			cell.PerBackendPass[b] = pass
			cell.OverallPass = cell.OverallPass && pass
		}
		cells = append(cells, cell)
	}
	return cells
}
