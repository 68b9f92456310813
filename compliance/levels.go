package compliance

import "github.com/a11y-infra/at-acceptor/types"

// Conformance levels, ordered weakest to strongest.
const (
	LevelNone = "non-conforming"
	LevelA    = "A"
	LevelAA   = "AA"
	LevelAAA  = "AAA"
)

// criterionLevels maps the WCAG 2.1 success criteria this system exercises
// to their conformance level. Criteria not listed here still appear in the
// compliance matrix but do not gate the level computation.
var criterionLevels = map[string]string{
	"1.1.1": LevelA,
	"1.3.1": LevelA,
	"2.1.1": LevelA,
	"2.4.1": LevelA,
	"2.4.3": LevelA,
	"3.3.1": LevelA,
	"3.3.2": LevelA,
	"4.1.2": LevelA,

	"1.4.3": LevelAA,
	"2.4.6": LevelAA,
	"2.4.7": LevelAA,
	"3.3.3": LevelAA,
	"4.1.3": LevelAA,

	"1.4.6": LevelAAA,
	"2.4.9": LevelAAA,
	"3.3.5": LevelAAA,
}

// Level returns the highest conformance level for which every exercised
// criterion of that level, and of all lower levels, passes overall.
// Criteria the run never exercised are excluded, not treated as failing.
func Level(cells []types.ComplianceCell) string {
	pass := map[string]bool{LevelA: true, LevelAA: true, LevelAAA: true}
	for _, cell := range cells {
		level, known := criterionLevels[cell.Criterion]
		if !known {
			continue
		}
		if !cell.OverallPass {
			pass[level] = false
		}
	}

	switch {
	case pass[LevelA] && pass[LevelAA] && pass[LevelAAA]:
		return LevelAAA
	case pass[LevelA] && pass[LevelAA]:
		return LevelAA
	case pass[LevelA]:
		return LevelA
	}
	return LevelNone
}
