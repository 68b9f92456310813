package acceptor

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/a11y-infra/at-acceptor/runner"
	"github.com/a11y-infra/at-acceptor/types"
)

// ResultFormatter is responsible for formatting and displaying run results.
type ResultFormatter interface {
	FormatResults(out *RunOutput) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
	}
}

// FormatResults formats and displays the run results.
func (f *ConsoleResultFormatter) FormatResults(out *RunOutput) error {
	f.logger.Info("Printing results...")
	result := out.Run

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Accessibility Conformance Results (%s)", formatDuration(result.Duration)))

	// Configure columns
	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Tests", "Passed", "Failed", "Status", "Issue",
	})

	// Set column configurations for better readability
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Issue", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	// Print batches and their results
	for _, batch := range result.Batches {
		t.AppendRow(table.Row{
			"Batch",
			fmt.Sprintf("%s/%s", batch.Backend, batch.Suite),
			formatDuration(batch.Duration),
			batch.Stats.Total,
			batch.Stats.Passed,
			batch.Stats.Failed,
			resultString(batch.Stats.Failed == 0 && batch.Stats.Total > 0),
			"",
		})

		// Print tests in this batch
		tests := batchResults(result, batch)
		for i, test := range tests {
			prefix := "├──"
			if i == len(tests)-1 {
				prefix = "└──"
			}

			t.AppendRow(table.Row{
				"Test",
				fmt.Sprintf("%s %s", prefix, test.TestName),
				fmt.Sprintf("%.1fs", float64(test.TimeTakenMs)/1000),
				"1",
				boolToInt(test.Passed),
				boolToInt(!test.Passed),
				resultString(test.Passed),
				keyIssue(test),
			})
		}

		t.AppendSeparator()
	}

	// Update the table style setting based on result status
	if result.Passed {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	// Add summary footer
	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(result.Duration),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		resultString(result.Passed),
		fmt.Sprintf("WCAG %s", out.Level),
	})

	t.Render()
	return nil
}

// batchResults returns the results belonging to one batch, in run order.
func batchResults(result *runner.RunResult, batch runner.BatchSummary) []types.TestResult {
	var out []types.TestResult
	for _, r := range result.Results {
		if r.Backend == batch.Backend && r.Metadata["suite"] == batch.Suite {
			out = append(out, r)
		}
	}
	return out
}

// keyIssue extracts the most pertinent issue from a failed result for display.
func keyIssue(result types.TestResult) string {
	if result.Passed || len(result.Violations) == 0 {
		return ""
	}

	// Show the most severe violation first.
	top := result.Violations[0]
	for _, v := range result.Violations[1:] {
		if v.Severity.Rank() > top.Severity.Rank() {
			top = v
		}
	}

	msg := fmt.Sprintf("[%s] %s: %s", top.Severity, top.Rule, top.Description)
	if idx := strings.Index(msg, "\n"); idx != -1 {
		msg = msg[:idx]
	}
	if len(msg) > 80 {
		msg = msg[:70] + "..."
	}
	return msg
}
