// Package catalog produces the canonical, backend-agnostic test suites.
// Suites are a closed set; BuildSuite is deterministic and side-effect free
// so the same suite name always yields the same cases in the same order.
package catalog

import (
	"fmt"
	"slices"

	"github.com/a11y-infra/at-acceptor/types"
)

const (
	SuiteARIA        = "aria"
	SuiteForms       = "forms"
	SuiteTables      = "tables"
	SuiteNavigation  = "navigation"
	SuiteLiveRegions = "live-regions"
)

// SuiteNames returns the closed set of suite names, in canonical order.
func SuiteNames() []string {
	return []string{SuiteARIA, SuiteForms, SuiteTables, SuiteNavigation, SuiteLiveRegions}
}

// ValidSuite reports whether name is a member of the suite set.
func ValidSuite(name string) bool {
	return slices.Contains(SuiteNames(), name)
}

// BuildSuite returns the test cases for the named suite. Unknown suite names
// are a caller error and fail before any backend work starts.
func BuildSuite(name string) ([]types.TestCase, error) {
	cases, ok := suites[name]
	if !ok {
		return nil, fmt.Errorf("unsupported suite %q (valid: %v)", name, SuiteNames())
	}
	// Hand out a copy so callers cannot mutate the catalog.
	out := make([]types.TestCase, len(cases))
	copy(out, cases)
	return out, nil
}

var suites = map[string][]types.TestCase{
	SuiteARIA: {
		{
			Name:            "aria-button-role",
			TargetSelector:  "[data-test='primary-action']",
			ExpectedOutcome: "Submit order, button",
			Metadata:        map[string]string{"wcag": "4.1.2", "element": "button"},
		},
		{
			Name:            "aria-expanded-state",
			TargetSelector:  "[data-test='filter-toggle']",
			ExpectedOutcome: "Filters, button, collapsed",
			Metadata:        map[string]string{"wcag": "4.1.2", "element": "disclosure"},
		},
		{
			Name:            "aria-labelled-landmark",
			TargetSelector:  "nav[aria-label='Breadcrumb']",
			ExpectedOutcome: "Breadcrumb, navigation landmark",
			Metadata:        map[string]string{"wcag": "1.3.1", "element": "landmark"},
		},
		{
			Name:            "aria-modal-dialog",
			TargetSelector:  "[role='dialog']",
			ExpectedOutcome: "Confirm deletion, dialog",
			Metadata:        map[string]string{"wcag": "4.1.2", "element": "dialog"},
		},
	},
	SuiteForms: {
		{
			Name:            "form-input-label",
			TargetSelector:  "#email",
			ExpectedOutcome: "Email address, edit, required",
			Metadata:        map[string]string{"wcag": "3.3.2", "element": "input"},
		},
		{
			Name:            "form-error-announcement",
			TargetSelector:  "#email + [role='alert']",
			ExpectedOutcome: "Enter a valid email address, alert",
			Metadata:        map[string]string{"wcag": "3.3.1", "element": "error"},
		},
		{
			Name:            "form-fieldset-legend",
			TargetSelector:  "fieldset.shipping",
			ExpectedOutcome: "Shipping method, group",
			Metadata:        map[string]string{"wcag": "1.3.1", "element": "fieldset"},
		},
		{
			Name:            "form-select-options",
			TargetSelector:  "#country",
			ExpectedOutcome: "Country, combo box",
			Metadata:        map[string]string{"wcag": "4.1.2", "element": "select"},
		},
	},
	SuiteTables: {
		{
			Name:            "table-caption",
			TargetSelector:  "table.orders",
			ExpectedOutcome: "Order history, table",
			Metadata:        map[string]string{"wcag": "1.3.1", "element": "table"},
		},
		{
			Name:            "table-column-headers",
			TargetSelector:  "table.orders th",
			ExpectedOutcome: "Date, column header",
			Metadata:        map[string]string{"wcag": "1.3.1", "element": "header"},
		},
		{
			Name:            "table-cell-context",
			TargetSelector:  "table.orders td:nth-child(2)",
			ExpectedOutcome: "Total, column 2, 42.50",
			Metadata:        map[string]string{"wcag": "1.3.1", "element": "cell"},
		},
	},
	SuiteNavigation: {
		{
			Name:            "nav-skip-link",
			TargetSelector:  "a.skip-to-content",
			ExpectedOutcome: "Skip to main content, link",
			Metadata:        map[string]string{"wcag": "2.4.1", "element": "link"},
		},
		{
			Name:            "nav-heading-order",
			TargetSelector:  "main h1",
			ExpectedOutcome: "Checkout, heading level 1",
			Metadata:        map[string]string{"wcag": "2.4.6", "element": "heading"},
		},
		{
			Name:            "nav-focus-visible",
			TargetSelector:  "a.primary-nav",
			ExpectedOutcome: "Products, link, focused",
			Metadata:        map[string]string{"wcag": "2.4.7", "element": "link"},
		},
		{
			Name:            "nav-tab-order",
			TargetSelector:  "form.checkout",
			ExpectedOutcome: "Card number, edit",
			Metadata:        map[string]string{"wcag": "2.4.3", "element": "input"},
		},
	},
	SuiteLiveRegions: {
		{
			Name:            "live-polite-status",
			TargetSelector:  "[role='status']",
			ExpectedOutcome: "3 items in cart",
			Metadata:        map[string]string{"wcag": "4.1.3", "element": "status"},
		},
		{
			Name:            "live-assertive-alert",
			TargetSelector:  "[role='alert']",
			ExpectedOutcome: "Session expires in one minute, alert",
			Metadata:        map[string]string{"wcag": "4.1.3", "element": "alert"},
		},
		{
			Name:            "live-progress-update",
			TargetSelector:  "[role='progressbar']",
			ExpectedOutcome: "Uploading, 50 percent",
			Metadata:        map[string]string{"wcag": "4.1.3", "element": "progressbar"},
		},
	},
}
