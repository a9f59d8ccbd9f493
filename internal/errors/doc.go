// Package errors provides structured, actionable errors for sortable's
// configuration, wire protocol, scenario replay and CLI layers.
//
// The drag and binding widgets themselves never fail; this package covers
// everything around them that reads input from outside the process.
//
// # Error Categories
//
//   - config: invalid options, selectors or sortable.json values
//   - protocol: malformed frames, unknown events, limit violations
//   - scenario: replay scenario parse errors and failed expectations
//   - cli: command-line usage errors
//
// # Error Codes
//
// Each error has a code (e.g. "E100") mapping to a short message and a
// detailed explanation.
//
// # Usage
//
//	err := errors.New(errors.CodeInvalidItemSelector).
//	    WithDetail(`selector "li[" does not parse`).
//	    WithSuggestion("Use a CSS selector such as .sortable-element")
//
//	fmt.Println(err.Format())
//
// Errors attached to a scenario file point at the offending line:
//
//	// ERROR E302: Final order mismatch
//	//
//	//   scenarios/basic.yaml:14:3
//	//
//	//       12 │ steps:
//	//       13 │   - up: [10, 100]
//	//   →   14 │ expect:
//	//          │ ^
package errors
