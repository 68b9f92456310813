// Package exitcodes defines the standard exit codes used by at-acceptor.
package exitcodes

// Exit code constants used by at-acceptor
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every test case passes on every backend
// * TestFailure (1): Used when one or more test cases fail
// * RuntimeErr (2): Used for runtime errors such as panics, bad configuration or adapter wiring failures
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors or bad configuration
)
