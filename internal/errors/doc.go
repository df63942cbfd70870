// Package errors provides structured, actionable error messages for the lyu
// command and its configuration loader.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: lyu.json and environment override problems
//   - runtime: failures surfaced by the reactive runtime (e.g. a panicking effect)
//   - cli: command-line usage and server errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "L002") that maps to a short message, a
// longer explanation and a documentation URL.
//
// # Usage
//
//	err := errors.New("L002").
//	    WithLocation("lyu.json", 4, 17).
//	    WithSuggestion("Remove the trailing comma")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR L002: Invalid configuration file
//	//
//	//   lyu.json:4:17
//	//
//	//     3 │   "log": {
//	//   → 4 │     "level": "debug",
//	//       │                 ^
//	//     5 │   },
//	//
//	//   Hint: Remove the trailing comma
package errors
