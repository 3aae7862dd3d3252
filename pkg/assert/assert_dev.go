//go:build !release

// Package assert checks invariants of the simulation core. Assertions panic in development
// builds and are compiled out with the release build tag.
package assert

import "fmt"

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
