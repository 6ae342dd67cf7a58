// Package integration gates tests that need outside services.
//
// Build with the "integration" tag to run them:
//
//	go test -tags integration ./...
package integration

import (
	"testing"
)

// Skip skips the calling test unless the "integration" build tag was provided.
//
// Call it first thing, the way (*testing.T).Parallel is used.
func Skip(t testing.TB) {
	t.Helper()
	if skip {
		t.Skip("skipping integration test: integration tag not provided")
	}
}
