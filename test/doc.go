// Package test provides infrastructure and utilities for integration testing in taskman.
//
// The test package builds a complete server the same way the binary does,
// backed by temporary sqlite files, and talks to it over HTTP with the real
// API client. It can be used both within taskman and by external packages
// that want to test their integration with the API.
//
// The package provides:
//
//   - Suite: a struct that manages a complete test setup including both
//     stores, the real API server and an API client pointed at it
//
//   - Test Utilities: helpers for seeding data and retrying
//
// Example Usage:
//
//	func TestExample(t *testing.T) {
//	    suite := test.NewSuite(t)
//	    defer suite.Cleanup()
//
//	    // Use suite.APIClient to make requests
//	    // Use suite.Store to inspect the project database directly
//	}
package test
