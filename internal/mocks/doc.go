// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations can be reused across test packages. Each
// mock exposes optional Fn fields to override behavior per test, backed by
// a map-based default implementation that behaves like a small in-memory
// store.
package mocks
