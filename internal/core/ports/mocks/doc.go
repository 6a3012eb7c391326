// Package mocks provides test doubles for ports interfaces.
//
// Store is a simple, thread-safe, in-memory implementation of ports.Store
// that mirrors the PostgreSQL adapter's semantics closely enough for stage
// tests. It provides:
//
//   - Default behavior matching the adapter (upserts, delete-then-insert replaces)
//   - Callback functions (xxxFn) for customizing behavior per test
//   - Inspection helpers for asserting on written state
//
// # Usage Example
//
//	func TestCollect(t *testing.T) {
//		store := mocks.NewStore()
//		svc := collect.New(store, source, &logger)
//		// ... run the stage and inspect store.QueryStats(date, region)
//	}
package mocks
