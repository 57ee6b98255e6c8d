// Package types defines the interfaces shared across saveswap packages.
// The filesystem abstraction lives here so that tree operations, the
// profile store and the slot detector can run against either the real
// OS filesystem or an in-memory one in tests.
package types
