// Package filesystem provides filesystem implementations for saveswap.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero-backed one used in tests.
// Directory links are platform specific and live in the os_*.go files.
package filesystem
