// Package testutil provides utilities for testing saveswap components.
//
// Key components:
//   - TestEnvironment: a documents directory with archive root and slot,
//     backed either by memory (afero) or by a real temp dir
//   - WriteTree / ReadTree: declarative file trees for setup and assertions
//
// Usage guidelines:
//   - Copy-mode tests should use EnvMemoryOnly for speed and isolation
//   - Link-mode tests need EnvIsolated, memory filesystems have no links
//   - All test data should be defined inline, not in external files
package testutil
