// Package paths provides centralized path handling for saveswap.
//
// Everything saveswap touches lives under one documents directory:
//
//	<documents>/<archive folder>/<profile>/...   profile archives
//	<documents>/<game folder>/...                the active slot
//
// The documents directory comes from the XDG user-dirs lookup (which maps
// to the Known Folder on Windows and ~/Documents on macOS) unless the
// configuration names one explicitly.
package paths
