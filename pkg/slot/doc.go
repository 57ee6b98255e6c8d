// Package slot inspects and marks the active game-data directory.
//
// The slot is in exactly one of four states: absent, a link to some
// directory, a real directory without a marker file, or a real directory
// carrying a "<profile>.<ext>" marker that names the profile it holds.
// The state is always read fresh from disk.
package slot
