// Package profiles manages the archive of registered save-game profiles.
//
// Every immediate subdirectory of the archive root is one profile, named
// after the directory. The store never deletes a profile; it only lists,
// validates and creates them.
package profiles
