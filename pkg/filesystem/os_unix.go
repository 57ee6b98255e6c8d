//go:build !windows && !plan9 && !js && !wasip1

package filesystem

import "os"

func (o *osFS) SupportsDirLinks() bool {
	return true
}

// LinkDir creates a symlink at link pointing to the target directory.
func (o *osFS) LinkDir(target, link string) error {
	return os.Symlink(target, link)
}
