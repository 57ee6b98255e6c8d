//go:build windows

package filesystem

import (
	"fmt"
	"os/exec"
	"strings"
)

// SupportsDirLinks reports junction support. Junctions need no elevation
// or developer mode, unlike directory symlinks.
func (o *osFS) SupportsDirLinks() bool {
	return true
}

// LinkDir creates a directory junction at link pointing to target.
func (o *osFS) LinkDir(target, link string) error {
	out, err := exec.Command("cmd", "/c", "mklink", "/J", link, target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J %s %s: %w: %s", link, target, err, strings.TrimSpace(string(out)))
	}
	return nil
}
