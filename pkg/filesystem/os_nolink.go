//go:build plan9 || js || wasip1

package filesystem

import (
	"fmt"
	"runtime"
)

func (o *osFS) SupportsDirLinks() bool {
	return false
}

func (o *osFS) LinkDir(target, link string) error {
	return fmt.Errorf("directory links are not supported on %s", runtime.GOOS)
}
