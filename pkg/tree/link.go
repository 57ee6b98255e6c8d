package tree

import (
	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// SupportsDirectoryLinks reports whether fsys can create directory links.
func SupportsDirectoryLinks(fsys types.FS) bool {
	linker, ok := fsys.(types.DirLinker)
	return ok && linker.SupportsDirLinks()
}

// CreateDirectoryLink makes link point at target. link must not exist.
func CreateDirectoryLink(fsys types.FS, target, link string) error {
	logger := logging.GetLogger("tree")

	linker, ok := fsys.(types.DirLinker)
	if !ok || !linker.SupportsDirLinks() {
		return errors.New(errors.ErrUnsupported, "directory links are not supported on this filesystem")
	}
	if _, err := fsys.Lstat(link); err == nil {
		return errors.Newf(errors.ErrIO, "cannot link %s: path already exists", link)
	}

	if err := linker.LinkDir(target, link); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot link %s to %s", link, target)
	}
	logger.Debug().Str("link", link).Str("target", target).Msg("Created directory link")
	return nil
}
