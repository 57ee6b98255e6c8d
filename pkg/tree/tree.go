package tree

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// SkipFunc reports whether an immediate child of the source root should
// be left out. Nested entries are never skipped.
type SkipFunc func(entry fs.DirEntry) bool

func noSkip(fs.DirEntry) bool { return false }

// CopyTree creates dst as a mirror of src. dst may already exist only as
// an empty directory.
func CopyTree(fsys types.FS, src, dst string) error {
	logger := logging.GetLogger("tree")
	logger.Debug().Str("src", src).Str("dst", dst).Msg("Copying tree")

	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", src)
	}
	if !info.IsDir() {
		if _, err := fsys.Lstat(dst); err == nil {
			return errors.Newf(errors.ErrIO, "destination %s already exists", dst)
		}
		return copyFile(fsys, src, dst, info.Mode().Perm())
	}

	if err := prepareDir(fsys, dst, info.Mode().Perm()); err != nil {
		return err
	}
	return copyChildren(fsys, src, dst, noSkip)
}

// CopyContents copies the children of src into the existing directory
// dst. None of the copied names may already exist in dst.
func CopyContents(fsys types.FS, src, dst string, skip SkipFunc) error {
	logger := logging.GetLogger("tree")
	logger.Debug().Str("src", src).Str("dst", dst).Msg("Copying directory contents")

	if skip == nil {
		skip = noSkip
	}
	info, err := fsys.Stat(dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", dst)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrIO, "%s is not a directory", dst)
	}
	return copyChildren(fsys, src, dst, skip)
}

func prepareDir(fsys types.FS, dst string, perm fs.FileMode) error {
	existing, err := fsys.Lstat(dst)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrIO, "cannot read %s", dst)
		}
		if err := fsys.Mkdir(dst, perm|0700); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot create %s", dst)
		}
		return nil
	}

	if !existing.IsDir() {
		return errors.Newf(errors.ErrIO, "destination %s exists and is not a directory", dst)
	}
	entries, err := fsys.ReadDir(dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", dst)
	}
	if len(entries) > 0 {
		return errors.Newf(errors.ErrIO, "destination %s is not empty", dst)
	}
	return nil
}

func copyChildren(fsys types.FS, src, dst string, skip SkipFunc) error {
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot list %s", src)
	}
	for _, entry := range entries {
		if skip(entry) {
			continue
		}
		if err := copyEntry(fsys, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyEntry(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", src)
	}
	if _, err := fsys.Lstat(dst); err == nil {
		return errors.Newf(errors.ErrIO, "destination %s already exists", dst)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := fsys.Readlink(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot read link %s", src)
		}
		if err := fsys.Symlink(target, dst); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot create link %s", dst)
		}
		return nil
	case info.IsDir():
		if err := fsys.Mkdir(dst, info.Mode().Perm()|0700); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot create %s", dst)
		}
		return copyChildren(fsys, src, dst, noSkip)
	default:
		return copyFile(fsys, src, dst, info.Mode().Perm())
	}
}

func copyFile(fsys types.FS, src, dst string, perm fs.FileMode) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot open %s", src)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := fsys.Create(dst, perm)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrIO, "cannot write %s", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot copy %s to %s", src, dst)
	}
	return nil
}

// RemoveTree deletes path and everything below it, children first. Links
// are removed without touching what they point to. A missing path is not
// an error.
func RemoveTree(fsys types.FS, path string) error {
	logger := logging.GetLogger("tree")
	logger.Debug().Str("path", path).Msg("Removing tree")
	return removeTree(fsys, path)
}

func removeTree(fsys types.FS, path string) error {
	info, err := fsys.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", path)
	}

	if info.IsDir() {
		entries, err := fsys.ReadDir(path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot list %s", path)
		}
		for _, entry := range entries {
			if err := removeTree(fsys, filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
	}

	if err := fsys.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot remove %s", path)
	}
	return nil
}

// ClearDir removes every child of path and keeps path itself.
func ClearDir(fsys types.FS, path string) error {
	logger := logging.GetLogger("tree")
	logger.Debug().Str("path", path).Msg("Clearing directory")

	entries, err := fsys.ReadDir(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot list %s", path)
	}
	for _, entry := range entries {
		if err := removeTree(fsys, filepath.Join(path, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// MoveTree moves src to dst. A rename is tried first when dst does not
// exist; otherwise, or when the rename fails (another volume), it copies
// and then removes src. The fallback is not atomic: a crash between the
// two steps leaves the data in both places.
func MoveTree(fsys types.FS, src, dst string) error {
	logger := logging.GetLogger("tree")
	logger.Debug().Str("src", src).Str("dst", dst).Msg("Moving tree")

	if _, err := fsys.Lstat(dst); os.IsNotExist(err) {
		renameErr := fsys.Rename(src, dst)
		if renameErr == nil {
			return nil
		}
		logger.Debug().Err(renameErr).Msg("Rename failed, falling back to copy and remove")
	}

	if err := CopyTree(fsys, src, dst); err != nil {
		return err
	}
	return RemoveTree(fsys, src)
}
