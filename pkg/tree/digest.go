package tree

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// Digest returns a sha256 over the relative paths and file contents under
// root, in the same "sha256:<hex>" form the file checksums use. Two trees
// have equal digests when they hold the same files with the same bytes at
// the same relative paths. Links are hashed by their target string and
// never followed, matching how CopyTree copies them. Permissions and
// timestamps are ignored.
func Digest(fsys types.FS, root string, skip SkipFunc) (string, error) {
	if skip == nil {
		skip = noSkip
	}
	h := sha256.New()
	if err := digestDir(fsys, h, root, "", skip); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

func digestDir(fsys types.FS, h hash.Hash, root, rel string, skip SkipFunc) error {
	dir := filepath.Join(root, rel)
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot list %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if rel == "" && skip(entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		childRel := filepath.ToSlash(filepath.Join(rel, name))
		full := filepath.Join(root, childRel)
		info, err := fsys.Lstat(full)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot read %s", childRel)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := fsys.Readlink(full)
			if err != nil {
				return errors.Wrapf(err, errors.ErrIO, "cannot read link %s", childRel)
			}
			fmt.Fprintf(h, "l %s %s\x00", childRel, filepath.ToSlash(target))
			continue
		}
		if info.IsDir() {
			fmt.Fprintf(h, "d %s\x00", childRel)
			if err := digestDir(fsys, h, root, childRel, noSkip); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(h, "f %s %d\x00", childRel, info.Size())
		if err := hashFile(fsys, h, full); err != nil {
			return err
		}
	}
	return nil
}

func hashFile(fsys types.FS, h hash.Hash, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot open %s", path)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := io.Copy(h, f); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", path)
	}
	return nil
}
