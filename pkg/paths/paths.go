package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
)

// Layout resolves every path saveswap operates on. It is built once at
// startup and passed down; nothing below reads the environment again.
type Layout struct {
	documents   string
	archiveRoot string
	slot        string
}

// New creates a Layout. An empty documents argument resolves to the
// platform Documents folder.
func New(documents, archiveFolder, gameFolder string) (*Layout, error) {
	if documents == "" {
		documents = DocumentsDir()
	}
	if documents == "" {
		return nil, errors.New(errors.ErrNotFound, "could not determine the documents directory")
	}

	documents = ExpandHome(documents)
	abs, err := filepath.Abs(documents)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid documents directory %s", documents)
	}

	return &Layout{
		documents:   abs,
		archiveRoot: filepath.Join(abs, archiveFolder),
		slot:        filepath.Join(abs, gameFolder),
	}, nil
}

// FromConfig builds the Layout described by cfg.
func FromConfig(cfg *config.Config) (*Layout, error) {
	return New(cfg.Paths.Documents, cfg.Paths.ArchiveFolder, cfg.Paths.GameFolder)
}

// Documents returns the directory holding both the archive root and the slot.
func (l *Layout) Documents() string {
	return l.documents
}

// ArchiveRoot returns the directory holding one subdirectory per profile.
func (l *Layout) ArchiveRoot() string {
	return l.archiveRoot
}

// SlotPath returns the live game-data directory.
func (l *Layout) SlotPath() string {
	return l.slot
}

// ProfileDir returns archiveRoot/name. Pure join, no I/O.
func (l *Layout) ProfileDir(name string) string {
	return filepath.Join(l.archiveRoot, name)
}

// ProfileFromDir reports which profile dir a path names, if it is an
// immediate child of the archive root.
func (l *Layout) ProfileFromDir(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(l.slot), dir)
	}
	if !samePath(filepath.Dir(dir), l.archiveRoot) {
		return "", false
	}
	return filepath.Base(dir), true
}

// DocumentsDir returns the platform Documents folder, falling back to
// ~/Documents.
func DocumentsDir() string {
	if dir := xdg.UserDirs.Documents; dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents")
}

// ExpandHome expands ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if os.PathSeparator == '\\' {
		return strings.EqualFold(a, b)
	}
	return a == b
}
