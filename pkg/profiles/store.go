package profiles

import (
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/paths"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// Profile is one registered user.
type Profile struct {
	Name string
	Path string
}

// Store reads and creates profiles under a layout's archive root.
type Store struct {
	fs       types.FS
	layout   *paths.Layout
	sentinel string
}

// NewStore creates a Store. sentinel is the menu label reserved for
// creating a new profile; no profile may take that name.
func NewStore(fsys types.FS, layout *paths.Layout, sentinel string) *Store {
	return &Store{fs: fsys, layout: layout, sentinel: sentinel}
}

// Sentinel returns the reserved new-profile label.
func (s *Store) Sentinel() string {
	return s.sentinel
}

// Dir returns the archive directory of a profile. No I/O.
func (s *Store) Dir(name string) string {
	return s.layout.ProfileDir(name)
}

// EnsureRoot creates the archive root if it is missing.
func (s *Store) EnsureRoot() error {
	root := s.layout.ArchiveRoot()
	info, err := s.fs.Stat(root)
	if err == nil {
		if !info.IsDir() {
			return errors.Newf(errors.ErrIO, "archive root %s is not a directory", root)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrIO, "cannot read archive root %s", root)
	}

	logger := logging.GetLogger("profiles")
	logger.Info().Str("root", root).Msg("Creating archive root")
	if err := s.fs.MkdirAll(root, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create archive root %s", root)
	}
	return nil
}

// List returns every registered profile sorted by name. A missing archive
// root yields an empty list.
func (s *Store) List() ([]Profile, error) {
	root := s.layout.ArchiveRoot()
	entries, err := s.fs.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot list archive root %s", root)
	}

	var out []Profile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		out = append(out, Profile{Name: entry.Name(), Path: s.Dir(entry.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Names returns the names of every registered profile, sorted.
func (s *Store) Names() ([]string, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names, nil
}

// Get returns an existing profile.
func (s *Store) Get(name string) (Profile, error) {
	if err := s.checkName(name); err != nil {
		return Profile{}, err
	}
	dir := s.Dir(name)
	info, err := s.fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, errors.Newf(errors.ErrNotFound, "profile %q does not exist", name).
				WithDetail("profile", name)
		}
		return Profile{}, errors.Wrapf(err, errors.ErrIO, "cannot read profile %q", name)
	}
	if !info.IsDir() {
		return Profile{}, errors.Newf(errors.ErrNotFound, "profile %q is not a directory", name).
			WithDetail("profile", name)
	}
	return Profile{Name: name, Path: dir}, nil
}

// Validate checks that name could be created: it is well formed, is not
// the sentinel and no profile of that name exists yet.
func (s *Store) Validate(name string) error {
	if err := s.checkName(name); err != nil {
		return err
	}
	if _, err := s.fs.Lstat(s.Dir(name)); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "profile %q already exists", name).
			WithDetail("profile", name)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrIO, "cannot read profile %q", name)
	}
	return nil
}

// Create registers a new profile with an empty archive directory.
func (s *Store) Create(name string) (Profile, error) {
	if err := s.Validate(name); err != nil {
		return Profile{}, err
	}
	if err := s.EnsureRoot(); err != nil {
		return Profile{}, err
	}

	dir := s.Dir(name)
	if err := s.fs.Mkdir(dir, 0755); err != nil {
		return Profile{}, errors.Wrapf(err, errors.ErrIO, "cannot create profile %q", name)
	}
	logger := logging.GetLogger("profiles")
	logger.Info().Str("profile", name).Msg("Created profile")
	return Profile{Name: name, Path: dir}, nil
}

func (s *Store) checkName(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if name == s.sentinel {
		return errors.Newf(errors.ErrInvalidInput, "%q is reserved", name).WithDetail("profile", name)
	}
	return nil
}

// CheckName rejects names that cannot be a single directory entry.
func CheckName(name string) error {
	switch {
	case name == "":
		return errors.New(errors.ErrInvalidInput, "profile name must not be empty")
	case name == "." || name == "..":
		return errors.Newf(errors.ErrInvalidInput, "%q is not a valid profile name", name)
	case strings.ContainsAny(name, `/\`):
		return errors.Newf(errors.ErrInvalidInput, "profile name %q must not contain path separators", name)
	case strings.ContainsRune(name, 0):
		return errors.New(errors.ErrInvalidInput, "profile name must not contain NUL")
	case strings.TrimSpace(name) != name:
		return errors.Newf(errors.ErrInvalidInput, "profile name %q must not start or end with spaces", name)
	}
	return nil
}
