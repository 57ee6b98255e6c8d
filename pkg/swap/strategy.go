package swap

import (
	"os"

	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/paths"
	"github.com/arthur-debert/saveswap/pkg/profiles"
	"github.com/arthur-debert/saveswap/pkg/slot"
	"github.com/arthur-debert/saveswap/pkg/tree"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// Strategy implements the slot transitions for one on-disk representation.
type Strategy interface {
	// Mode returns the representation this strategy maintains.
	Mode() config.Mode

	// Holds reports whether the slot already holds profile in this
	// strategy's representation.
	Holds(state slot.State, profile string) bool

	// Adopt registers the unregistered installation in the slot as a new
	// profile and leaves the slot holding it.
	Adopt(state slot.State, name string) (profiles.Profile, error)

	// Vacate saves the slot into the archive of the active profile and
	// leaves the slot ready for Load.
	Vacate(state slot.State, active string) error

	// Load makes the slot hold profile.
	Load(profile profiles.Profile) error
}

// base carries what both strategies need.
type base struct {
	fs     types.FS
	layout *paths.Layout
	store  *profiles.Store
	ext    string
	verify bool
}

func (b *base) slotPath() string {
	return b.layout.SlotPath()
}

// archiveSlot replaces the archive of profile with the slot contents,
// markers excluded, and checks the copy when verification is on.
func (b *base) archiveSlot(profile string) error {
	logger := logging.GetLogger("swap")
	archive := b.store.Dir(profile)
	skip := slot.SkipMarkers(b.ext)

	if err := b.fs.MkdirAll(archive, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create archive for %q", profile)
	}
	if err := tree.ClearDir(b.fs, archive); err != nil {
		return err
	}
	if err := tree.CopyContents(b.fs, b.slotPath(), archive, skip); err != nil {
		return err
	}
	if b.verify {
		if err := b.verifyArchive(profile); err != nil {
			return err
		}
	}
	logger.Info().Str("profile", profile).Msg("Archived slot")
	return nil
}

func (b *base) verifyArchive(profile string) error {
	skip := slot.SkipMarkers(b.ext)
	want, err := tree.Digest(b.fs, b.slotPath(), skip)
	if err != nil {
		return err
	}
	got, err := tree.Digest(b.fs, b.store.Dir(profile), skip)
	if err != nil {
		return err
	}
	if want != got {
		return errors.Newf(errors.ErrIO, "archive of %q does not match the slot, slot left untouched", profile).
			WithDetail("slot_digest", want).
			WithDetail("archive_digest", got)
	}
	logger := logging.GetLogger("swap")
	logger.Debug().Str("profile", profile).Str("digest", got).Msg("Archive verified")
	return nil
}

// removeSlotLink removes a link at the slot without touching its target.
func (b *base) removeSlotLink() error {
	return tree.RemoveTree(b.fs, b.slotPath())
}

// copyStrategy keeps a physical copy of the active profile in the slot.
type copyStrategy struct {
	base
}

func (s *copyStrategy) Mode() config.Mode { return config.ModeCopy }

func (s *copyStrategy) Holds(state slot.State, profile string) bool {
	return state.Mode == slot.CopyWithMarker && state.Profile == profile
}

func (s *copyStrategy) Adopt(state slot.State, name string) (profiles.Profile, error) {
	profile, err := s.store.Create(name)
	if err != nil {
		return profiles.Profile{}, err
	}
	if err := tree.CopyContents(s.fs, s.slotPath(), profile.Path, slot.SkipMarkers(s.ext)); err != nil {
		return profiles.Profile{}, err
	}
	if s.verify {
		if err := s.verifyArchive(name); err != nil {
			return profiles.Profile{}, err
		}
	}
	if err := slot.WriteMarker(s.fs, s.slotPath(), s.ext, name); err != nil {
		return profiles.Profile{}, err
	}
	return profile, nil
}

func (s *copyStrategy) Vacate(state slot.State, active string) error {
	switch state.Mode {
	case slot.Link:
		// The linked archive already holds the data.
		if err := s.removeSlotLink(); err != nil {
			return err
		}
	case slot.CopyWithMarker, slot.CopyNoMarker:
		if err := s.archiveSlot(active); err != nil {
			return err
		}
		return tree.ClearDir(s.fs, s.slotPath())
	}
	return s.ensureSlotDir()
}

func (s *copyStrategy) Load(profile profiles.Profile) error {
	if err := s.ensureSlotDir(); err != nil {
		return err
	}
	if err := tree.CopyContents(s.fs, profile.Path, s.slotPath(), slot.SkipMarkers(s.ext)); err != nil {
		return err
	}
	if err := slot.WriteMarker(s.fs, s.slotPath(), s.ext, profile.Name); err != nil {
		return err
	}
	logger := logging.GetLogger("swap")
	logger.Info().Str("profile", profile.Name).Msg("Loaded profile into slot")
	return nil
}

func (s *copyStrategy) ensureSlotDir() error {
	if err := s.fs.MkdirAll(s.slotPath(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create slot %s", s.slotPath())
	}
	return nil
}

// linkStrategy points the slot at the active profile's archive.
type linkStrategy struct {
	base
}

func (s *linkStrategy) Mode() config.Mode { return config.ModeLink }

func (s *linkStrategy) Holds(state slot.State, profile string) bool {
	if state.Mode != slot.Link {
		return false
	}
	name, ok := s.layout.ProfileFromDir(state.Target)
	return ok && name == profile
}

func (s *linkStrategy) Adopt(state slot.State, name string) (profiles.Profile, error) {
	if err := s.store.Validate(name); err != nil {
		return profiles.Profile{}, err
	}
	if err := s.store.EnsureRoot(); err != nil {
		return profiles.Profile{}, err
	}

	dir := s.store.Dir(name)
	if err := tree.MoveTree(s.fs, s.slotPath(), dir); err != nil {
		return profiles.Profile{}, err
	}
	if err := slot.RemoveMarkers(s.fs, dir, s.ext); err != nil {
		return profiles.Profile{}, err
	}
	profile := profiles.Profile{Name: name, Path: dir}
	logger := logging.GetLogger("swap")
	logger.Info().Str("profile", name).Msg("Moved installation into archive")
	if err := s.Load(profile); err != nil {
		return profiles.Profile{}, err
	}
	return profile, nil
}

func (s *linkStrategy) Vacate(state slot.State, active string) error {
	switch state.Mode {
	case slot.Link:
		return s.removeSlotLink()
	case slot.CopyWithMarker, slot.CopyNoMarker:
		if err := s.archiveSlot(active); err != nil {
			return err
		}
		return tree.RemoveTree(s.fs, s.slotPath())
	}
	return nil
}

func (s *linkStrategy) Load(profile profiles.Profile) error {
	if err := s.clearEmptySlot(); err != nil {
		return err
	}
	if err := tree.CreateDirectoryLink(s.fs, profile.Path, s.slotPath()); err != nil {
		return err
	}
	logger := logging.GetLogger("swap")
	logger.Info().Str("profile", profile.Name).Msg("Linked slot to profile")
	return nil
}

// clearEmptySlot removes an empty directory at the slot so the link can
// take its place. Anything else there is a conflict.
func (s *linkStrategy) clearEmptySlot() error {
	info, err := s.fs.Lstat(s.slotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrIO, "cannot read slot %s", s.slotPath())
	}
	if info.IsDir() {
		entries, err := s.fs.ReadDir(s.slotPath())
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot list slot %s", s.slotPath())
		}
		if len(entries) == 0 {
			return tree.RemoveTree(s.fs, s.slotPath())
		}
	}
	return errors.Newf(errors.ErrConflict, "slot %s is occupied, cannot link it", s.slotPath())
}
