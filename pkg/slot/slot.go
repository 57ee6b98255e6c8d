package slot

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// Mode is the on-disk representation of the slot.
type Mode int

const (
	Absent Mode = iota
	Link
	CopyNoMarker
	CopyWithMarker
)

func (m Mode) String() string {
	switch m {
	case Absent:
		return "absent"
	case Link:
		return "link"
	case CopyNoMarker:
		return "copy-no-marker"
	case CopyWithMarker:
		return "copy-with-marker"
	}
	return "unknown"
}

// State is the detected slot state. Target is set for Link, Profile for
// CopyWithMarker.
type State struct {
	Mode    Mode
	Target  string
	Profile string
}

// IsPhysical reports whether the slot is a real directory.
func (s State) IsPhysical() bool {
	return s.Mode == CopyNoMarker || s.Mode == CopyWithMarker
}

// Detect reads the slot state.
func Detect(fsys types.FS, slotPath, ext string) (State, error) {
	logger := logging.GetLogger("slot")

	info, err := fsys.Lstat(slotPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("slot", slotPath).Msg("Slot is absent")
			return State{Mode: Absent}, nil
		}
		return State{}, errors.Wrapf(err, errors.ErrIO, "cannot read slot %s", slotPath)
	}

	if mayBeLink(info) {
		if target, err := fsys.Readlink(slotPath); err == nil {
			logger.Debug().Str("slot", slotPath).Str("target", target).Msg("Slot is a link")
			return State{Mode: Link, Target: target}, nil
		}
	}

	if !info.IsDir() {
		return State{}, errors.Newf(errors.ErrIO, "slot %s exists but is not a directory", slotPath).
			WithDetail("slot", slotPath)
	}

	markers, err := Markers(fsys, slotPath, ext)
	if err != nil {
		return State{}, err
	}
	if len(markers) == 0 {
		logger.Debug().Str("slot", slotPath).Msg("Slot holds an unregistered installation")
		return State{Mode: CopyNoMarker}, nil
	}
	if len(markers) > 1 {
		logger.Warn().Strs("markers", markers).Msg("Slot carries more than one marker, using the first")
	}
	profile := strings.TrimSuffix(markers[0], "."+ext)
	logger.Debug().Str("slot", slotPath).Str("profile", profile).Msg("Slot holds a profile copy")
	return State{Mode: CopyWithMarker, Profile: profile}, nil
}

// Junctions on Windows surface as ModeIrregular rather than ModeSymlink.
func mayBeLink(info fs.FileInfo) bool {
	return info.Mode()&(fs.ModeSymlink|fs.ModeIrregular) != 0
}

// IsMarker reports whether a file name is a marker for ext.
func IsMarker(name, ext string) bool {
	suffix := "." + ext
	return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
}

// MarkerName returns the marker file name for a profile.
func MarkerName(profile, ext string) string {
	return profile + "." + ext
}

// Markers lists the marker files directly inside the slot, sorted.
func Markers(fsys types.FS, slotPath, ext string) ([]string, error) {
	entries, err := fsys.ReadDir(slotPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot list slot %s", slotPath)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !IsMarker(entry.Name(), ext) {
			continue
		}
		out = append(out, entry.Name())
	}
	sort.Strings(out)
	return out, nil
}

// WriteMarker leaves exactly one marker in the slot, naming profile.
func WriteMarker(fsys types.FS, slotPath, ext, profile string) error {
	if err := RemoveMarkers(fsys, slotPath, ext); err != nil {
		return err
	}
	path := filepath.Join(slotPath, MarkerName(profile, ext))
	if err := fsys.WriteFile(path, nil, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write marker %s", path)
	}
	logger := logging.GetLogger("slot")
	logger.Debug().Str("profile", profile).Msg("Wrote slot marker")
	return nil
}

// RemoveMarkers deletes every marker directly inside dir.
func RemoveMarkers(fsys types.FS, dir, ext string) error {
	markers, err := Markers(fsys, dir, ext)
	if err != nil {
		return err
	}
	for _, name := range markers {
		if err := fsys.Remove(filepath.Join(dir, name)); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot remove marker %s", name)
		}
	}
	return nil
}

// SkipMarkers returns a filter matching the entries Markers lists, for
// tree copies. Directories are never skipped, whatever their name.
func SkipMarkers(ext string) func(entry fs.DirEntry) bool {
	return func(entry fs.DirEntry) bool {
		return !entry.IsDir() && IsMarker(entry.Name(), ext)
	}
}
