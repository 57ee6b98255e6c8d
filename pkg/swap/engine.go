package swap

import (
	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/paths"
	"github.com/arthur-debert/saveswap/pkg/profiles"
	"github.com/arthur-debert/saveswap/pkg/slot"
	"github.com/arthur-debert/saveswap/pkg/tree"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// Options configures an Engine.
type Options struct {
	Mode          config.Mode
	MarkerExt     string
	VerifyArchive bool
}

// OptionsFromConfig extracts engine options from the loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Mode:          cfg.Swap.Mode,
		MarkerExt:     cfg.Profiles.MarkerExt,
		VerifyArchive: cfg.Swap.VerifyArchive,
	}
}

// Target is the profile the user picked. New means it must be created.
type Target struct {
	Name string
	New  bool
}

// Result describes what Activate did.
type Result struct {
	Previous string
	Profile  string
	Mode     config.Mode
	Created  bool
	Changed  bool
}

// Engine reconciles the slot with the user's choice.
type Engine struct {
	fs       types.FS
	layout   *paths.Layout
	store    *profiles.Store
	ext      string
	strategy Strategy
}

// NewEngine creates an Engine. The strategy is chosen here, once: auto
// means link when the filesystem can link, and a link request on a
// filesystem that cannot falls back to copy.
func NewEngine(fsys types.FS, layout *paths.Layout, store *profiles.Store, opts Options) *Engine {
	logger := logging.GetLogger("swap")

	b := base{
		fs:     fsys,
		layout: layout,
		store:  store,
		ext:    opts.MarkerExt,
		verify: opts.VerifyArchive,
	}

	supported := tree.SupportsDirectoryLinks(fsys)
	var strategy Strategy
	switch opts.Mode {
	case config.ModeLink:
		if supported {
			strategy = &linkStrategy{base: b}
		} else {
			logger.Warn().Msg("Directory links are not supported here, falling back to copy mode")
			strategy = &copyStrategy{base: b}
		}
	case config.ModeAuto:
		if supported {
			strategy = &linkStrategy{base: b}
		} else {
			strategy = &copyStrategy{base: b}
		}
	default:
		strategy = &copyStrategy{base: b}
	}
	logger.Debug().Str("requested", string(opts.Mode)).Str("mode", string(strategy.Mode())).Msg("Selected swap strategy")

	return &Engine{
		fs:       fsys,
		layout:   layout,
		store:    store,
		ext:      opts.MarkerExt,
		strategy: strategy,
	}
}

// Mode returns the mode of the strategy in use.
func (e *Engine) Mode() config.Mode {
	return e.strategy.Mode()
}

// Store returns the profile store.
func (e *Engine) Store() *profiles.Store {
	return e.store
}

// Layout returns the paths the engine operates on.
func (e *Engine) Layout() *paths.Layout {
	return e.layout
}

// Detect reads the current slot state.
func (e *Engine) Detect() (slot.State, error) {
	return slot.Detect(e.fs, e.layout.SlotPath(), e.ext)
}

// ActiveProfile names the profile the slot holds, or "" when none does.
// A link pointing outside the archive root is a conflict: the data it
// points at belongs to no profile.
func (e *Engine) ActiveProfile(state slot.State) (string, error) {
	switch state.Mode {
	case slot.CopyWithMarker:
		return state.Profile, nil
	case slot.Link:
		name, ok := e.layout.ProfileFromDir(state.Target)
		if !ok {
			return "", errors.Newf(errors.ErrConflict, "slot links to %s, outside the archive %s", state.Target, e.layout.ArchiveRoot()).
				WithDetail("target", state.Target)
		}
		return name, nil
	}
	return "", nil
}

// NeedsAdoption reports whether the slot holds save data no profile owns.
func (e *Engine) NeedsAdoption(state slot.State) bool {
	return state.Mode == slot.CopyNoMarker
}

// Adopt registers the installation in the slot under a new profile name.
func (e *Engine) Adopt(state slot.State, name string) (profiles.Profile, error) {
	logger := logging.GetLogger("swap")

	if !e.NeedsAdoption(state) {
		return profiles.Profile{}, errors.Newf(errors.ErrConflict, "slot is %s, nothing to adopt", state.Mode)
	}
	if err := e.store.EnsureRoot(); err != nil {
		return profiles.Profile{}, err
	}
	profile, err := e.strategy.Adopt(state, name)
	if err != nil {
		return profiles.Profile{}, err
	}
	logger.Info().Str("profile", name).Str("mode", string(e.Mode())).Msg("Adopted existing installation")
	return profile, nil
}

// Activate makes the slot hold target. Every validation runs before the
// first mutation; once mutation starts an I/O error aborts the run and
// leaves the partial state in place.
func (e *Engine) Activate(state slot.State, target Target) (*Result, error) {
	logger := logging.GetLogger("swap")
	defer logging.LogOperationStart(logger, "activate")()

	if e.NeedsAdoption(state) {
		return nil, errors.New(errors.ErrConflict, "slot holds an unregistered installation, adopt it first")
	}
	active, err := e.ActiveProfile(state)
	if err != nil {
		return nil, err
	}

	var profile profiles.Profile
	if target.New {
		if err := e.store.Validate(target.Name); err != nil {
			return nil, err
		}
	} else {
		if profile, err = e.store.Get(target.Name); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Previous: active,
		Profile:  target.Name,
		Mode:     e.Mode(),
		Created:  target.New,
	}

	if !target.New && active == target.Name && e.strategy.Holds(state, target.Name) {
		logger.Info().Str("profile", target.Name).Msg("Profile already active")
		return result, nil
	}

	if active != "" {
		logger.Info().Str("from", active).Str("to", target.Name).Msg("Vacating slot")
		if err := e.strategy.Vacate(state, active); err != nil {
			return nil, err
		}
	}

	if target.New {
		if profile, err = e.store.Create(target.Name); err != nil {
			return nil, err
		}
	}
	if err := e.strategy.Load(profile); err != nil {
		return nil, err
	}

	result.Changed = true
	logger.Info().
		Str("from", active).
		Str("to", target.Name).
		Str("mode", string(e.Mode())).
		Bool("created", target.New).
		Msg("Swapped profile")
	return result, nil
}
