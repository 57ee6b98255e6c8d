package config

import (
	"strings"

	"github.com/arthur-debert/saveswap/pkg/errors"
)

// Mode selects how the active slot is represented on disk.
type Mode string

const (
	// ModeCopy keeps a physical copy of the active profile in the slot.
	ModeCopy Mode = "copy"
	// ModeLink points the slot at the profile directory.
	ModeLink Mode = "link"
	// ModeAuto picks link when the filesystem supports it, else copy.
	ModeAuto Mode = "auto"
)

// Paths locates the two directories saveswap manages.
type Paths struct {
	Documents     string `koanf:"documents" toml:"documents"`
	ArchiveFolder string `koanf:"archive_folder" toml:"archive_folder"`
	GameFolder    string `koanf:"game_folder" toml:"game_folder"`
}

// Profiles holds naming rules for profiles and the slot marker.
type Profiles struct {
	MarkerExt       string `koanf:"marker_ext" toml:"marker_ext"`
	NewProfileLabel string `koanf:"new_profile_label" toml:"new_profile_label"`
}

// Swap controls the swap strategy.
type Swap struct {
	Mode          Mode `koanf:"mode" toml:"mode"`
	VerifyArchive bool `koanf:"verify_archive" toml:"verify_archive"`
}

// Launch describes the game launch after a successful swap.
type Launch struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	URI     string `koanf:"uri" toml:"uri"`
}

// Config is the main configuration structure
type Config struct {
	Paths    Paths    `koanf:"paths" toml:"paths"`
	Profiles Profiles `koanf:"profiles" toml:"profiles"`
	Swap     Swap     `koanf:"swap" toml:"swap"`
	Launch   Launch   `koanf:"launch" toml:"launch"`
}

// Validate checks the decoded configuration and normalizes the marker
// extension so that ".mhzd" and "mhzd" mean the same thing.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.ArchiveFolder) == "" {
		return errors.New(errors.ErrConfigValid, "paths.archive_folder must not be empty")
	}
	if strings.TrimSpace(c.Paths.GameFolder) == "" {
		return errors.New(errors.ErrConfigValid, "paths.game_folder must not be empty")
	}
	if c.Paths.ArchiveFolder == c.Paths.GameFolder {
		return errors.New(errors.ErrConfigValid, "paths.archive_folder and paths.game_folder must differ")
	}

	c.Profiles.MarkerExt = strings.TrimPrefix(strings.TrimSpace(c.Profiles.MarkerExt), ".")
	if c.Profiles.MarkerExt == "" || strings.ContainsAny(c.Profiles.MarkerExt, `/\.`) {
		return errors.Newf(errors.ErrConfigValid, "profiles.marker_ext %q is not a usable extension", c.Profiles.MarkerExt)
	}
	if strings.TrimSpace(c.Profiles.NewProfileLabel) == "" {
		return errors.New(errors.ErrConfigValid, "profiles.new_profile_label must not be empty")
	}

	mode, err := ParseMode(string(c.Swap.Mode))
	if err != nil {
		return err
	}
	c.Swap.Mode = mode

	if c.Launch.Enabled && strings.TrimSpace(c.Launch.URI) == "" {
		return errors.New(errors.ErrConfigValid, "launch.uri must be set when launch is enabled")
	}
	return nil
}

// ParseMode converts user input into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCopy:
		return ModeCopy, nil
	case ModeLink:
		return ModeLink, nil
	case ModeAuto:
		return ModeAuto, nil
	}
	return "", errors.Newf(errors.ErrConfigValid, "unknown swap mode %q (want copy, link or auto)", s)
}
