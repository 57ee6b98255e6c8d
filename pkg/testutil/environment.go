// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate test environments with proper dependencies

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/filesystem"
	"github.com/arthur-debert/saveswap/pkg/paths"
	"github.com/arthur-debert/saveswap/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a complete test environment with all dependencies
type TestEnvironment struct {
	Documents   string
	ArchiveRoot string
	SlotPath    string

	Config *config.Config
	Layout *paths.Layout
	FS     types.FS

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment using the default
// folder names and marker extension. Neither the archive root nor the
// slot exist yet.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:      t,
		Type:   envType,
		Config: config.Default(),
	}

	switch envType {
	case EnvMemoryOnly:
		env.Documents = filepath.FromSlash("/virtual/documents")
		env.FS = filesystem.NewMemoryFS()
	case EnvIsolated:
		env.Documents = t.TempDir()
		env.FS = filesystem.NewOS()
	}
	env.Config.Paths.Documents = env.Documents

	if err := env.FS.MkdirAll(env.Documents, 0755); err != nil {
		t.Fatalf("Failed to create documents dir: %v", err)
	}

	layout, err := paths.FromConfig(env.Config)
	if err != nil {
		t.Fatalf("Failed to create layout: %v", err)
	}
	env.Layout = layout
	env.ArchiveRoot = layout.ArchiveRoot()
	env.SlotPath = layout.SlotPath()

	return env
}

// MarkerName returns the marker file name for a profile.
func (env *TestEnvironment) MarkerName(profile string) string {
	return profile + "." + env.Config.Profiles.MarkerExt
}

// WithSlot creates the slot with the given files.
func (env *TestEnvironment) WithSlot(files map[string]string) *TestEnvironment {
	env.t.Helper()
	WriteTree(env.t, env.FS, env.SlotPath, files)
	return env
}

// WithProfile creates an archived profile with the given files.
func (env *TestEnvironment) WithProfile(name string, files map[string]string) *TestEnvironment {
	env.t.Helper()
	WriteTree(env.t, env.FS, env.Layout.ProfileDir(name), files)
	return env
}

// Slot returns the current slot contents.
func (env *TestEnvironment) Slot() map[string]string {
	env.t.Helper()
	return ReadTree(env.t, env.FS, env.SlotPath)
}

// Profile returns the archived contents of a profile.
func (env *TestEnvironment) Profile(name string) map[string]string {
	env.t.Helper()
	return ReadTree(env.t, env.FS, env.Layout.ProfileDir(name))
}
