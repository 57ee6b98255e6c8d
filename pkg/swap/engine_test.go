// pkg/swap/engine_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Memory FS for copy mode, real temp dirs for link mode
// PURPOSE: Verify slot transitions of both strategies

package swap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/profiles"
	"github.com/arthur-debert/saveswap/pkg/slot"
	"github.com/arthur-debert/saveswap/pkg/swap"
	"github.com/arthur-debert/saveswap/pkg/testutil"
	"github.com/arthur-debert/saveswap/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	aliceSave = map[string]string{
		"profile.dat":       "alice level 30",
		"slots/slot1.sav":   "alice slot 1",
		"slots/photo/1.png": "\x89PNG alice",
	}
	bobSave = map[string]string{
		"profile.dat":     "bob level 2",
		"slots/slot1.sav": "bob slot 1",
	}
)

// withDirs adds the directory entries ReadTree reports for a file map.
func withDirs(files map[string]string, extra ...string) map[string]string {
	out := map[string]string{}
	for k, v := range files {
		out[k] = v
		for dir := filepath.ToSlash(filepath.Dir(k)); dir != "."; dir = filepath.ToSlash(filepath.Dir(dir)) {
			out[dir+"/"] = ""
		}
	}
	for _, k := range extra {
		out[k] = ""
	}
	return out
}

func newEngine(t *testing.T, envType testutil.EnvType, mode config.Mode) (*testutil.TestEnvironment, *swap.Engine) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, envType)
	env.Config.Swap.Mode = mode
	store := profiles.NewStore(env.FS, env.Layout, env.Config.Profiles.NewProfileLabel)
	return env, swap.NewEngine(env.FS, env.Layout, store, swap.OptionsFromConfig(env.Config))
}

func newLinkEngine(t *testing.T) (*testutil.TestEnvironment, *swap.Engine) {
	t.Helper()
	env, engine := newEngine(t, testutil.EnvIsolated, config.ModeLink)
	if engine.Mode() != config.ModeLink {
		t.Skip("no directory links on this platform")
	}
	return env, engine
}

func detect(t *testing.T, engine *swap.Engine) slot.State {
	t.Helper()
	state, err := engine.Detect()
	require.NoError(t, err)
	return state
}

func activate(t *testing.T, engine *swap.Engine, target swap.Target) *swap.Result {
	t.Helper()
	result, err := engine.Activate(detect(t, engine), target)
	require.NoError(t, err)
	return result
}

func assertSingleMarker(t *testing.T, env *testutil.TestEnvironment, profile string) {
	t.Helper()
	markers, err := slot.Markers(env.FS, env.SlotPath, env.Config.Profiles.MarkerExt)
	require.NoError(t, err)
	assert.Equal(t, []string{env.MarkerName(profile)}, markers)
}

func assertSlotLinksTo(t *testing.T, env *testutil.TestEnvironment, profile string) {
	t.Helper()
	info, err := os.Lstat(env.SlotPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&(os.ModeSymlink|os.ModeIrregular), "slot should be a link")

	target, err := os.Readlink(env.SlotPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(env.Layout.ProfileDir(profile)), filepath.Clean(target))
	assert.Equal(t, env.Profile(profile), env.Slot())
}

func TestNewEngine_ModeSelection(t *testing.T) {
	t.Run("copy_by_default", func(t *testing.T) {
		_, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
		assert.Equal(t, config.ModeCopy, engine.Mode())
	})

	t.Run("link_falls_back_without_links", func(t *testing.T) {
		_, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeLink)
		assert.Equal(t, config.ModeCopy, engine.Mode())
	})

	t.Run("auto_without_links", func(t *testing.T) {
		_, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeAuto)
		assert.Equal(t, config.ModeCopy, engine.Mode())
	})

	t.Run("auto_with_links", func(t *testing.T) {
		env, engine := newEngine(t, testutil.EnvIsolated, config.ModeAuto)
		if tree.SupportsDirectoryLinks(env.FS) {
			assert.Equal(t, config.ModeLink, engine.Mode())
		} else {
			assert.Equal(t, config.ModeCopy, engine.Mode())
		}
	})
}

func TestCopy_FirstRunCreatesProfile(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)

	result := activate(t, engine, swap.Target{Name: "alice", New: true})

	assert.Equal(t, &swap.Result{Profile: "alice", Mode: config.ModeCopy, Created: true, Changed: true}, result)
	assert.Equal(t, map[string]string{}, env.Profile("alice"))
	assert.Equal(t, map[string]string{"alice.mhzd": ""}, env.Slot())
	assert.Equal(t, slot.State{Mode: slot.CopyWithMarker, Profile: "alice"}, detect(t, engine))
}

func TestCopy_RoundTripThroughEmptyProfile(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithProfile("alice", map[string]string{"stale.sav": "old archive"})
	env.WithSlot(aliceSave)
	testutil.WriteTree(t, env.FS, env.SlotPath, map[string]string{"alice.mhzd": ""})

	result := activate(t, engine, swap.Target{Name: "bob", New: true})
	assert.Equal(t, "alice", result.Previous)
	assert.True(t, result.Changed)

	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"), "archive replaced by slot, no marker")
	assert.Equal(t, map[string]string{"bob.mhzd": ""}, env.Slot())
	assertSingleMarker(t, env, "bob")

	result = activate(t, engine, swap.Target{Name: "alice"})
	assert.Equal(t, "bob", result.Previous)

	assert.Equal(t, withDirs(aliceSave, "alice.mhzd"), env.Slot())
	assert.Equal(t, map[string]string{}, env.Profile("bob"))
	assertSingleMarker(t, env, "alice")
}

func TestCopy_SwapBetweenExistingProfiles(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithProfile("alice", nil).WithProfile("bob", bobSave)
	env.WithSlot(aliceSave)
	require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))

	activate(t, engine, swap.Target{Name: "bob"})

	assert.Equal(t, withDirs(bobSave, "bob.mhzd"), env.Slot())
	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"))
	assert.Equal(t, withDirs(bobSave), env.Profile("bob"), "loading leaves the archive in place")
}

func TestCopy_KeepsDirectoriesNamedLikeMarkers(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithProfile("alice", nil).WithProfile("bob", bobSave)
	env.WithSlot(map[string]string{"maps.mhzd/world.sav": "precious"})
	require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))

	activate(t, engine, swap.Target{Name: "bob"})
	assert.Equal(t, map[string]string{
		"maps.mhzd/":          "",
		"maps.mhzd/world.sav": "precious",
	}, env.Profile("alice"))

	activate(t, engine, swap.Target{Name: "alice"})
	assert.Equal(t, map[string]string{
		"alice.mhzd":          "",
		"maps.mhzd/":          "",
		"maps.mhzd/world.sav": "precious",
	}, env.Slot())
	assertSingleMarker(t, env, "alice")
}

func TestCopy_ReselectIsIdempotent(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithProfile("alice", map[string]string{"old.sav": "older"})
	env.WithSlot(aliceSave)
	require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))
	slotBefore := env.Slot()
	archiveBefore := env.Profile("alice")

	for i := 0; i < 2; i++ {
		result := activate(t, engine, swap.Target{Name: "alice"})
		assert.False(t, result.Changed)
		assert.Equal(t, "alice", result.Previous)
	}

	assert.Equal(t, slotBefore, env.Slot())
	assert.Equal(t, archiveBefore, env.Profile("alice"))
}

func TestCopy_ArchivedMarkersAreDiscarded(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithProfile("bob", map[string]string{"save.dat": "b", "carol.mhzd": ""})

	activate(t, engine, swap.Target{Name: "bob"})

	assert.Equal(t, map[string]string{"save.dat": "b", "bob.mhzd": ""}, env.Slot())
	assertSingleMarker(t, env, "bob")
}

func TestActivate_ValidationBeforeMutation(t *testing.T) {
	tests := []struct {
		name   string
		target swap.Target
		code   errors.ErrorCode
	}{
		{"collision", swap.Target{Name: "bob", New: true}, errors.ErrAlreadyExists},
		{"sentinel", swap.Target{Name: "New User", New: true}, errors.ErrInvalidInput},
		{"empty", swap.Target{Name: "", New: true}, errors.ErrInvalidInput},
		{"separator", swap.Target{Name: "../evil", New: true}, errors.ErrInvalidInput},
		{"missing", swap.Target{Name: "zed"}, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
			env.WithProfile("alice", nil).WithProfile("bob", bobSave)
			env.WithSlot(aliceSave)
			require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))
			slotBefore := env.Slot()

			_, err := engine.Activate(detect(t, engine), tt.target)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)

			assert.Equal(t, slotBefore, env.Slot())
			assert.Equal(t, map[string]string{}, env.Profile("alice"))
			assert.Equal(t, withDirs(bobSave), env.Profile("bob"))
			names, err := engine.Store().Names()
			require.NoError(t, err)
			assert.Equal(t, []string{"alice", "bob"}, names)
		})
	}
}

func TestActivate_RefusesUnregisteredSlot(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithSlot(aliceSave)

	_, err := engine.Activate(detect(t, engine), swap.Target{Name: "alice", New: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
	assert.Equal(t, withDirs(aliceSave), env.Slot())
}

func TestCopy_Adopt(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithSlot(aliceSave)
	state := detect(t, engine)
	require.True(t, engine.NeedsAdoption(state))

	p, err := engine.Adopt(state, "alice")
	require.NoError(t, err)
	assert.Equal(t, env.Layout.ProfileDir("alice"), p.Path)

	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"))
	assert.Equal(t, withDirs(aliceSave, "alice.mhzd"), env.Slot())
	assert.Equal(t, slot.State{Mode: slot.CopyWithMarker, Profile: "alice"}, detect(t, engine))
}

func TestAdopt_Errors(t *testing.T) {
	t.Run("name_taken", func(t *testing.T) {
		env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
		env.WithProfile("alice", bobSave)
		env.WithSlot(aliceSave)

		_, err := engine.Adopt(detect(t, engine), "alice")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
		assert.Equal(t, withDirs(bobSave), env.Profile("alice"))
		assert.Equal(t, withDirs(aliceSave), env.Slot())
	})

	t.Run("nothing_to_adopt", func(t *testing.T) {
		_, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)

		_, err := engine.Adopt(detect(t, engine), "alice")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
	})
}

func TestLink_AdoptMovesInstallation(t *testing.T) {
	env, engine := newLinkEngine(t)
	env.WithSlot(aliceSave)
	state := detect(t, engine)
	require.True(t, engine.NeedsAdoption(state))

	_, err := engine.Adopt(state, "alice")
	require.NoError(t, err)

	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"))
	assertSlotLinksTo(t, env, "alice")

	active, err := engine.ActiveProfile(detect(t, engine))
	require.NoError(t, err)
	assert.Equal(t, "alice", active)
}

func TestLink_SwapRepointsLink(t *testing.T) {
	env, engine := newLinkEngine(t)
	env.WithProfile("alice", aliceSave).WithProfile("bob", bobSave)

	activate(t, engine, swap.Target{Name: "alice"})
	assertSlotLinksTo(t, env, "alice")

	result := activate(t, engine, swap.Target{Name: "bob"})
	assert.Equal(t, "alice", result.Previous)
	assertSlotLinksTo(t, env, "bob")
	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"))

	result = activate(t, engine, swap.Target{Name: "bob"})
	assert.False(t, result.Changed)
	assertSlotLinksTo(t, env, "bob")

	activate(t, engine, swap.Target{Name: "carol", New: true})
	assertSlotLinksTo(t, env, "carol")
	assert.Equal(t, map[string]string{}, env.Slot())
	assert.Equal(t, withDirs(bobSave), env.Profile("bob"))
}

func TestLink_ArchivesMarkedSlotThenLinks(t *testing.T) {
	env, engine := newLinkEngine(t)
	env.WithProfile("alice", nil).WithProfile("bob", bobSave)
	env.WithSlot(aliceSave)
	require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))

	result := activate(t, engine, swap.Target{Name: "bob"})
	assert.Equal(t, "alice", result.Previous)
	assert.True(t, result.Changed)

	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"), "marker left out of the archive")
	assertSlotLinksTo(t, env, "bob")
	assert.Equal(t, withDirs(bobSave), env.Slot())
}

func TestLink_ConvertsPhysicalSlot(t *testing.T) {
	env, engine := newLinkEngine(t)
	env.WithProfile("alice", map[string]string{"old.sav": "older"})
	env.WithSlot(aliceSave)
	require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))

	result := activate(t, engine, swap.Target{Name: "alice"})
	assert.True(t, result.Changed)

	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"), "slot content wins over the older archive")
	assertSlotLinksTo(t, env, "alice")
}

func TestCopy_ConvertsLinkedSlot(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvIsolated, config.ModeCopy)
	if !tree.SupportsDirectoryLinks(env.FS) {
		t.Skip("no directory links on this platform")
	}
	env.WithProfile("alice", aliceSave).WithProfile("bob", bobSave)
	require.NoError(t, tree.CreateDirectoryLink(env.FS, env.Layout.ProfileDir("alice"), env.SlotPath))

	result := activate(t, engine, swap.Target{Name: "bob"})
	assert.Equal(t, "alice", result.Previous)

	info, err := os.Lstat(env.SlotPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, withDirs(bobSave, "bob.mhzd"), env.Slot())
	assert.Equal(t, withDirs(aliceSave), env.Profile("alice"))
}

func TestActiveProfile_LinkOutsideArchive(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvIsolated, config.ModeCopy)
	if !tree.SupportsDirectoryLinks(env.FS) {
		t.Skip("no directory links on this platform")
	}
	elsewhere := filepath.Join(t.TempDir(), "elsewhere")
	testutil.WriteTree(t, env.FS, elsewhere, aliceSave)
	require.NoError(t, tree.CreateDirectoryLink(env.FS, elsewhere, env.SlotPath))

	_, err := engine.ActiveProfile(detect(t, engine))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))

	st, err := engine.Status()
	require.NoError(t, err)
	assert.NotEmpty(t, st.Problem)
	assert.Empty(t, st.Active)
}

func TestStatus(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithProfile("bob", nil).WithProfile("alice", nil)
	env.WithSlot(aliceSave)
	require.NoError(t, slot.WriteMarker(env.FS, env.SlotPath, "mhzd", "alice"))

	st, err := engine.Status()
	require.NoError(t, err)
	assert.Equal(t, "alice", st.Active)
	assert.Equal(t, []string{"alice", "bob"}, st.Profiles)
	assert.Equal(t, []string{"alice.mhzd"}, st.Markers)
	assert.Equal(t, config.ModeCopy, st.Mode)
	assert.Equal(t, env.SlotPath, st.SlotPath)
	assert.Empty(t, st.Problem)
}

func TestStatus_Unregistered(t *testing.T) {
	env, engine := newEngine(t, testutil.EnvMemoryOnly, config.ModeCopy)
	env.WithSlot(aliceSave)

	st, err := engine.Status()
	require.NoError(t, err)
	assert.Equal(t, slot.CopyNoMarker, st.State.Mode)
	assert.NotEmpty(t, st.Problem)
	assert.Empty(t, st.Profiles)
}
