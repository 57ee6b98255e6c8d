// pkg/config/loader_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Temp config files, env vars
// PURPOSE: Verify layering order and validation of the configuration

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_MatchesOriginalTool(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "", cfg.Paths.Documents)
	assert.Equal(t, "MultiHorizon", cfg.Paths.ArchiveFolder)
	assert.Equal(t, "Horizon Zero Dawn", cfg.Paths.GameFolder)
	assert.Equal(t, "mhzd", cfg.Profiles.MarkerExt)
	assert.Equal(t, "New User", cfg.Profiles.NewProfileLabel)
	assert.Equal(t, config.ModeCopy, cfg.Swap.Mode)
	assert.True(t, cfg.Swap.VerifyArchive)
	assert.True(t, cfg.Launch.Enabled)
	assert.Equal(t, "steam://rungameid/1151640", cfg.Launch.URI)
}

func TestLoad_UserFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[paths]
documents = "/data/docs"

[swap]
mode = "link"
`)
	cfg, err := config.Load(config.LoadOptions{ConfigFile: path, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "/data/docs", cfg.Paths.Documents)
	assert.Equal(t, config.ModeLink, cfg.Swap.Mode)
	// untouched keys keep defaults
	assert.Equal(t, "MultiHorizon", cfg.Paths.ArchiveFolder)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[swap]\nmode = \"link\"\n")
	t.Setenv("SAVESWAP_SWAP__MODE", "auto")
	t.Setenv("SAVESWAP_PATHS__GAME_FOLDER", "Other Game")

	cfg, err := config.Load(config.LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, config.ModeAuto, cfg.Swap.Mode)
	assert.Equal(t, "Other Game", cfg.Paths.GameFolder)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("SAVESWAP_SWAP__MODE", "link")
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: os.DevNull,
		Overrides: map[string]interface{}{
			"swap.mode":      "copy",
			"launch.enabled": false,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, config.ModeCopy, cfg.Swap.Mode)
	assert.False(t, cfg.Launch.Enabled)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(config.LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml"), SkipEnv: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "[swap\nmode = ")
	_, err := config.Load(config.LoadOptions{ConfigFile: path, SkipEnv: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"defaults", func(c *config.Config) {}, false},
		{"dotted extension is normalized", func(c *config.Config) { c.Profiles.MarkerExt = ".mhzd" }, false},
		{"empty archive folder", func(c *config.Config) { c.Paths.ArchiveFolder = " " }, true},
		{"empty game folder", func(c *config.Config) { c.Paths.GameFolder = "" }, true},
		{"same folders", func(c *config.Config) { c.Paths.GameFolder = c.Paths.ArchiveFolder }, true},
		{"extension with separator", func(c *config.Config) { c.Profiles.MarkerExt = "a/b" }, true},
		{"empty label", func(c *config.Config) { c.Profiles.NewProfileLabel = "" }, true},
		{"unknown mode", func(c *config.Config) { c.Swap.Mode = "hardlink" }, true},
		{"launch without uri", func(c *config.Config) { c.Launch.URI = "" }, true},
		{"launch disabled without uri", func(c *config.Config) { c.Launch.URI = ""; c.Launch.Enabled = false }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "mhzd", cfg.Profiles.MarkerExt)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := config.ParseMode(" LINK ")
	require.NoError(t, err)
	assert.Equal(t, config.ModeLink, m)

	_, err = config.ParseMode("")
	assert.Error(t, err)
}

func TestMarshalTOML_RoundTrips(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.MarshalTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "archive_folder")
	assert.Contains(t, string(data), "MultiHorizon")

	var decoded config.Config
	require.NoError(t, gotoml.Unmarshal(data, &decoded))
	assert.Equal(t, *cfg, decoded)
}
