package csutils

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	unsetenv(t, "GOSTRIKE_SERVER_ROOT", "GOSTRIKE_DEBUG", "GOSTRIKE_PLATFORM")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, runtime.GOOS, s.Platform)
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("GOSTRIKE_SERVER_ROOT", "/srv/cs2/game/csgo")
	t.Setenv("GOSTRIKE_DEBUG", "true")
	t.Setenv("GOSTRIKE_PLATFORM", "windows")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, Settings{ServerRoot: "/srv/cs2/game/csgo", Debug: true, Platform: "windows"}, s)
}

func TestLoadSettingsInvalid(t *testing.T) {
	t.Setenv("GOSTRIKE_DEBUG", "maybe")

	s, err := LoadSettings()
	require.Error(t, err)
	assert.Equal(t, DefaultSettings(), s)
}
