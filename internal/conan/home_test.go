package conan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLocateDefaults(t *testing.T) {
	home := t.TempDir()

	h, err := Locate(Options{Getenv: env(nil), UserHome: home, HostOS: "linux"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".conan"), h.Dir)
	assert.Equal(t, filepath.Join(home, ".conan", "data"), h.StoragePath)
	assert.Equal(t, filepath.Join(home, ".conan"), h.CacheDir())
	assert.Empty(t, h.ShortPathsHome)
}

func TestLocateWindowsShortPaths(t *testing.T) {
	home := t.TempDir()

	h, err := Locate(Options{Getenv: env(nil), UserHome: home, HostOS: "windows"})
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowsShortPathsHome, h.ShortPathsHome)

	h, err = Locate(Options{
		Getenv:   env(map[string]string{"CONAN_USER_HOME_SHORT": "None"}),
		UserHome: home,
		HostOS:   "windows",
	})
	require.NoError(t, err)
	assert.Empty(t, h.ShortPathsHome)
}

func TestLocateFromConanConf(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".conan")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conan.conf"), []byte(`[general]
user_home_short = D:\cs

[storage]
path = ./cache/data
`), 0644))

	h, err := Locate(Options{Getenv: env(nil), UserHome: home, HostOS: "linux"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", "data"), h.StoragePath)
	assert.Equal(t, filepath.Join(dir, "cache"), h.CacheDir())
	assert.Equal(t, `D:\cs`, h.ShortPathsHome)
}

func TestLocateEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	custom := t.TempDir()

	h, err := Locate(Options{
		Getenv: env(map[string]string{
			"CONAN_USER_HOME":    custom,
			"CONAN_STORAGE_PATH": "~/pkgs",
		}),
		UserHome: home,
		HostOS:   "linux",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(custom, ".conan"), h.Dir)
	assert.Equal(t, filepath.Join(home, "pkgs"), h.StoragePath)
	assert.Equal(t, home, h.CacheDir())
}
