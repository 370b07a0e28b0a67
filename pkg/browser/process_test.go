package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessManager(t *testing.T) {
	profile := Profile{Dir: t.TempDir(), Headless: true}

	pm := NewProcessManager(profile)
	assert.NotNil(t, pm)
	assert.Equal(t, profile, pm.profile)
	assert.False(t, pm.IsRunning())

	// Killing a process that never started is a no-op
	pm.Kill()
	assert.False(t, pm.IsRunning())
}

func TestNewLauncherFlags(t *testing.T) {
	dir := t.TempDir()
	pm := NewProcessManager(Profile{
		Dir:       dir,
		Headless:  false,
		NoSandbox: true,
		Args:      []string{"--lang=pt-BR", "mute-audio"},
	})

	l := pm.newLauncher(context.Background())

	assert.Equal(t, dir, l.Get("user-data-dir"))
	assert.True(t, l.Has("disable-gpu"))
	assert.True(t, l.Has("disable-software-rasterizer"))
	assert.True(t, l.Has("disable-dev-shm-usage"))
	assert.True(t, l.Has("no-sandbox"))
	assert.False(t, l.Has("headless"))
	assert.Equal(t, "pt-BR", l.Get("lang"))
	assert.True(t, l.Has("mute-audio"))
}

func TestEnsureProfileDir(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "chrome_profile")
		require.NoError(t, ensureProfileDir(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, ensureProfileDir(""))
	})

	t.Run("path below a regular file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		assert.Error(t, ensureProfileDir(filepath.Join(file, "profile")))
	})
}

func TestParseChromeVersion(t *testing.T) {
	tests := []struct {
		banner   string
		expected string
		wantErr  bool
	}{
		{banner: "Google Chrome 124.0.6367.91\n", expected: "124.0.6367"},
		{banner: "Chromium 120.0.6099.109 built on Debian", expected: "120.0.6099"},
		{banner: "garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.banner, func(t *testing.T) {
			v, err := ParseChromeVersion(tt.banner)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestCheckChromeVersion(t *testing.T) {
	v := semver.MustParse("124.0.6367")

	assert.NoError(t, CheckChromeVersion(v, ""))
	assert.NoError(t, CheckChromeVersion(v, "110.0.0"))
	assert.NoError(t, CheckChromeVersion(v, "124.0.6367"))
	assert.Error(t, CheckChromeVersion(v, "125.0.0"))
	assert.Error(t, CheckChromeVersion(v, "not-a-version"))
}
