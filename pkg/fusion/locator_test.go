package fusion

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func mkdir(t *testing.T, fs afero.Fs, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(path, 0755))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func TestLocatorWindows(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	root := filepath.Join("/appdata", "Autodesk", "webdeploy", "production")

	fs := afero.NewMemMapFs()
	older := filepath.Join(root, "aaa111", threadDataRel)
	newer := filepath.Join(root, "bbb222", threadDataRel)
	mkdir(t, fs, older, base.Add(time.Hour))
	mkdir(t, fs, newer, base.Add(2*time.Hour))
	// A build without thread data is ignored.
	mkdir(t, fs, filepath.Join(root, "ccc333", "Fusion"), base.Add(3*time.Hour))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, "readme.txt"), nil, 0644))

	l := NewLocator(Config{
		Fs:     fs,
		GOOS:   "windows",
		Getenv: env(map[string]string{"LOCALAPPDATA": "/appdata"}),
	})

	t.Run("newest build wins", func(t *testing.T) {
		dir, err := l.ResolveConfigDirectory()
		require.NoError(t, err)
		assert.Equal(t, newer, dir)
	})

	t.Run("follows modification time not name", func(t *testing.T) {
		mkdir(t, fs, older, base.Add(5*time.Hour))
		dir, err := l.ResolveConfigDirectory()
		require.NoError(t, err)
		assert.Equal(t, older, dir)
	})

	t.Run("LOCALAPPDATA unset", func(t *testing.T) {
		l := NewLocator(Config{Fs: fs, GOOS: "windows", Getenv: env(nil)})
		_, err := l.ResolveConfigDirectory()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLocatorDarwin(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := filepath.Join("/Users/me", "Library", "Application Support", "Autodesk", "webdeploy", "production")
	legacy := filepath.Join(root, "old", "Autodesk Fusion 360.app", "Contents", "Libraries", "Applications", "Fusion", threadDataRel)
	current := filepath.Join(root, "new", "Autodesk Fusion.app", "Contents", "Libraries", "Applications", "Fusion", threadDataRel)

	now := time.Now()
	mkdir(t, fs, legacy, now.Add(-time.Hour))
	mkdir(t, fs, current, now)

	l := NewLocator(Config{
		Fs:      fs,
		GOOS:    "darwin",
		Getenv:  env(nil),
		HomeDir: func() (string, error) { return "/Users/me", nil },
	})

	dir, err := l.ResolveConfigDirectory()
	require.NoError(t, err)
	assert.Equal(t, current, dir)

	t.Run("home unavailable", func(t *testing.T) {
		l := NewLocator(Config{
			Fs:      fs,
			GOOS:    "darwin",
			Getenv:  env(nil),
			HomeDir: func() (string, error) { return "", errors.New("no home") },
		})
		_, err := l.ResolveConfigDirectory()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLocatorOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/explicit", 0755))
	require.NoError(t, fs.MkdirAll("/from-env", 0755))
	require.NoError(t, afero.WriteFile(fs, "/file.xml", nil, 0644))

	vars := map[string]string{EnvThreadData: "/from-env"}

	t.Run("explicit directory first", func(t *testing.T) {
		l := NewLocator(Config{Fs: fs, Dir: "/explicit", GOOS: "linux", Getenv: env(vars)})
		dir, err := l.ResolveConfigDirectory()
		require.NoError(t, err)
		assert.Equal(t, "/explicit", dir)
	})

	t.Run("environment second", func(t *testing.T) {
		l := NewLocator(Config{Fs: fs, GOOS: "linux", Getenv: env(vars)})
		dir, err := l.ResolveConfigDirectory()
		require.NoError(t, err)
		assert.Equal(t, "/from-env", dir)
	})

	t.Run("explicit directory must exist", func(t *testing.T) {
		l := NewLocator(Config{Fs: fs, Dir: "/missing", GOOS: "linux", Getenv: env(nil)})
		_, err := l.ResolveConfigDirectory()
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("explicit path must be a directory", func(t *testing.T) {
		l := NewLocator(Config{Fs: fs, Dir: "/file.xml", GOOS: "linux", Getenv: env(nil)})
		_, err := l.ResolveConfigDirectory()
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		l := NewLocator(Config{Fs: fs, GOOS: "linux", Getenv: env(nil)})
		_, err := l.ResolveConfigDirectory()
		require.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), EnvThreadData)
	})

	t.Run("missing deploy root", func(t *testing.T) {
		l := NewLocator(Config{
			Fs:     fs,
			GOOS:   "windows",
			Getenv: env(map[string]string{"LOCALAPPDATA": "/nowhere"}),
		})
		_, err := l.ResolveConfigDirectory()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
