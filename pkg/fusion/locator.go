// Package fusion finds the ThreadData directory of a local Fusion
// installation.
package fusion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// EnvThreadData overrides discovery with an explicit directory.
const EnvThreadData = "PRINTTHREADS_THREAD_DATA"

// ErrNotFound is returned when no ThreadData directory can be found.
var ErrNotFound = errors.New("thread data directory not found")

// Resolver resolves the directory thread definitions are read from and
// registered into.
type Resolver interface {
	ResolveConfigDirectory() (string, error)
}

// threadDataRel is the ThreadData location inside one webdeploy build.
var threadDataRel = filepath.Join("Fusion", "Server", "Fusion", "Configuration", "ThreadData")

// macBundles are the application bundle names a macOS build may use.
var macBundles = []string{"Autodesk Fusion.app", "Autodesk Fusion 360.app"}

// Config configures a Locator. Every field is optional.
type Config struct {
	Fs afero.Fs

	// Dir is used as is when set.
	Dir string

	// GOOS selects the installation layout. Defaults to runtime.GOOS.
	GOOS string

	Getenv  func(string) string
	HomeDir func() (string, error)

	Logger hclog.Logger
}

// Locator finds the ThreadData directory of the most recently deployed
// Fusion build.
type Locator struct {
	fs      afero.Fs
	dir     string
	goos    string
	getenv  func(string) string
	homeDir func() (string, error)
	logger  hclog.Logger
}

var _ Resolver = (*Locator)(nil)

// NewLocator creates a Locator, filling in defaults from the running
// process.
func NewLocator(cfg Config) *Locator {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.GOOS == "" {
		cfg.GOOS = runtime.GOOS
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	if cfg.HomeDir == nil {
		cfg.HomeDir = os.UserHomeDir
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Locator{
		fs:      cfg.Fs,
		dir:     cfg.Dir,
		goos:    cfg.GOOS,
		getenv:  cfg.Getenv,
		homeDir: cfg.HomeDir,
		logger:  cfg.Logger.Named("locator"),
	}
}

// ResolveConfigDirectory searches in priority order:
// 1. the configured directory
// 2. $PRINTTHREADS_THREAD_DATA
// 3. the newest ThreadData directory under the platform's webdeploy root
func (l *Locator) ResolveConfigDirectory() (string, error) {
	if l.dir != "" {
		return l.checkDir(l.dir)
	}

	if dir := l.getenv(EnvThreadData); dir != "" {
		return l.checkDir(dir)
	}

	root, err := l.deployRoot()
	if err != nil {
		return "", err
	}

	dir, err := l.newest(root)
	if err != nil {
		return "", err
	}
	l.logger.Debug("found thread data directory", "path", dir)
	return dir, nil
}

func (l *Locator) checkDir(dir string) (string, error) {
	ok, err := afero.DirExists(l.fs, dir)
	if err != nil {
		return "", fmt.Errorf("error checking %s: %w", dir, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}
	return dir, nil
}

// deployRoot returns the directory holding one subdirectory per deployed
// Fusion build.
func (l *Locator) deployRoot() (string, error) {
	switch l.goos {
	case "windows":
		local := l.getenv("LOCALAPPDATA")
		if local == "" {
			return "", fmt.Errorf("%w: LOCALAPPDATA is not set", ErrNotFound)
		}
		return filepath.Join(local, "Autodesk", "webdeploy", "production"), nil
	case "darwin":
		home, err := l.homeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return filepath.Join(home, "Library", "Application Support", "Autodesk", "webdeploy", "production"), nil
	}
	return "", fmt.Errorf("%w: Fusion is not installed on %s, set %s", ErrNotFound, l.goos, EnvThreadData)
}

// candidates lists where ThreadData may live inside one build directory.
func (l *Locator) candidates(build string) []string {
	if l.goos != "darwin" {
		return []string{filepath.Join(build, threadDataRel)}
	}
	paths := make([]string, 0, len(macBundles))
	for _, bundle := range macBundles {
		paths = append(paths, filepath.Join(build, bundle, "Contents", "Libraries", "Applications", "Fusion", threadDataRel))
	}
	return paths
}

type candidate struct {
	path  string
	mtime int64
}

// newest picks the most recently modified ThreadData directory under root.
func (l *Locator) newest(root string) (string, error) {
	entries, err := afero.ReadDir(l.fs, root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNotFound, root)
		}
		return "", fmt.Errorf("error reading %s: %w", root, err)
	}

	var found []candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, path := range l.candidates(filepath.Join(root, entry.Name())) {
			info, err := l.fs.Stat(path)
			if err != nil || !info.IsDir() {
				continue
			}
			found = append(found, candidate{path: path, mtime: info.ModTime().UnixNano()})
		}
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w: no ThreadData under %s", ErrNotFound, root)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].mtime != found[j].mtime {
			return found[i].mtime > found[j].mtime
		}
		return found[i].path > found[j].path
	})
	return found[0].path, nil
}
