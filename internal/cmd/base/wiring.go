package base

import (
	"os"
	"path/filepath"

	"github.com/printthreads/printthreads/internal/config"
	"github.com/printthreads/printthreads/pkg/batch"
	"github.com/printthreads/printthreads/pkg/fusion"
	"github.com/printthreads/printthreads/pkg/threaddata"
)

// ResolveDir finds the ThreadData directory. dir (from a flag) wins over the
// configuration file, which wins over discovery.
func (c *Command) ResolveDir(dir string, cfg *config.Config) (string, error) {
	if dir == "" {
		dir = cfg.ThreadDataDir
	}
	locator := fusion.NewLocator(fusion.Config{
		Fs:     c.FS(),
		Dir:    dir,
		Getenv: c.Env(),
		Logger: c.Log,
	})
	return locator.ResolveConfigDirectory()
}

// Transformer builds the document transformer described by cfg.
func (c *Command) Transformer(cfg *config.Config) *threaddata.Transformer {
	return threaddata.NewTransformer(threaddata.Config{
		Model:      cfg.Adjustment.Model(),
		NameSuffix: cfg.NameSuffix,
		Logger:     c.Log,
	})
}

// Runner builds a batch runner for dir.
func (c *Command) Runner(dir, customDir string, dryRun bool, cfg *config.Config) (*batch.Runner, error) {
	return batch.New(batch.Config{
		Fs:          c.FS(),
		Dir:         dir,
		CustomDir:   customDir,
		Marker:      cfg.FileMarker,
		Transformer: c.Transformer(cfg),
		DryRun:      dryRun,
		Logger:      c.Log,
	})
}

// DefaultCustomDir is the directory of the running executable, where custom
// definitions are shipped next to the binary.
func DefaultCustomDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
