// Package batch registers thread definitions for 3D printing in a ThreadData
// directory: it copies custom definitions in, removes stale derived files and
// writes a derived sibling for every source document.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/printthreads/printthreads/pkg/threaddata"
)

// DefaultMarker is added to the base name of every derived file.
const DefaultMarker = "-3Dprinting"

const ext = ".xml"

// Config configures a Runner.
type Config struct {
	Fs afero.Fs

	// Dir is the ThreadData directory. Required.
	Dir string

	// CustomDir holds extra definitions copied into Dir before processing.
	// Optional.
	CustomDir string

	// Marker identifies derived files. Defaults to DefaultMarker.
	Marker string

	Transformer *threaddata.Transformer

	// DryRun reports what would happen without touching the filesystem.
	DryRun bool

	// NewBackOff returns the retry policy for filesystem operations. A
	// running Fusion instance may briefly hold files open.
	NewBackOff func() backoff.BackOff

	Logger hclog.Logger
}

// Runner processes one ThreadData directory.
type Runner struct {
	fs          afero.Fs
	dir         string
	customDir   string
	marker      string
	transformer *threaddata.Transformer
	dryRun      bool
	newBackOff  func() backoff.BackOff
	logger      hclog.Logger
}

// New creates a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("thread data directory is required")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	if strings.ContainsAny(cfg.Marker, `/\`) {
		return nil, fmt.Errorf("marker %q must not contain path separators", cfg.Marker)
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Transformer == nil {
		cfg.Transformer = threaddata.NewTransformer(threaddata.Config{Logger: cfg.Logger})
	}
	if cfg.NewBackOff == nil {
		cfg.NewBackOff = func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
		}
	}

	return &Runner{
		fs:          cfg.Fs,
		dir:         cfg.Dir,
		customDir:   cfg.CustomDir,
		marker:      cfg.Marker,
		transformer: cfg.Transformer,
		dryRun:      cfg.DryRun,
		newBackOff:  cfg.NewBackOff,
		logger:      cfg.Logger.Named("batch"),
	}, nil
}

// Output pairs a source document with the derived file written for it.
type Output struct {
	Input  string
	Output string
}

// Failure is a document that could not be processed.
type Failure struct {
	Input string
	Err   error
}

// Result describes one run.
type Result struct {
	// Copied are the custom definitions registered into the directory.
	Copied []string

	// Removed are the stale derived files deleted before processing.
	Removed []string

	// Written are the derived files produced.
	Written []Output

	// Failed are documents skipped because of a fatal document error.
	Failed []Failure

	// Stats counts the documents in Written only.
	Stats *threaddata.Stats

	// DryRun is set when nothing was copied, removed or written.
	DryRun bool
}

// Err returns all document failures as one error, or nil.
func (r *Result) Err() error {
	var result *multierror.Error
	for _, f := range r.Failed {
		result = multierror.Append(result, f.Err)
	}
	return result.ErrorOrNil()
}

// IsDerived reports whether name was produced by a previous run.
func IsDerived(name, marker string) bool {
	base := filepath.Base(name)
	return strings.Contains(strings.TrimSuffix(base, filepath.Ext(base)), marker)
}

// OutputPath returns the derived sibling of input.
func OutputPath(input, marker string) string {
	dir, base := filepath.Split(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+marker+ext)
}

// Run registers custom definitions, removes stale derived files and writes a
// derived file for every remaining document. A document failure does not
// stop the run; it is recorded in the result. The returned error is only set
// when the directory itself could not be processed.
func (r *Runner) Run() (*Result, error) {
	result := &Result{Stats: threaddata.NewStats(), DryRun: r.dryRun}

	copied, err := r.Register()
	result.Copied = copied
	if err != nil {
		return result, err
	}

	removed, err := r.Clean()
	result.Removed = removed
	if err != nil {
		return result, err
	}

	inputs, err := r.Inputs()
	if err != nil {
		return result, err
	}

	for _, input := range inputs {
		output := OutputPath(input, r.marker)

		if err := r.process(input, output, result.Stats); err != nil {
			r.logger.Warn("skipping document", "file", input, "error", err)
			result.Failed = append(result.Failed, Failure{Input: input, Err: err})
			continue
		}

		r.logger.Info("wrote adjusted definitions", "file", output, "dry_run", r.dryRun)
		result.Written = append(result.Written, Output{Input: input, Output: output})
	}

	return result, nil
}

// process transforms one document. Counts go to stats only once the document
// succeeded, so failed and retried attempts are not reported.
func (r *Runner) process(input, output string, stats *threaddata.Stats) error {
	if r.dryRun {
		doc := threaddata.NewStats()
		if err := r.transformer.Check(r.fs, input, doc); err != nil {
			return err
		}
		stats.Merge(doc)
		return nil
	}

	var doc *threaddata.Stats
	err := r.retry(func() error {
		doc = threaddata.NewStats()
		err := r.transformer.TransformFile(r.fs, input, output, doc)
		var de *threaddata.DocumentError
		if errors.As(err, &de) {
			return backoff.Permanent(err)
		}
		return err
	})
	if err != nil {
		return err
	}
	stats.Merge(doc)
	return nil
}

// Inputs lists the source documents in the directory, skipping derived files.
func (r *Runner) Inputs() ([]string, error) {
	files, err := r.list(r.dir)
	if err != nil {
		return nil, err
	}

	var inputs []string
	for _, f := range files {
		if !IsDerived(f, r.marker) {
			inputs = append(inputs, f)
		}
	}
	return inputs, nil
}

// Clean deletes derived files left by a previous run.
func (r *Runner) Clean() ([]string, error) {
	files, err := r.list(r.dir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if !strings.HasSuffix(stem, r.marker) {
			continue
		}

		if !r.dryRun {
			path := f
			if err := r.retry(func() error { return r.fs.Remove(path) }); err != nil {
				return removed, fmt.Errorf("error removing %s: %w", f, err)
			}
		}
		r.logger.Debug("removed stale file", "file", f)
		removed = append(removed, f)
	}
	return removed, nil
}

// Register copies the custom definitions into the directory. Derived files
// in the custom directory are not copied.
func (r *Runner) Register() ([]string, error) {
	if r.customDir == "" || filepath.Clean(r.customDir) == filepath.Clean(r.dir) {
		return nil, nil
	}

	exists, err := afero.DirExists(r.fs, r.customDir)
	if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", r.customDir, err)
	}
	if !exists {
		r.logger.Debug("no custom definitions directory", "path", r.customDir)
		return nil, nil
	}

	files, err := r.list(r.customDir)
	if err != nil {
		return nil, err
	}

	var copied []string
	for _, src := range files {
		if IsDerived(src, r.marker) {
			continue
		}

		dst := filepath.Join(r.dir, filepath.Base(src))
		if !r.dryRun {
			if err := r.retry(func() error { return r.copyFile(src, dst) }); err != nil {
				return copied, fmt.Errorf("error copying %s: %w", src, err)
			}
		}
		r.logger.Info("registered custom definitions", "file", dst)
		copied = append(copied, dst)
	}
	return copied, nil
}

func (r *Runner) list(dir string) ([]string, error) {
	files, err := afero.Glob(r.fs, filepath.Join(dir, "*"+ext))
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) copyFile(src, dst string) error {
	in, err := r.fs.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backoff.Permanent(err)
		}
		return err
	}
	defer in.Close()

	out, err := r.fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (r *Runner) retry(op func() error) error {
	return backoff.Retry(op, r.newBackOff())
}
