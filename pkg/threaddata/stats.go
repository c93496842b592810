package threaddata

import (
	"github.com/printthreads/printthreads/pkg/adjust"
)

// Sink receives progress from the transformer. Implementations must not
// affect the transformation.
type Sink interface {
	ThreadType(file, name string)
	Designation(file string)
	Thread(file string, g adjust.Gender)
	FieldSkipped(file, field string)
}

// FileStats counts what was seen in one document.
type FileStats struct {
	ThreadTypes  int
	Designations int
	Threads      int
	Internal     int
	External     int

	// Skipped counts diameter fields left unchanged because their text was
	// not a number.
	Skipped int

	// Names are the display names of the thread types, in document order.
	Names []string
}

func (f *FileStats) add(o FileStats) {
	f.ThreadTypes += o.ThreadTypes
	f.Designations += o.Designations
	f.Threads += o.Threads
	f.Internal += o.Internal
	f.External += o.External
	f.Skipped += o.Skipped
	f.Names = append(f.Names, o.Names...)
}

// Stats is a Sink keeping per-file breakdowns. It is not safe for concurrent
// use.
type Stats struct {
	files map[string]*FileStats
	order []string
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{files: make(map[string]*FileStats)}
}

var _ Sink = (*Stats)(nil)

func (s *Stats) file(name string) *FileStats {
	fs, ok := s.files[name]
	if !ok {
		fs = &FileStats{}
		s.files[name] = fs
		s.order = append(s.order, name)
	}
	return fs
}

func (s *Stats) ThreadType(file, name string) {
	fs := s.file(file)
	fs.ThreadTypes++
	fs.Names = append(fs.Names, name)
}

func (s *Stats) Designation(file string) {
	s.file(file).Designations++
}

func (s *Stats) Thread(file string, g adjust.Gender) {
	fs := s.file(file)
	fs.Threads++
	if g == adjust.Internal {
		fs.Internal++
	} else {
		fs.External++
	}
}

func (s *Stats) FieldSkipped(file, field string) {
	s.file(file).Skipped++
}

// Files returns the names of all files seen, in the order first seen.
func (s *Stats) Files() []string {
	return append([]string(nil), s.order...)
}

// File returns the counts for one file.
func (s *Stats) File(name string) FileStats {
	if fs, ok := s.files[name]; ok {
		return *fs
	}
	return FileStats{}
}

// Merge adds the counts of o into s, keeping the order files were first seen.
func (s *Stats) Merge(o *Stats) {
	for _, name := range o.order {
		s.file(name).add(*o.files[name])
	}
}

// Totals sums every file.
func (s *Stats) Totals() FileStats {
	var total FileStats
	for _, name := range s.order {
		total.add(*s.files[name])
	}
	return total
}

type nopSink struct{}

func (nopSink) ThreadType(string, string) {}
func (nopSink) Designation(string) {}
func (nopSink) Thread(string, adjust.Gender) {}
func (nopSink) FieldSkipped(string, string) {}
