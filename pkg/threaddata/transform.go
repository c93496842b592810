package threaddata

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/printthreads/printthreads/pkg/adjust"
)

// Element names used by Fusion's ThreadData files.
const (
	elemThreadType  = "ThreadType"
	elemName        = "Name"
	elemCustomName  = "CustomName"
	elemUnit        = "Unit"
	elemThreadSize  = "ThreadSize"
	elemDesignation = "Designation"
	elemDesignName  = "ThreadDesignation"
	elemTPI         = "TPI"
	elemPitch       = "Pitch"
	elemThread      = "Thread"
	elemGender      = "Gender"
	elemMajorDia    = "MajorDia"
	elemPitchDia    = "PitchDia"
	elemMinorDia    = "MinorDia"
	elemTapDrill    = "TapDrill"
)

// DefaultNameSuffix is appended to thread type names.
const DefaultNameSuffix = " for 3D printing"

// Precision is the number of decimals diameters are written with.
const Precision = 4

const unnamed = "<unnamed>"

const bom = "\ufeff"

var diameterFields = []string{elemMajorDia, elemPitchDia, elemMinorDia}

// Config configures a Transformer.
type Config struct {
	// Model computes clearances. Zero value means adjust.DefaultModel.
	Model adjust.Model

	// NameSuffix is appended to Name and CustomName. Empty means
	// DefaultNameSuffix.
	NameSuffix string

	Logger hclog.Logger
}

// Transformer applies the clearance model to thread documents.
type Transformer struct {
	model      adjust.Model
	nameSuffix string
	logger     hclog.Logger
}

// NewTransformer creates a Transformer, filling in defaults.
func NewTransformer(cfg Config) *Transformer {
	if cfg.Model == (adjust.Model{}) {
		cfg.Model = adjust.DefaultModel
	}
	if cfg.NameSuffix == "" {
		cfg.NameSuffix = DefaultNameSuffix
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Transformer{
		model:      cfg.Model,
		nameSuffix: cfg.NameSuffix,
		logger:     cfg.Logger.Named("transform"),
	}
}

// TransformFile reads inputPath, adjusts it and writes the result to
// outputPath. The input is never modified. The output is written to a
// temporary file in the destination directory and renamed into place, so a
// failed run leaves no partial output behind. sink may be nil.
func (t *Transformer) TransformFile(fs afero.Fs, inputPath, outputPath string, sink Sink) error {
	doc, err := readDocument(fs, inputPath)
	if err != nil {
		return err
	}

	if err := t.Transform(doc, inputPath, sink); err != nil {
		return err
	}

	setDeclaration(doc)

	if err := writeDocument(fs, outputPath, doc); err != nil {
		return fmt.Errorf("error writing %s: %w", outputPath, err)
	}
	return nil
}

// Check reads and transforms inputPath without writing anything, reporting
// the same errors TransformFile would.
func (t *Transformer) Check(fs afero.Fs, inputPath string, sink Sink) error {
	doc, err := readDocument(fs, inputPath)
	if err != nil {
		return err
	}
	return t.Transform(doc, inputPath, sink)
}

// Transform adjusts doc in memory. file is only used to label errors and
// statistics. sink may be nil.
func (t *Transformer) Transform(doc *etree.Document, file string, sink Sink) error {
	if sink == nil {
		sink = nopSink{}
	}

	root := doc.Root()
	if root == nil {
		return nil
	}

	for _, tt := range threadTypes(root) {
		if err := t.threadType(tt, file, sink); err != nil {
			return err
		}
	}
	return nil
}

// threadTypes finds the thread type elements of a document. Fusion uses the
// thread type as the document element; collections wrap several of them.
func threadTypes(root *etree.Element) []*etree.Element {
	if isThreadType(root) {
		return []*etree.Element{root}
	}

	var types []*etree.Element
	for _, child := range root.ChildElements() {
		if isThreadType(child) {
			types = append(types, child)
		}
	}
	return types
}

func isThreadType(e *etree.Element) bool {
	return e.Tag == elemThreadType || e.SelectElement(elemThreadSize) != nil
}

func (t *Transformer) threadType(tt *etree.Element, file string, sink Sink) error {
	name := displayName(tt)

	unitEl := tt.SelectElement(elemUnit)
	if unitEl == nil {
		return &DocumentError{
			File: file,
			Path: tt.GetPath(),
			Name: name,
			Err:  fmt.Errorf("%w: no %s element", ErrInvalidUnit, elemUnit),
		}
	}
	unit, err := adjust.ParseUnit(strings.TrimSpace(unitEl.Text()))
	if err != nil {
		return &DocumentError{
			File: file,
			Path: tt.GetPath(),
			Name: name,
			Err:  fmt.Errorf("%w: %v", ErrInvalidUnit, err),
		}
	}

	// Applying twice appends twice.
	for _, tag := range []string{elemName, elemCustomName} {
		if el := tt.SelectElement(tag); el != nil {
			el.SetText(el.Text() + t.nameSuffix)
		}
	}

	sink.ThreadType(file, name)
	t.logger.Debug("adjusting thread type", "file", file, "name", name, "unit", unit)

	for _, size := range tt.SelectElements(elemThreadSize) {
		for _, d := range size.SelectElements(elemDesignation) {
			if err := t.designation(d, unit, file, sink); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Transformer) designation(d *etree.Element, unit adjust.Unit, file string, sink Sink) error {
	var name string
	if el := d.SelectElement(elemDesignName); el != nil {
		name = strings.TrimSpace(el.Text())
	}

	pitch, err := resolvePitch(d)
	if err != nil {
		return &DocumentError{File: file, Path: d.GetPath(), Name: name, Err: err}
	}
	pitchMM := pitch.Millimeters(unit)

	sink.Designation(file)

	for _, th := range d.SelectElements(elemThread) {
		if err := t.thread(th, pitchMM, unit, file, sink); err != nil {
			var de *DocumentError
			if errors.As(err, &de) && de.Name == "" {
				de.Name = name
			}
			return err
		}
	}
	return nil
}

// resolvePitch reads a designation's pitch. TPI takes precedence over Pitch.
func resolvePitch(d *etree.Element) (adjust.Pitch, error) {
	kind := adjust.ThreadsPerInch
	el := d.SelectElement(elemTPI)
	if el == nil {
		kind = adjust.Linear
		el = d.SelectElement(elemPitch)
	}
	if el == nil {
		return adjust.Pitch{}, fmt.Errorf("%w: no %s or %s element", ErrMissingPitch, elemTPI, elemPitch)
	}

	text := el.Text()
	v, ok := parseNumber(text)
	if !ok || v <= 0 {
		return adjust.Pitch{}, fmt.Errorf("%w: %s %q", ErrInvalidPitch, kind, text)
	}
	return adjust.Pitch{Kind: kind, Value: v}, nil
}

func (t *Transformer) thread(th *etree.Element, pitchMM float64, unit adjust.Unit, file string, sink Sink) error {
	genderEl := th.SelectElement(elemGender)
	if genderEl == nil {
		return &DocumentError{File: file, Path: th.GetPath(), Err: ErrMissingGender}
	}
	gender, err := adjust.ParseGender(strings.TrimSpace(genderEl.Text()))
	if err != nil {
		return &DocumentError{
			File: file,
			Path: th.GetPath(),
			Err:  fmt.Errorf("%w: %v", ErrInvalidGender, err),
		}
	}

	offset := t.model.DirectionalIn(pitchMM, gender, unit)

	fields := diameterFields
	if gender == adjust.Internal {
		fields = append(fields[:len(fields):len(fields)], elemTapDrill)
	}

	for _, tag := range fields {
		el := th.SelectElement(tag)
		if el == nil {
			continue
		}
		v, ok := parseNumber(el.Text())
		if !ok {
			sink.FieldSkipped(file, tag)
			t.logger.Debug("leaving non-numeric field unchanged",
				"file", file, "path", el.GetPath(), "text", el.Text())
			continue
		}
		el.SetText(formatDiameter(v + offset))
	}

	sink.Thread(file, gender)
	return nil
}

// displayName prefers Name, then CustomName.
func displayName(tt *etree.Element) string {
	for _, tag := range []string{elemName, elemCustomName} {
		if el := tt.SelectElement(tag); el != nil {
			if s := strings.TrimSpace(el.Text()); s != "" {
				return s
			}
		}
	}
	return unnamed
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatDiameter(v float64) string {
	return strconv.FormatFloat(v, 'f', Precision, 64)
}

func readDocument(fs afero.Fs, path string) (*etree.Document, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, &DocumentError{File: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return doc, nil
}

// setDeclaration replaces any XML declaration with an explicit UTF-8 one at
// the top of the document. A leading byte order mark is dropped; nothing may
// precede the declaration.
func setDeclaration(doc *etree.Document) {
	for i := len(doc.Child) - 1; i >= 0; i-- {
		if pi, ok := doc.Child[i].(*etree.ProcInst); ok && pi.Target == "xml" {
			doc.RemoveChildAt(i)
		}
	}
	if len(doc.Child) > 0 {
		if cd, ok := doc.Child[0].(*etree.CharData); ok && strings.HasPrefix(cd.Data, bom) {
			cd.SetData(strings.TrimPrefix(cd.Data, bom))
			if cd.Data == "" {
				doc.RemoveChildAt(0)
			}
		}
	}
	if len(doc.Child) > 0 {
		if _, ok := doc.Child[0].(*etree.CharData); !ok {
			doc.InsertChildAt(0, etree.NewText("\n"))
		}
	}
	doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))
}

func writeDocument(fs afero.Fs, path string, doc *etree.Document) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(fs, dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}

	if _, err := doc.WriteTo(tmp); err != nil {
		tmp.Close()
		fs.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmp.Name())
		return err
	}
	if err := fs.Rename(tmp.Name(), path); err != nil {
		fs.Remove(tmp.Name())
		return err
	}
	return nil
}
