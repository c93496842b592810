// Package adjust computes the diameter offsets applied to thread definitions
// so that 3D printed threads mate.
package adjust

import (
	"fmt"
	"math"
	"strings"
)

// MillimetersPerInch converts between the two units thread data is stored in.
const MillimetersPerInch = 25.4

const (
	// DefaultCoefficient scales pitch (mm) into clearance (mm).
	DefaultCoefficient = 0.16

	// DefaultCeiling caps the clearance regardless of pitch (mm).
	DefaultCeiling = 0.3
)

// Unit is the measurement unit declared by a thread type.
type Unit string

const (
	Millimeter Unit = "mm"
	Inch       Unit = "in"
)

// ParseUnit parses the text of a thread type's unit field.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Millimeter, Inch:
		return Unit(s), nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Gender is the polarity of a thread.
type Gender string

const (
	// Internal threads are nuts and tapped holes.
	Internal Gender = "internal"

	// External threads are bolts and studs.
	External Gender = "external"
)

// ParseGender parses the text of a thread's gender field, ignoring case.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(s)); g {
	case Internal, External:
		return g, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// Model is a clamped linear clearance model.
type Model struct {
	Coefficient float64
	Ceiling     float64
}

// DefaultModel is the empirically tuned model used unless configured
// otherwise.
var DefaultModel = Model{
	Coefficient: DefaultCoefficient,
	Ceiling:     DefaultCeiling,
}

// Offset returns the unsigned clearance in millimeters for a pitch given in
// millimeters.
func (m Model) Offset(pitchMM float64) float64 {
	return math.Min(pitchMM*m.Coefficient, m.Ceiling)
}

// Directional returns the signed offset in millimeters. Internal threads grow,
// external threads shrink.
func (m Model) Directional(pitchMM float64, g Gender) float64 {
	offset := math.Abs(m.Offset(pitchMM))
	if g == Internal {
		return offset
	}
	return -offset
}

// DirectionalIn returns the signed offset expressed in unit u, ready to be
// added to a diameter stored in that unit.
func (m Model) DirectionalIn(pitchMM float64, g Gender, u Unit) float64 {
	return FromMillimeters(m.Directional(pitchMM, g), u)
}

// CalculateOffset applies DefaultModel to a pitch in millimeters.
func CalculateOffset(pitchMM float64) float64 {
	return DefaultModel.Offset(pitchMM)
}

// PitchKind tells how a designation expresses its pitch.
type PitchKind int

const (
	// ThreadsPerInch is always an inch-domain count, whatever the thread
	// type's unit.
	ThreadsPerInch PitchKind = iota

	// Linear is a distance between crests in the thread type's unit.
	Linear
)

func (k PitchKind) String() string {
	switch k {
	case ThreadsPerInch:
		return "TPI"
	case Linear:
		return "Pitch"
	}
	return fmt.Sprintf("PitchKind(%d)", int(k))
}

// Pitch is a designation's pitch as written in the document.
type Pitch struct {
	Kind  PitchKind
	Value float64
}

// Millimeters converts p to a linear pitch in millimeters. unit is the
// enclosing thread type's unit and only matters for Linear pitches.
func (p Pitch) Millimeters(unit Unit) float64 {
	if p.Kind == ThreadsPerInch {
		return MillimetersPerInch / p.Value
	}
	return ToMillimeters(p.Value, unit)
}

// ToMillimeters converts v from unit u to millimeters.
func ToMillimeters(v float64, u Unit) float64 {
	if u == Inch {
		return v * MillimetersPerInch
	}
	return v
}

// FromMillimeters converts a millimeter value v to unit u.
func FromMillimeters(v float64, u Unit) float64 {
	if u == Inch {
		return v / MillimetersPerInch
	}
	return v
}
