package threaddata

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when a document is not well-formed XML.
	ErrMalformed = errors.New("malformed document")

	// ErrInvalidUnit is returned when a thread type has no usable unit.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrMissingPitch is returned when a designation has neither TPI nor
	// Pitch.
	ErrMissingPitch = errors.New("missing pitch")

	// ErrInvalidPitch is returned when a designation's pitch is not a
	// positive number.
	ErrInvalidPitch = errors.New("invalid pitch")

	// ErrMissingGender is returned when a thread has no gender.
	ErrMissingGender = errors.New("missing gender")

	// ErrInvalidGender is returned when a thread's gender is neither internal
	// nor external.
	ErrInvalidGender = errors.New("invalid gender")
)

// DocumentError is a fatal problem with one document. It wraps one of the
// package sentinels.
type DocumentError struct {
	// File is the input path, when known.
	File string

	// Path is the element path of the offending node, e.g.
	// "/ThreadType/ThreadSize/Designation".
	Path string

	// Name is a human readable label for the node (designation or thread
	// type name), if it has one.
	Name string

	Err error
}

func (e *DocumentError) Error() string {
	msg := e.Err.Error()
	if e.Name != "" {
		msg = fmt.Sprintf("%s (%s): %s", e.Path, e.Name, msg)
	} else if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	return msg
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
