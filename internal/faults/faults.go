// Package faults defines the failure kinds surfaced by document generation.
//
// Every failure is an *Error carrying its Kind, the name of the image
// involved (when there is one) and the underlying cause. Callers match kinds
// with errors.Is against the exported sentinels:
//
//	if errors.Is(err, faults.ErrDecode) {
//	    var fe *faults.Error
//	    errors.As(err, &fe)
//	    fmt.Println("cannot read", fe.Name)
//	}
package faults

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure category.
type Kind string

const (
	KindEmptyInput      Kind = "EMPTY_INPUT"
	KindInvalidOptions  Kind = "INVALID_OPTIONS"
	KindDecodeFailure   Kind = "DECODE_FAILURE"
	KindEncodingFailure Kind = "ENCODING_FAILURE"
	KindSaveFailure     Kind = "SAVE_FAILURE"
)

// Sentinels for errors.Is matching.
var (
	ErrEmptyInput     = errors.New("no images supplied")
	ErrInvalidOptions = errors.New("invalid layout options")
	ErrDecode         = errors.New("image cannot be decoded")
	ErrEncoding       = errors.New("document encoding failed")
	ErrSave           = errors.New("document could not be saved")
)

var sentinels = map[Kind]error{
	KindEmptyInput:      ErrEmptyInput,
	KindInvalidOptions:  ErrInvalidOptions,
	KindDecodeFailure:   ErrDecode,
	KindEncodingFailure: ErrEncoding,
	KindSaveFailure:     ErrSave,
}

// Error is a generation failure.
type Error struct {
	Kind Kind
	Name string // offending image, if any
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := sentinels[e.Kind].Error()
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Name)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New creates an error of the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// EmptyInput reports that no images were supplied.
func EmptyInput() *Error {
	return &Error{Kind: KindEmptyInput}
}

// InvalidOptions wraps an option validation failure.
func InvalidOptions(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidOptions, Err: fmt.Errorf(format, args...)}
}

// Decode reports that the named image could not be decoded.
func Decode(name string, err error) *Error {
	return &Error{Kind: KindDecodeFailure, Name: name, Err: err}
}

// Encoding wraps a failure of the document encoder.
func Encoding(err error) *Error {
	return &Error{Kind: KindEncodingFailure, Err: err}
}

// Save wraps a failure of the save sink.
func Save(err error) *Error {
	return &Error{Kind: KindSaveFailure, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
