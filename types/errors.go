package types

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorKind classifies a pipeline stage failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindHTTPStatus
	KindContentTypeMismatch
	KindWrite
	KindMalformedInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindHTTPStatus:
		return "http status error"
	case KindContentTypeMismatch:
		return "content type mismatch"
	case KindWrite:
		return "write error"
	case KindMalformedInput:
		return "malformed input"
	}
	return "unknown error"
}

// Error is the failure produced by a single pipeline stage.
type Error struct {
	Kind ErrorKind
	// Op names the stage, e.g. "fetch", "write", "process".
	Op string
	// Target is the URL or file path the stage operated on.
	Target string
	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Target, e.Kind)
	if e.Kind == KindHTTPStatus {
		msg = fmt.Sprintf("%s %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a stage error. err may be nil.
func NewError(kind ErrorKind, op, target string, err error) *Error {
	return &Error{Kind: kind, Op: op, Target: target, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
