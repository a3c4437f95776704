package integration

import (
	"errors"
	"fmt"
)

//go:generate go tool stringer -type=ErrorKind -trimprefix=Kind -output=errorkind_string.go

// ErrorKind identifies the step of an integration that failed.
type ErrorKind int

const (
	_ ErrorKind = iota // skip zero value, KindOf returns it for foreign errors

	// KindResolution: the class could not be located or parsed.
	KindResolution
	// KindNotFound: a matched method vanished before it could be removed.
	KindNotFound
	// KindIncompatible: a transformed method could not be added back.
	KindIncompatible
	// KindTransform: the strategy returned an error.
	KindTransform
	// KindSerialization: the class could not be written back to bytes.
	KindSerialization
)

// ErrIntegrationFailed is matched by every *Error. Callers that only need
// to know whether to fall back to the original bytes test for it.
var ErrIntegrationFailed = errors.New("method integration failed")

// Error is the failure returned by Engine.Integrate.
type Error struct {
	Kind   ErrorKind
	Class  string
	Method string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s error for %s", ErrIntegrationFailed, e.Kind, e.Class)
	if e.Method != "" {
		msg += "." + e.Method
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports true for ErrIntegrationFailed and for an *Error of the same
// kind with no other fields set, so errors.Is(err, &Error{Kind: KindTransform})
// works as a kind test.
func (e *Error) Is(target error) bool {
	if target == ErrIntegrationFailed {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Class == "" && t.Method == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or the zero
// ErrorKind if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, class, method string, err error) *Error {
	return &Error{Kind: kind, Class: class, Method: method, Err: err}
}
