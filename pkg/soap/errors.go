package soap

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange                   = errors.New("index out of range")
	ErrMethodNotFound                    = errors.New("method not found")
	ErrOverloadedWithPositionalArguments = errors.New("overloaded method called with positional arguments")
	ErrOverloadedNotMatching             = errors.New("overloaded method not matching")
	ErrTooManyArguments                  = errors.New("too many arguments")
	ErrAmbiguousSchema                   = errors.New("ambiguous schema")
)

// ResolutionError reports why a call could not be resolved or bound.
// Match the kind with errors.Is, never the text.
type ResolutionError struct {
	Operation string

	Kind   error
	Detail string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("%s: '%s'", e.Kind, e.Operation)

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Kind
}

func newError(name string, kind error, format string, args ...any) error {
	return &ResolutionError{
		Operation: name,

		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
