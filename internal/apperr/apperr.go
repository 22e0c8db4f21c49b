// Package apperr defines the stage-tagged errors returned by the engines.
package apperr

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Kind identifies the stage that failed.
type Kind string

const (
	Validation     Kind = "validation"
	Initialization Kind = "initialization"
	Extraction     Kind = "extraction"
	Rewrite        Kind = "rewrite"
)

// Error carries the failing stage, a readable message and the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	stack errors.StackTrace
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// callers records the stack above the apperr constructor that called it.
func callers() errors.StackTrace {
	st := errors.New("").(stackTracer).StackTrace()
	if len(st) > 2 {
		return st[2:]
	}
	return st
}

func (e *Error) Error() string {
	s := string(e.Kind) + ": " + e.Message
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause walk past the stage wrapper.
func (e *Error) Cause() error { return e.Err }

// StackTrace is where the error was created.
func (e *Error) StackTrace() errors.StackTrace { return e.stack }

// Format prints the message for %s and %v; %+v adds the stack trace.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, e.Error())
			e.stack.Format(s, verb)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Newf returns a causeless error of the given kind.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), stack: callers()}
}

// Wrap tags err with kind and message. A nil err yields nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err, stack: callers()}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
