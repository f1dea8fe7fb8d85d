package xerrors

import (
	"errors"
)

type Kind uint8

const (
	// KindOperation is a failed user-initiated backend operation, e.g. login or game load.
	KindOperation Kind = iota + 1
	KindConnectivity
	// KindMalformedState is persisted or remote data that could not be decoded.
	KindMalformedState
	// KindInvariant is a programming error. It is logged and the caller carries on.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindOperation:
		return "operation"
	case KindConnectivity:
		return "connectivity"
	case KindMalformedState:
		return "malformed state"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by Kind, so errors.Is(err, &Error{Kind: KindOperation}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

func Operation(op string, opts ...Option) *Error    { return newErr(KindOperation, op, opts) }
func Connectivity(op string, opts ...Option) *Error { return newErr(KindConnectivity, op, opts) }
func MalformedState(op string, opts ...Option) *Error {
	return newErr(KindMalformedState, op, opts)
}
func Invariant(op string, opts ...Option) *Error { return newErr(KindInvariant, op, opts) }

func newErr(kind Kind, op string, opts []Option) *Error {
	e := &Error{Kind: kind, Op: op}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }
func WithCause(err error) Option    { return func(e *Error) { e.Cause = err } }

func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}
