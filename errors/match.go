package errors

import (
	stderrors "errors"
)

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or 0 when err is nil or not an SDK error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return 0
}

// IsKind checks if err is an SDK error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsRetryable checks if err is an SDK error marked retryable.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}

// IsNotFound checks if err is a KindNotFound error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConnection checks if err is a KindConnection error.
func IsConnection(err error) bool { return IsKind(err, KindConnection) }

// IsMarshalling checks if err is a KindMarshalling error.
func IsMarshalling(err error) bool { return IsKind(err, KindMarshalling) }
