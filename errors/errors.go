package errors

import (
	"fmt"
	"net/http"
)

// Error is the unified SDK error type.
type Error struct {
	// Kind is the error discriminant.
	Kind Kind `json:"kind"`
	// Code is the service error code (e.g. "NoSuchEntity"). Empty for client-side errors.
	Code string `json:"code,omitempty"`
	// Message is the human-readable message, preserved verbatim from the service.
	Message string `json:"message"`
	// StatusCode is the HTTP status of the error response (0 when no response).
	StatusCode int `json:"status_code,omitempty"`
	// RequestID is the service request id, when the response carried one.
	RequestID string `json:"request_id,omitempty"`
	// Service is the API the failing call targeted.
	Service string `json:"service,omitempty"`
	// Operation is the operation name of the failing call.
	Operation string `json:"operation,omitempty"`
	// Retryable indicates if the call can be retried as-is.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithOperation tags the error with the call it came from and returns the receiver.
func (e *Error) WithOperation(service, operation string) *Error {
	e.Service = service
	e.Operation = operation
	return e
}

// WithRequestID sets the service request id and returns the receiver.
func (e *Error) WithRequestID(id string) *Error {
	e.RequestID = id
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// New creates an Error with automatic retryable detection.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Retryable: IsRetryableKind(kind),
	}
}

// --- Client-side constructors ---

// Marshalling creates an error for a request that could not be serialized.
func Marshalling(message string, cause error) *Error {
	return &Error{
		Kind: KindMarshalling, Message: message, Retryable: false, Cause: cause,
	}
}

// Connection creates an error for a transport failure where no response was obtained.
func Connection(cause error) *Error {
	msg := "unable to reach service endpoint"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind: KindConnection, Message: msg, Retryable: true, Cause: cause,
	}
}

// NoCredentials creates an error for an exhausted credential provider chain.
func NoCredentials(cause error) *Error {
	return &Error{
		Kind: KindNoCredentials, Message: "no valid credentials found in provider chain",
		Retryable: false, Cause: cause,
	}
}

// --- Service-side constructors ---

// Typed creates an error for a recognized service error shape.
func Typed(kind Kind, code, message string, statusCode int) *Error {
	return &Error{
		Kind: kind, Code: code, Message: message, StatusCode: statusCode,
		Retryable: IsRetryableKind(kind),
	}
}

// Service creates the catch-all error for an unrecognized error payload.
// Server-side statuses (5xx) are retryable.
func Service(statusCode int, code, message string) *Error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &Error{
		Kind: KindService, Code: code, Message: message, StatusCode: statusCode,
		Retryable: statusCode >= http.StatusInternalServerError,
	}
}
