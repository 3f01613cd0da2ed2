package transport

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes one outbound service request, already marshalled.
type Request struct {
	// Operation is the wire name of the operation, used for logging.
	Operation string
	// Method is the HTTP method. Defaults to POST.
	Method string
	// Path is appended to the endpoint URL. Defaults to "/".
	Path string
	// Query holds URL query parameters.
	Query url.Values
	// Headers are request-specific headers, merged over the client defaults.
	Headers http.Header
	// Body is the encoded request body.
	Body []byte
	// Host overrides the endpoint host, for host-prefixed operations.
	Host string
}

// Response is a service response with a 2xx status.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// RequestID returns the service request id from the response headers.
func (r *Response) RequestID() string {
	return requestID(r.Headers)
}

// ErrorPayload is returned when the service answered with a non-2xx status.
// Its body is raw; the client core turns it into a typed error.
type ErrorPayload struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Error implements the error interface.
func (p *ErrorPayload) Error() string {
	return fmt.Sprintf("transport: service responded with HTTP %d", p.StatusCode)
}

// RequestID returns the service request id from the payload headers.
func (p *ErrorPayload) RequestID() string {
	return requestID(p.Headers)
}

// Retryable reports whether the status is throttling or a server failure.
func (p *ErrorPayload) Retryable() bool {
	switch p.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// AsErrorPayload extracts an *ErrorPayload from err.
func AsErrorPayload(err error) (*ErrorPayload, bool) {
	var p *ErrorPayload
	if stderrors.As(err, &p) {
		return p, true
	}
	return nil, false
}

func requestID(h http.Header) string {
	if id := h.Get("X-Amzn-Requestid"); id != "" {
		return id
	}
	return h.Get("X-Amz-Request-Id")
}
