// Package transport sends signed HTTP requests to a service endpoint.
//
// The transport is the only place an SDK call touches the network. It builds
// the HTTP request, stamps the SDK headers, signs it with the credentials
// attached to the execution context, and classifies the outcome: a response
// with a 2xx status, an *ErrorPayload for any other status, or an
// errors.KindConnection error when no response was received at all.
//
// Retries, the circuit breaker and the optional send-rate limiter live here,
// never in the client core.
//
//	t, err := transport.New(transport.Config{
//	    Endpoint:    "https://iam.amazonaws.com",
//	    Region:      "us-east-1",
//	    SigningName: "iam",
//	    Retry:       transport.DefaultRetryConfig(),
//	})
//	resp, err := t.Dispatch(ctx, req, ec)
package transport
