// Package resilience holds the transport's fault-handling policies.
//
//   - Retry: retries retryable errors with exponential backoff and a longer
//     base delay after throttling
//   - CircuitBreaker: fails fast while an endpoint keeps failing
//   - RateLimiter: token bucket spacing requests to one endpoint
//
// The client core never retries. These policies run inside the transport,
// around each HTTP attempt:
//
//	out, err := resilience.Retry(ctx, cfg.Retry, func(attempt int) (*Response, error) {
//	    if err := rl.Wait(ctx); err != nil {
//	        return nil, err
//	    }
//	    var resp *Response
//	    err := cb.Execute(func() (err error) { resp, err = send(); return err })
//	    return resp, err
//	})
package resilience
