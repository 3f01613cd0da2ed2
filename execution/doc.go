// Package execution holds the per-call state of one operation invocation:
// its invocation id, resolved credentials, timing events, attempt count and
// tracing span.
//
// A Context is created when a call starts and finished exactly once when it
// ends, whatever the outcome. Finish stops every timing event still open, so
// a finished call never leaves a started timer behind.
package execution
