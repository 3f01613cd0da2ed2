// Package component defines the lifecycle interface shared by the
// long-lived parts of a client: the async executor, the HTTP transport and
// the OTLP telemetry providers.
//
// A Registry starts them in registration order and stops them in reverse;
// session.Session drives one for every client it configures.
package component
