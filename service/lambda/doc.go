// Package lambda is the client for the function event-source-mapping API.
// It speaks REST-JSON under /2015-03-31/event-source-mappings/.
package lambda
