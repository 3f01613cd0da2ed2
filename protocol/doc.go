// Package protocol marshals requests and unmarshals responses for the three
// wire protocols the service facades use:
//
//   - AWS query: form-encoded POST with Action and Version, XML responses (iam).
//   - JSON 1.1: POST to "/" with an X-Amz-Target header (ecs).
//   - REST-JSON: method and path carry the operation, JSON bodies (lambda).
//
// ParseErrorShape extracts the error code and message from any of them, for
// the error-unmarshaller chain in the client core.
package protocol
