// Package errors defines the error taxonomy shared by every cloudkit client.
//
// All failures surfaced by an operation call are *Error values carrying a Kind
// discriminant. Client-side kinds (marshalling, connection, missing credentials)
// never reached a service; service kinds were produced by an error unmarshaller
// from a recognized payload; KindService is the catch-all that still carries the
// raw status code and message.
//
//	out, err := ecsClient.DescribeClusters(ctx, in)
//	switch errors.KindOf(err) {
//	case errors.KindNotFound:
//	    // ...
//	case errors.KindConnection:
//	    // ...
//	}
package errors
