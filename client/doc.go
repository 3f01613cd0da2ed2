// Package client is the synchronous request pipeline every service facade
// funnels through.
//
// A Core is built once per service client and holds the transport, the
// credential resolver and the ordered error-unmarshaller chain. Operations
// are plain values pairing a marshaller with an unmarshaller; Invoke runs one
// of them:
//
//	var getUser = client.Operation[*GetUserInput, *GetUserOutput]{
//	    Name:      "GetUser",
//	    Marshal:   marshalGetUser,
//	    Unmarshal: unmarshalGetUser,
//	}
//
//	out, err := client.Invoke(ctx, core, getUser, in)
//
// Invoke always finalizes the call's execution context, whatever the outcome.
// Service errors are mapped by the first ErrorUnmarshaller that recognises
// the payload; StandardErrorUnmarshaller is always last and produces an
// errors.KindService catch-all.
package client
