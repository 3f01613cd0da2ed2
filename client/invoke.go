package client

import (
	"context"
	"fmt"

	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/execution"
	"github.com/kbukum/cloudkit/transport"
)

// Operation pairs the marshaller and unmarshaller of one API action.
type Operation[Req Request, Res any] struct {
	// Name is the wire name of the action.
	Name string
	// Marshal converts the input into a transport request. It must not
	// perform I/O.
	Marshal func(Req) (*transport.Request, error)
	// Unmarshal converts a 2xx response into the typed result.
	Unmarshal func(*transport.Response) (Res, error)
}

// Invoke runs op for req through core: marshal, resolve credentials,
// dispatch, then unmarshal the result or map the service error. The call's
// execution context is finalized on every path. A marshalling failure never
// reaches the transport. A panic in a marshaller or unmarshaller finishes the
// call as failed and is then re-raised.
func Invoke[Req Request, Res any](ctx context.Context, core *Core, op Operation[Req, Res], req Req) (res Res, err error) {
	ctx, ec := execution.New(ctx, core.config.Service, op.Name, core.metrics)
	defer func() {
		if r := recover(); r != nil {
			core.finish(ctx, ec, fmt.Errorf("client: %s panicked: %v", op.Name, r))
			panic(r)
		}
		if e, ok := errors.As(err); ok && e.Operation == "" {
			e.WithOperation(core.config.Service, op.Name)
		}
		core.finish(ctx, ec, err)
	}()

	var treq *transport.Request
	err = ec.Timed(ctx, execution.MarshalTime, func() error {
		var merr error
		treq, merr = op.Marshal(req)
		return merr
	})
	if err != nil {
		return res, asMarshalling(err)
	}
	if treq == nil {
		return res, errors.Marshalling("marshaller produced no request", nil)
	}
	if treq.Operation == "" {
		treq.Operation = op.Name
	}

	if err = core.resolveCredentials(ctx, ec, req.OverrideCredentials()); err != nil {
		return res, err
	}

	resp, derr := core.dispatcher.Dispatch(ctx, treq, ec)
	if derr != nil {
		return res, core.dispatchError(derr)
	}

	err = ec.Timed(ctx, execution.UnmarshalTime, func() error {
		var uerr error
		res, uerr = op.Unmarshal(resp)
		return uerr
	})
	if err != nil {
		var zero Res
		return zero, asMarshalling(err)
	}
	return res, nil
}

func asMarshalling(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.Marshalling(err.Error(), err)
}
