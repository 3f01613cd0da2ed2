package client

import (
	"net/url"

	"github.com/kbukum/cloudkit/protocol"
	"github.com/kbukum/cloudkit/transport"
	"github.com/kbukum/cloudkit/validation"
)

// JSONOperation builds a JSON 1.1 operation: the input is validated and sent
// as the request body; the response decodes into a new Res.
func JSONOperation[Req Request, Res any](targetPrefix, name string) Operation[Req, *Res] {
	return Operation[Req, *Res]{
		Name: name,
		Marshal: func(in Req) (*transport.Request, error) {
			if err := validation.Validate(in); err != nil {
				return nil, err
			}
			return protocol.JSONRequest(targetPrefix, name, in)
		},
		Unmarshal: JSONResult[Res](),
	}
}

// QueryOperation builds a query-protocol operation. params maps the validated
// input to the parameter shape encoded as the form body; the XML response
// decodes into a new Res.
func QueryOperation[Req Request, Res any](version, action string, params func(Req) any) Operation[Req, *Res] {
	return Operation[Req, *Res]{
		Name: action,
		Marshal: func(in Req) (*transport.Request, error) {
			if err := validation.Validate(in); err != nil {
				return nil, err
			}
			return protocol.QueryRequest(action, version, params(in))
		},
		Unmarshal: XMLResult[Res](),
	}
}

// RESTBinding is the REST-JSON form of one input.
type RESTBinding struct {
	PathParams map[string]string
	Query      url.Values
	// Body is encoded as JSON; nil sends no body.
	Body any
}

// RESTOperation builds a REST-JSON operation. bind splits the validated input
// into path parameters, query and body; it may reject the input with a
// marshalling error.
func RESTOperation[Req Request, Res any](name, method, pathTemplate string, bind func(Req) (RESTBinding, error)) Operation[Req, *Res] {
	return Operation[Req, *Res]{
		Name: name,
		Marshal: func(in Req) (*transport.Request, error) {
			if err := validation.Validate(in); err != nil {
				return nil, err
			}
			b, err := bind(in)
			if err != nil {
				return nil, err
			}
			return protocol.RESTRequest(name, method, pathTemplate, b.PathParams, b.Query, b.Body)
		},
		Unmarshal: JSONResult[Res](),
	}
}

// JSONResult returns an unmarshaller decoding a JSON body into a new Res.
func JSONResult[Res any]() func(*transport.Response) (*Res, error) {
	return func(resp *transport.Response) (*Res, error) {
		out := new(Res)
		if err := protocol.UnmarshalJSON(resp, out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// XMLResult returns an unmarshaller decoding an XML body into a new Res.
func XMLResult[Res any]() func(*transport.Response) (*Res, error) {
	return func(resp *transport.Response) (*Res, error) {
		out := new(Res)
		if err := protocol.UnmarshalXML(resp, out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
