package protocol

import (
	"encoding/xml"
	"net/http"
	"net/url"

	"github.com/aws/aws-sdk-go/private/protocol/query/queryutil"

	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/transport"
)

const formContentType = "application/x-www-form-urlencoded; charset=utf-8"

// QueryRequest builds an AWS query request. params is a struct whose exported
// fields become form parameters: lists are flattened to Name.member.N and
// nested structures to Name.Field. Nil pointers and nil slices are omitted;
// params may be nil.
func QueryRequest(action, version string, params any) (*transport.Request, error) {
	form := url.Values{}
	if err := queryutil.Parse(form, params, false); err != nil {
		return nil, errors.Marshalling("marshal query parameters", err)
	}
	form.Set("Action", action)
	form.Set("Version", version)

	return &transport.Request{
		Operation: action,
		Method:    http.MethodPost,
		Path:      "/",
		Headers:   http.Header{"Content-Type": {formContentType}},
		Body:      []byte(form.Encode()),
	}, nil
}

// UnmarshalXML decodes an XML response body into v. An empty body leaves v
// untouched.
func UnmarshalXML(resp *transport.Response, v any) error {
	if resp == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := xml.Unmarshal(resp.Body, v); err != nil {
		return errors.Marshalling("unmarshal xml response", err)
	}
	return nil
}
