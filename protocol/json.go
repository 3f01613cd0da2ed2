package protocol

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/transport"
)

// JSONContentType is the content type of JSON 1.1 protocol requests.
const JSONContentType = "application/x-amz-json-1.1"

// HeaderTarget names the operation in JSON 1.1 requests.
const HeaderTarget = "X-Amz-Target"

// JSONRequest builds a JSON 1.1 request for targetPrefix.operation.
// A nil body is sent as "{}".
func JSONRequest(targetPrefix, operation string, body any) (*transport.Request, error) {
	data, err := encodeJSON(body)
	if err != nil {
		return nil, err
	}
	return &transport.Request{
		Operation: operation,
		Method:    http.MethodPost,
		Path:      "/",
		Headers: http.Header{
			"Content-Type": {JSONContentType},
			HeaderTarget:   {targetPrefix + "." + operation},
		},
		Body: data,
	}, nil
}

// UnmarshalJSON decodes a JSON response body into v. An empty body leaves v
// untouched.
func UnmarshalJSON(resp *transport.Response, v any) error {
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return errors.Marshalling("unmarshal json response", err)
	}
	return nil
}

func encodeJSON(body any) ([]byte, error) {
	if body == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Marshalling("marshal json request", err)
	}
	return data, nil
}
