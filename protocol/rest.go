package protocol

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/transport"
)

// RESTRequest builds a REST-JSON request. Every {name} in pathTemplate is
// replaced by the escaped value of pathParams[name]; a missing or empty value
// is a marshalling error. A nil body sends no body.
func RESTRequest(operation, method, pathTemplate string, pathParams map[string]string, query url.Values, body any) (*transport.Request, error) {
	path, err := expandPath(pathTemplate, pathParams)
	if err != nil {
		return nil, err
	}

	req := &transport.Request{
		Operation: operation,
		Method:    method,
		Path:      path,
		Query:     query,
		Headers:   http.Header{},
	}
	if body != nil {
		data, err := encodeJSON(body)
		if err != nil {
			return nil, err
		}
		req.Body = data
		req.Headers.Set("Content-Type", "application/json")
	}
	return req, nil
}

func expandPath(template string, params map[string]string) (string, error) {
	var b strings.Builder
	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", errors.Marshalling(fmt.Sprintf("unterminated path parameter in %q", template), nil)
		}
		name := rest[start+1 : start+end]
		value := params[name]
		if value == "" {
			return "", errors.Marshalling(fmt.Sprintf("path parameter %s is required", name), nil).
				WithDetail("field", name)
		}
		b.WriteString(rest[:start])
		b.WriteString(url.PathEscape(value))
		rest = rest[start+end+1:]
	}
}
