package protocol

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/kbukum/cloudkit/transport"
)

// HeaderErrorType carries the error code on REST-JSON responses.
const HeaderErrorType = "X-Amzn-Errortype"

// ErrorShape is the protocol-independent view of a service error payload.
type ErrorShape struct {
	Code      string
	Message   string
	RequestID string
	// Type is the fault side reported by the service ("Sender", "Receiver",
	// "User", "Service"), when present.
	Type string
}

type xmlErrorResponse struct {
	XMLName   xml.Name
	Error     xmlError `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	RequestID string   `xml:"RequestId"`
}

type xmlError struct {
	Type    string `xml:"Type"`
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

type jsonError struct {
	Type         string `json:"__type"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	MessageUpper string `json:"Message"`
	FaultType    string `json:"Type"`
}

// ParseErrorShape extracts the error code and message from p. Unrecognised
// bodies yield a shape with only the request id set.
func ParseErrorShape(p *transport.ErrorPayload) ErrorShape {
	if p == nil {
		return ErrorShape{}
	}
	shape := ErrorShape{RequestID: p.RequestID()}

	body := bytes.TrimSpace(p.Body)
	switch {
	case len(body) > 0 && body[0] == '<':
		parseXMLError(body, &shape)
	case len(body) > 0 && body[0] == '{':
		parseJSONError(body, &shape)
	}

	if header := p.Headers.Get(HeaderErrorType); header != "" {
		shape.Code = sanitizeCode(header)
	}
	return shape
}

func parseXMLError(body []byte, shape *ErrorShape) {
	var resp xmlErrorResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return
	}
	// ErrorResponse/Error/... for query services; a bare Error element otherwise.
	if resp.Error.Code != "" {
		shape.Code = resp.Error.Code
		shape.Message = resp.Error.Message
		shape.Type = resp.Error.Type
	} else {
		shape.Code = resp.Code
		shape.Message = resp.Message
	}
	if resp.RequestID != "" {
		shape.RequestID = resp.RequestID
	}
}

func parseJSONError(body []byte, shape *ErrorShape) {
	var resp jsonError
	if err := json.Unmarshal(body, &resp); err != nil {
		return
	}
	shape.Code = sanitizeCode(resp.Type)
	if shape.Code == "" {
		shape.Code = sanitizeCode(resp.Code)
	}
	shape.Message = resp.Message
	if shape.Message == "" {
		shape.Message = resp.MessageUpper
	}
	shape.Type = resp.FaultType
}

// sanitizeCode strips the namespace prefix and the trailing URI some
// services add: "com.amazonaws.ecs#ClusterNotFoundException" and
// "ResourceNotFoundException:http://internal.amazon.com/" both become the
// bare code.
func sanitizeCode(code string) string {
	if i := strings.IndexByte(code, ':'); i >= 0 {
		code = code[:i]
	}
	if i := strings.LastIndexByte(code, '#'); i >= 0 {
		code = code[i+1:]
	}
	return strings.TrimSpace(code)
}
