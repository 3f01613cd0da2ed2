package client

import (
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/protocol"
	"github.com/kbukum/cloudkit/transport"
)

// ErrorUnmarshaller maps a service error payload to a typed error. It
// returns nil when the payload is not its shape.
type ErrorUnmarshaller interface {
	TryUnmarshal(p *transport.ErrorPayload) *errors.Error
}

// ErrorUnmarshallerFunc adapts a function to ErrorUnmarshaller.
type ErrorUnmarshallerFunc func(p *transport.ErrorPayload) *errors.Error

// TryUnmarshal calls f(p).
func (f ErrorUnmarshallerFunc) TryUnmarshal(p *transport.ErrorPayload) *errors.Error {
	return f(p)
}

// CodeUnmarshaller recognises one service error code.
type CodeUnmarshaller struct {
	Code string
	Kind errors.Kind
}

// Code returns an unmarshaller mapping code to kind.
func Code(code string, kind errors.Kind) CodeUnmarshaller {
	return CodeUnmarshaller{Code: code, Kind: kind}
}

// TryUnmarshal implements ErrorUnmarshaller.
func (u CodeUnmarshaller) TryUnmarshal(p *transport.ErrorPayload) *errors.Error {
	shape := protocol.ParseErrorShape(p)
	if shape.Code != u.Code {
		return nil
	}
	return errors.Typed(u.Kind, shape.Code, shape.Message, p.StatusCode).
		WithRequestID(shape.RequestID)
}

// StandardErrorUnmarshaller accepts every payload and produces the
// errors.KindService catch-all carrying the raw status and message.
type StandardErrorUnmarshaller struct{}

// TryUnmarshal implements ErrorUnmarshaller.
func (StandardErrorUnmarshaller) TryUnmarshal(p *transport.ErrorPayload) *errors.Error {
	shape := protocol.ParseErrorShape(p)
	message := shape.Message
	if message == "" && shape.Code == "" {
		message = string(p.Body)
	}
	err := errors.Service(p.StatusCode, shape.Code, message).WithRequestID(shape.RequestID)
	if shape.Type != "" {
		err = err.WithDetail("fault", shape.Type)
	}
	return err
}
