package lambda

import (
	"net/url"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws/arn"

	"github.com/kbukum/cloudkit/client"
	"github.com/kbukum/cloudkit/validation"
)

// Starting positions for stream event sources.
const (
	StartingPositionTrimHorizon = "TRIM_HORIZON"
	StartingPositionLatest      = "LATEST"
	StartingPositionAtTimestamp = "AT_TIMESTAMP"
)

// EventSourceMappingConfiguration describes one mapping.
type EventSourceMappingConfiguration struct {
	UUID                  string  `json:"UUID,omitempty"`
	BatchSize             int     `json:"BatchSize,omitempty"`
	EventSourceArn        string  `json:"EventSourceArn,omitempty"`
	FunctionArn           string  `json:"FunctionArn,omitempty"`
	LastModified          float64 `json:"LastModified,omitempty"`
	LastProcessingResult  string  `json:"LastProcessingResult,omitempty"`
	State                 string  `json:"State,omitempty"`
	StateTransitionReason string  `json:"StateTransitionReason,omitempty"`
}

// LastModifiedTime converts LastModified from epoch seconds.
func (c *EventSourceMappingConfiguration) LastModifiedTime() time.Time {
	sec := int64(c.LastModified)
	nsec := int64((c.LastModified - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

type CreateEventSourceMappingInput struct {
	client.RequestOptions
	EventSourceArn   string `json:"EventSourceArn" validate:"required,arn"`
	FunctionName     string `json:"FunctionName" validate:"required,max=140"`
	Enabled          *bool  `json:"Enabled,omitempty"`
	BatchSize        int    `json:"BatchSize,omitempty" validate:"omitempty,min=1,max=10000"`
	StartingPosition string `json:"StartingPosition,omitempty" validate:"omitempty,oneof=TRIM_HORIZON LATEST AT_TIMESTAMP"`
}

func (in *CreateEventSourceMappingInput) bind() (client.RESTBinding, error) {
	stream := isStreamSource(in.EventSourceArn)
	err := validation.New().
		Custom(!stream || in.StartingPosition != "", "StartingPosition", "is required for stream event sources").
		Custom(stream || in.StartingPosition == "", "StartingPosition", "is only supported for stream event sources").
		Err()
	if err != nil {
		return client.RESTBinding{}, err
	}
	return client.RESTBinding{Body: in}, nil
}

type CreateEventSourceMappingOutput struct {
	EventSourceMappingConfiguration
}

type GetEventSourceMappingInput struct {
	client.RequestOptions
	UUID string `json:"-"`
}

func (in *GetEventSourceMappingInput) bind() (client.RESTBinding, error) {
	return uuidPath(in.UUID)
}

type GetEventSourceMappingOutput struct {
	EventSourceMappingConfiguration
}

type UpdateEventSourceMappingInput struct {
	client.RequestOptions
	UUID         string `json:"-"`
	FunctionName string `json:"FunctionName,omitempty" validate:"max=140"`
	Enabled      *bool  `json:"Enabled,omitempty"`
	BatchSize    int    `json:"BatchSize,omitempty" validate:"omitempty,min=1,max=10000"`
}

func (in *UpdateEventSourceMappingInput) bind() (client.RESTBinding, error) {
	b, err := uuidPath(in.UUID)
	if err != nil {
		return b, err
	}
	err = validation.New().
		Custom(in.FunctionName != "" || in.Enabled != nil || in.BatchSize > 0,
			"EventSourceMapping", "update must change FunctionName, Enabled or BatchSize").
		Err()
	if err != nil {
		return client.RESTBinding{}, err
	}
	b.Body = in
	return b, nil
}

type UpdateEventSourceMappingOutput struct {
	EventSourceMappingConfiguration
}

type DeleteEventSourceMappingInput struct {
	client.RequestOptions
	UUID string `json:"-"`
}

func (in *DeleteEventSourceMappingInput) bind() (client.RESTBinding, error) {
	return uuidPath(in.UUID)
}

type DeleteEventSourceMappingOutput struct {
	EventSourceMappingConfiguration
}

type ListEventSourceMappingsInput struct {
	client.RequestOptions
	EventSourceArn string `json:"-" validate:"omitempty,arn"`
	FunctionName   string `json:"-" validate:"max=140"`
	Marker         string `json:"-"`
	MaxItems       int    `json:"-" validate:"omitempty,min=1,max=10000"`
}

func (in *ListEventSourceMappingsInput) bind() (client.RESTBinding, error) {
	q := url.Values{}
	if in.EventSourceArn != "" {
		q.Set("EventSourceArn", in.EventSourceArn)
	}
	if in.FunctionName != "" {
		q.Set("FunctionName", in.FunctionName)
	}
	if in.Marker != "" {
		q.Set("Marker", in.Marker)
	}
	if in.MaxItems > 0 {
		q.Set("MaxItems", strconv.Itoa(in.MaxItems))
	}
	return client.RESTBinding{Query: q}, nil
}

type ListEventSourceMappingsOutput struct {
	EventSourceMappings []EventSourceMappingConfiguration `json:"EventSourceMappings,omitempty"`
	NextMarker          string                            `json:"NextMarker,omitempty"`
}

// isStreamSource reports whether arnValue names a Kinesis, DynamoDB or Kafka
// stream; those sources read from a StartingPosition, queues do not.
func isStreamSource(arnValue string) bool {
	parsed, err := arn.Parse(arnValue)
	if err != nil {
		return false
	}
	switch parsed.Service {
	case "kinesis", "dynamodb", "kafka":
		return true
	}
	return false
}

func uuidPath(id string) (client.RESTBinding, error) {
	parsed, err := validation.ValidateUUID("UUID", id)
	if err != nil {
		return client.RESTBinding{}, err
	}
	return client.RESTBinding{PathParams: map[string]string{"UUID": parsed.String()}}, nil
}
