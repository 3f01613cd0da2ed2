package lambda

import (
	"github.com/kbukum/cloudkit/client"
	"github.com/kbukum/cloudkit/errors"
)

// Service error codes.
const (
	ErrCodeResourceNotFoundException      = "ResourceNotFoundException"
	ErrCodeResourceConflictException      = "ResourceConflictException"
	ErrCodeResourceInUseException         = "ResourceInUseException"
	ErrCodeTooManyRequestsException       = "TooManyRequestsException"
	ErrCodeInvalidParameterValueException = "InvalidParameterValueException"
	ErrCodeServiceException               = "ServiceException"
)

func errorUnmarshallers() []client.ErrorUnmarshaller {
	return []client.ErrorUnmarshaller{
		client.Code(ErrCodeResourceNotFoundException, errors.KindNotFound),
		client.Code(ErrCodeResourceConflictException, errors.KindConflict),
		client.Code(ErrCodeResourceInUseException, errors.KindConflict),
		client.Code(ErrCodeTooManyRequestsException, errors.KindThrottling),
		client.Code(ErrCodeInvalidParameterValueException, errors.KindMalformedInput),
		client.Code(ErrCodeServiceException, errors.KindServiceFailure),
	}
}
