package ecs

import (
	"github.com/kbukum/cloudkit/client"
	"github.com/kbukum/cloudkit/errors"
)

// Service error codes.
const (
	ErrCodeClusterNotFoundException         = "ClusterNotFoundException"
	ErrCodeClusterContainsServicesException = "ClusterContainsServicesException"
	ErrCodeClusterContainsTasksException    = "ClusterContainsTasksException"
	ErrCodeLimitExceededException           = "LimitExceededException"
	ErrCodeInvalidParameterException        = "InvalidParameterException"
	ErrCodeAccessDeniedException            = "AccessDeniedException"
	ErrCodeClientException                  = "ClientException"
	ErrCodeServerException                  = "ServerException"
)

// errorUnmarshallers lists the modelled errors, most specific first.
func errorUnmarshallers() []client.ErrorUnmarshaller {
	return []client.ErrorUnmarshaller{
		client.Code(ErrCodeClusterNotFoundException, errors.KindNotFound),
		client.Code(ErrCodeClusterContainsServicesException, errors.KindConflict),
		client.Code(ErrCodeClusterContainsTasksException, errors.KindConflict),
		client.Code(ErrCodeLimitExceededException, errors.KindLimitExceeded),
		client.Code(ErrCodeInvalidParameterException, errors.KindMalformedInput),
		client.Code(ErrCodeAccessDeniedException, errors.KindAccessDenied),
		client.Code(ErrCodeClientException, errors.KindMalformedInput),
		client.Code(ErrCodeServerException, errors.KindServiceFailure),
	}
}
