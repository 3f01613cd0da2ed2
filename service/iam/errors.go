package iam

import (
	"github.com/kbukum/cloudkit/client"
	"github.com/kbukum/cloudkit/errors"
)

// Service error codes.
const (
	ErrCodeNoSuchEntityException            = "NoSuchEntity"
	ErrCodeEntityAlreadyExistsException     = "EntityAlreadyExists"
	ErrCodeDeleteConflictException          = "DeleteConflict"
	ErrCodeLimitExceededException           = "LimitExceeded"
	ErrCodeInvalidInputException            = "InvalidInput"
	ErrCodeMalformedPolicyDocumentException = "MalformedPolicyDocument"
	ErrCodeServiceFailureException          = "ServiceFailure"
)

func errorUnmarshallers() []client.ErrorUnmarshaller {
	return []client.ErrorUnmarshaller{
		client.Code(ErrCodeNoSuchEntityException, errors.KindNotFound),
		client.Code(ErrCodeEntityAlreadyExistsException, errors.KindConflict),
		client.Code(ErrCodeDeleteConflictException, errors.KindConflict),
		client.Code(ErrCodeLimitExceededException, errors.KindLimitExceeded),
		client.Code(ErrCodeInvalidInputException, errors.KindMalformedInput),
		client.Code(ErrCodeMalformedPolicyDocumentException, errors.KindMalformedInput),
		client.Code(ErrCodeServiceFailureException, errors.KindServiceFailure),
	}
}
