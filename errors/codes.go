package errors

// Kind is the discriminant of an SDK error. Callers switch on it instead of
// matching concrete error types.
type Kind int

// Client-side kinds: the request never produced a service response.
const (
	// KindMarshalling indicates the request could not be serialized. Nothing was sent.
	KindMarshalling Kind = iota + 1
	// KindConnection indicates a transport failure before any response was obtained.
	KindConnection
	// KindNoCredentials indicates the credential chain was exhausted.
	KindNoCredentials
)

// Service-declared kinds, derived from a recognized error payload shape.
const (
	// KindNotFound indicates the addressed entity does not exist.
	KindNotFound Kind = iota + 100
	// KindLimitExceeded indicates an account or resource quota was hit.
	KindLimitExceeded
	// KindMalformedInput indicates the service rejected a parameter value.
	KindMalformedInput
	// KindConflict indicates the entity state conflicts with the request.
	KindConflict
	// KindServiceFailure indicates the service failed internally.
	KindServiceFailure
	// KindAccessDenied indicates the caller lacks permission.
	KindAccessDenied
	// KindThrottling indicates the request rate was too high.
	KindThrottling
)

// KindService is the catch-all for error payloads no specific unmarshaller recognized.
const KindService Kind = 999

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMarshalling:
		return "marshalling"
	case KindConnection:
		return "connection"
	case KindNoCredentials:
		return "no_credentials"
	case KindNotFound:
		return "not_found"
	case KindLimitExceeded:
		return "limit_exceeded"
	case KindMalformedInput:
		return "malformed_input"
	case KindConflict:
		return "conflict"
	case KindServiceFailure:
		return "service_failure"
	case KindAccessDenied:
		return "access_denied"
	case KindThrottling:
		return "throttling"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// IsClientSide reports whether errors of this kind originate in the process
// rather than in a service response.
func (k Kind) IsClientSide() bool {
	return k == KindMarshalling || k == KindConnection || k == KindNoCredentials
}

var retryableKinds = map[Kind]bool{
	KindConnection:     true,
	KindThrottling:     true,
	KindServiceFailure: true,
}

// IsRetryableKind returns true if errors of the kind are safe to retry.
// KindService is decided per status code, see Service.
func IsRetryableKind(k Kind) bool {
	return retryableKinds[k]
}
