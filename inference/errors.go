package inference

import "errors"

// Stable machine-readable error codes carried by every taxonomy error.
const (
	// CodeService is the generic catch-all for unexpected failures.
	CodeService = "ai_service_error"
	// CodeConfiguration marks fatal, non-retryable setup problems such as a
	// missing credential.
	CodeConfiguration = "ai_configuration_error"
	// CodeRequest marks transient transport failures (non-2xx responses).
	CodeRequest = "ai_request_error"
	// CodeResponse marks calls that succeeded transport-wise but returned
	// unusable content. Retrying would yield the same malformed payload, so
	// these are never retried.
	CodeResponse = "ai_response_error"
)

// Error is the single error kind used across the inference layer. Code is
// stable and machine-readable; Status carries the HTTP status for request
// errors (0 otherwise). Errors are created at the point of failure and never
// mutated.
type Error struct {
	Code    string
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// NewServiceError creates a generic service error.
func NewServiceError(message string) *Error {
	return &Error{Code: CodeService, Message: message}
}

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(message string) *Error {
	return &Error{Code: CodeConfiguration, Message: message}
}

// NewRequestError creates a transient request error carrying the HTTP status.
func NewRequestError(message string, status int) *Error {
	return &Error{Code: CodeRequest, Status: status, Message: message}
}

// NewResponseError creates an error for an unusable response payload.
func NewResponseError(message string) *Error {
	return &Error{Code: CodeResponse, Message: message}
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return hasCode(err, CodeConfiguration) }

// IsRequest reports whether err is a transient request error.
func IsRequest(err error) bool { return hasCode(err, CodeRequest) }

// IsResponse reports whether err is an unusable-response error.
func IsResponse(err error) bool { return hasCode(err, CodeResponse) }

func hasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Normalize folds an arbitrary error into the taxonomy. Taxonomy errors pass
// through unchanged (identity preserved); anything else becomes a generic
// service error keeping the original message. A nil error yields a service
// error with a placeholder message so callers always get a usable value.
func Normalize(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if err != nil {
		return NewServiceError(err.Error())
	}
	return NewServiceError("unexpected inference error")
}
