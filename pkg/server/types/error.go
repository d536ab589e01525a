package types

// ErrorResponse is the JSON error envelope returned for all error
// conditions.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Param is the name of the parameter that caused the error,
	// if applicable.
	Param string `json:"param,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400/413).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeNotFound indicates a resource was not found (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeRateLimitExceeded indicates too many requests (429).
	ErrorTypeRateLimitExceeded = "rate_limit_exceeded"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeServiceUnavailable indicates temporary unavailability (503).
	ErrorTypeServiceUnavailable = "service_unavailable"

	// ErrorTypeGatewayTimeout indicates the request timed out (504).
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests.
func NewInvalidRequestError(message, param string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param)
}

// NewRateLimitError creates an error response for rejected admissions (429).
func NewRateLimitError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeRateLimitExceeded, "")
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "")
}

// NewServiceUnavailableError creates an error response for temporary
// unavailability (503).
func NewServiceUnavailableError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServiceUnavailable, "")
}

// NewGatewayTimeoutError creates an error response for request timeouts (504).
func NewGatewayTimeoutError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeGatewayTimeout, "")
}

// HTTPStatusCode returns the appropriate HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return 400
	case ErrorTypeNotFound:
		return 404
	case ErrorTypeRateLimitExceeded:
		return 429
	case ErrorTypeServerError:
		return 500
	case ErrorTypeServiceUnavailable:
		return 503
	case ErrorTypeGatewayTimeout:
		return 504
	default:
		return 500
	}
}
