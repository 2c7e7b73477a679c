// Package errs defines the error types returned to API clients.
//
// Every error that leaves a handler is funneled through the global error
// handler and rendered with the same envelope:
//
//	{"success": false, "error": {"code": "...", "message": "...", "statusCode": 400, ...}}
//
// so clients can rely on one shape for validation failures, missing brands,
// duplicate names and internal errors alike.
package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "message": "Email must be a valid email address" }
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRetry tells the client it may retry after Value seconds.
	ActionTypeRetry ActionType = "retry"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST", "BRAND_ALREADY_EXISTS").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: whether clients may show Message to end users verbatim.
//   - Errors: list of per-field errors (validation).
//   - Action: client instruction (optional).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"statusCode"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors,omitempty"`

	Action *Action `json:"action"`
}

// ErrorResponse is the JSON envelope written for every failed request.
type ErrorResponse struct {
	Success bool       `json:"success"`
	Error   *HTTPError `json:"error"`
}

// Error makes *HTTPError satisfy the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
// It does NOT compare Code/Status; errors.As is the way to inspect those.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// Response wraps the error in the failure envelope.
func (e *HTTPError) Response() ErrorResponse {
	return ErrorResponse{Success: false, Error: e}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
