package apperror

import "net/http"

// AppError carries an HTTP status code and a message that is safe to show to
// the operator. The wrapped error is logged but never rendered.
type AppError struct {
	Code    int               // HTTP status code (e.g. 400, 404)
	Message string            // User-facing error message
	Fields  map[string]string // Per-field messages for validation failures
	Err     error             // Underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid reports a rejected payload with its field messages.
func Invalid(err error, fields map[string]string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "invalid fields",
		Fields:  fields,
		Err:     err,
	}
}
