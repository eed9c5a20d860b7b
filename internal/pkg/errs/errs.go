package errs

import (
	"errors"
	"fmt"
	"net/http"

	"talentx/internal/pkg/logx"
)

// CustomError is the error value returned to API clients.
type CustomError struct {
	// Code is the business error code (see constants).
	Code int

	// Message is the user-facing description.
	Message string

	// Status is the HTTP status code used when the error is written as a response.
	Status int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Is reports whether target is a CustomError carrying the same code.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError returns the CustomError registered for code. An unknown code is logged and
// mapped to ErrUnknown. When code is ErrUnknown and details[0] is an error, that error
// is logged so the generic response can still be traced server-side.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d", code),
			"Unknown error code requested",
			"requested_code", code,
		)
		templateErr = errorMap[ErrUnknown]
	}

	customErr := templateErr
	if customErr.Status == 0 {
		customErr.Status = http.StatusInternalServerError
	}

	if len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(originalErr, "Request failed with underlying error", "code", customErr.Code)
		}
	}

	return &customErr
}
