package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewNotFoundError creates a 404. code defaults to "NOT_FOUND".
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Kind:     KindNotFound,
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError reports a duplicate that the storage layer would not catch
// on its own, such as a repeated cast pair. It renders as 400.
func NewConflictError(message string, code string) *HTTPError {
	if code == "" {
		code = "CONFLICT"
	}

	return &HTTPError{
		Kind:     KindConflict,
		Code:     code,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: true,
	}
}

// NewPersistenceError reports a rejected write: a constraint violation or a
// storage failure. It renders as 500.
//
// Constraint violations carry a specific code and an override so the client
// sees what went wrong; opaque storage failures keep the generic message.
func NewPersistenceError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := "PERSISTENCE_ERROR"
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Kind:     KindPersistence,
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusInternalServerError,
		Override: override,
		Errors:   errors,
	}
}

// NewBadRequestError creates a 400 for undecodable or invalid requests.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Kind:     KindBadRequest,
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewInternalServerError creates a generic 500. The real cause is logged,
// never returned.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Kind:    KindInternal,
		Code:    statusCode(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
