// Package errs defines the error types returned to API clients.
//
// Every failure leaving a handler is an *HTTPError so the global error
// handler can render one consistent JSON shape:
//
//	{ "error": "Book not found", "code": "NOT_FOUND", "status": 404 }
//
// Field-level problems travel in the optional "errors" list.
package errs

import "strings"

// Kind classifies an HTTPError independently of its code string.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindPersistence Kind = "persistence"
	KindBadRequest  Kind = "bad_request"
	// KindRejected covers requests turned away by routing or middleware
	// before reaching a handler: 405, 415, 429 and the like.
	KindRejected Kind = "rejected"
	KindInternal Kind = "internal"
)

// FieldError represents a problem with one request field.
//
//	{ "field": "name", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the API error type.
//
// Override marks messages that are safe to show verbatim even in production;
// the global handler replaces non-overridable 5xx messages with the generic
// status text.
type HTTPError struct {
	Kind     Kind         `json:"-"`
	Message  string       `json:"error"`
	Code     string       `json:"code"`
	Status   int          `json:"status"`
	Errors   []FieldError `json:"errors,omitempty"`
	Override bool         `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError of the same kind, so callers can write
// errors.Is(err, errs.ErrNotFound).
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// WithMessage returns a copy with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound    = &HTTPError{Kind: KindNotFound}
	ErrConflict    = &HTTPError{Kind: KindConflict}
	ErrPersistence = &HTTPError{Kind: KindPersistence}
	ErrBadRequest  = &HTTPError{Kind: KindBadRequest}
	ErrRejected    = &HTTPError{Kind: KindRejected}
	ErrInternal    = &HTTPError{Kind: KindInternal}
)

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
