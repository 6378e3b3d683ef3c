package handler

import "net/http"

// HTTPError carries an HTTP status code and a stable machine-readable
// key. The key goes into the response body; the human message is always
// derived from the status code to avoid leaking internals.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	if e.Key != "" {
		return e.Key
	}
	return http.StatusText(e.Code)
}

// NewHTTPError creates an HTTPError with a status code and key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

// Common API errors.
var (
	ErrBadRequest   = NewHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = NewHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound     = NewHTTPError(http.StatusNotFound, "not_found")
)

// ValidationError maps field names to their validation failure messages.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	return "validation failed"
}
