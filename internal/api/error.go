package api

import (
	"errors"
	"net/http"
)

// Error represents a backend error response.
type Error struct {
	Status  int
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a backend 404. The cart layer treats
// this as "endpoint unsupported by this backend", not as a user-facing
// failure.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403, i.e. the session
// token is invalid or rejected.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
