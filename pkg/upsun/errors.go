package upsun

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrNoCredential is returned when a request is attempted while the
// session's credential store is empty.
var ErrNoCredential = errors.New("no credential available for this session")

// APIError is a non-2xx answer from the management API.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Code is the machine-readable error identifier when the API sent one.
	Code string
	// Title is the short human-readable summary.
	Title string
	// Detail is the longer description, empty when the API sent none.
	Detail string
}

// Error returns the error message.
func (e *APIError) Error() string {
	msg := e.Title
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Detail != "" {
		return fmt.Sprintf("upsun api: %d %s: %s", e.Status, msg, e.Detail)
	}
	return fmt.Sprintf("upsun api: %d %s", e.Status, msg)
}

// newAPIError extracts the error shape from a response body. The API is
// not uniform across endpoints: OAuth-style bodies carry
// error/error_description, JSON-API style bodies carry title/detail, and
// some endpoints use code/message.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	if len(body) == 0 || !gjson.ValidBytes(body) {
		return apiErr
	}

	apiErr.Code = gjson.GetBytes(body, "code").String()
	if apiErr.Code == "" {
		apiErr.Code = gjson.GetBytes(body, "error").String()
	}

	apiErr.Title = gjson.GetBytes(body, "title").String()
	if apiErr.Title == "" {
		apiErr.Title = gjson.GetBytes(body, "message").String()
	}

	apiErr.Detail = gjson.GetBytes(body, "detail").String()
	if apiErr.Detail == "" {
		apiErr.Detail = gjson.GetBytes(body, "error_description").String()
	}
	if apiErr.Detail == "" {
		apiErr.Detail = gjson.GetBytes(body, "description").String()
	}

	return apiErr
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is an APIError with status 403.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited reports whether err is an APIError with status 429.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
