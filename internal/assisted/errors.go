package assisted

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingToken is returned when a client is requested without a token.
var ErrMissingToken = errors.New("access token is required")

// APIError is returned for any non-2xx response from the assisted service or
// the accounts management endpoint.
type APIError struct {
	Operation  string
	Method     string
	Path       string
	StatusCode int

	// Reason is taken from the error document when the service sends one,
	// otherwise it is the HTTP status text.
	Reason string

	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Reason)
}

// newAPIError builds an APIError from a failed response body.
func newAPIError(operation, method, path string, statusCode int, body []byte) *APIError {
	e := &APIError{
		Operation:  operation,
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       string(body),
		Reason:     http.StatusText(statusCode),
	}

	var doc struct {
		Reason string `json:"reason"`
	}
	if json.Unmarshal(body, &doc) == nil && strings.TrimSpace(doc.Reason) != "" {
		e.Reason = doc.Reason
	}
	if e.Reason == "" {
		e.Reason = "unexpected status"
	}
	return e
}

// StatusCode returns the HTTP status of err if it wraps an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the remote service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 from the remote service.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
