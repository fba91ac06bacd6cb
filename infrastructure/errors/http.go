// Package errors provides shared error types for upstream HTTP failures.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MinErrorStatusCode is the minimum HTTP status code considered an error.
const MinErrorStatusCode = 400

// maxErrorBody caps how much of an error response body is retained.
const maxErrorBody = 4 << 10

// HTTPError represents a non-2xx response from an upstream API.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// Temporary reports whether the failure is worth retrying (429 or 5xx).
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ParseHTTPError converts an error response into an *HTTPError.
// It returns nil for status codes below 400.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
		Message:    string(body),
	}

	// NYT answers {"fault":{"faultstring":...}}, Guardian {"response":{"message":...}}.
	var payload struct {
		Message string `json:"message"`
		Fault   struct {
			FaultString string `json:"faultstring"`
		} `json:"fault"`
		Response struct {
			Message string `json:"message"`
		} `json:"response"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Fault.FaultString != "":
			httpErr.Message = payload.Fault.FaultString
		case payload.Response.Message != "":
			httpErr.Message = payload.Response.Message
		case payload.Message != "":
			httpErr.Message = payload.Message
		}
	}

	return httpErr
}

// GetHTTPStatusCode extracts the status code from a wrapped *HTTPError.
func GetHTTPStatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
