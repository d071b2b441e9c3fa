package garage61

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("invalid authentication token")
	// ErrProRequired is returned for 403 responses. The API uses it for
	// telemetry access without a Pro plan.
	ErrProRequired = errors.New("garage61 pro plan required")
	ErrNotFound    = errors.New("not found")
	ErrNetwork     = errors.New("network error")
)

// APIError is returned for unexpected status codes
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}
