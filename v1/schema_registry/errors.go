package schema_registry

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches registry responses with status 404.
	ErrNotFound = errors.New("schema_registry: not found")

	// ErrInvalidFrame is returned for payloads not in the Confluent wire format.
	ErrInvalidFrame = errors.New("schema_registry: invalid wire format")
)

// APIError is a non-2xx response from the registry.
type APIError struct {
	StatusCode int
	Code       int    `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("schema_registry: registry returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("schema_registry: registry returned status %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// Is matches ErrNotFound for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 from the registry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
