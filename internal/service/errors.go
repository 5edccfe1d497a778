package service

import (
	"errors"
	"fmt"
)

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrInvalidProfile indicates a blank or malformed profile id.
	ErrInvalidProfile = errors.New("invalid profile id")

	// ErrGenerationInFlight indicates that a generation import is running
	// for the profile and a session cannot start until it finishes.
	ErrGenerationInFlight = errors.New("vocabulary generation in progress")

	// ErrGenerationDisabled indicates that no generator is configured.
	ErrGenerationDisabled = errors.New("vocabulary generation is not configured")

	// ErrSyncDisabled indicates that no cloud store is configured.
	ErrSyncDisabled = errors.New("cloud sync is not configured")
)

// ServiceError wraps unexpected failures with the operation that failed.
type ServiceError struct {
	// Service is the service name, e.g. "trainer".
	Service string
	// Operation is the operation that failed, e.g. "add_entry".
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err. Errors callers are expected to check with
// errors.Is are returned unchanged.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range passthrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &ServiceError{Service: service, Operation: operation, Message: message, Err: err}
}

var passthrough = []error{
	ErrInvalidProfile,
	ErrGenerationInFlight,
	ErrGenerationDisabled,
	ErrSyncDisabled,
}
