package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/spreadsheet"
	"github.com/phrazzld/vokabel/internal/selector"
	"github.com/phrazzld/vokabel/internal/service"
	"github.com/phrazzld/vokabel/internal/session"
	"github.com/phrazzld/vokabel/internal/store"
	"github.com/phrazzld/vokabel/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
//
// Advisory errors (nothing to learn, no running session, card not yet
// revealed) are 422: the request was well formed but the current state
// cannot satisfy it.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Bad request errors
	case errors.As(err, &validationErrs),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrInvalidJSON),
		errors.Is(err, domain.ErrEmptyField),
		errors.Is(err, domain.ErrMalformedEntry),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, selector.ErrInvalidStackSize),
		errors.Is(err, selector.ErrUnknownPolicy),
		errors.Is(err, session.ErrInvalidGesture),
		errors.Is(err, session.ErrInvalidDirection),
		errors.Is(err, session.ErrUnknownEvent),
		errors.Is(err, spreadsheet.ErrUnsupportedFormat),
		errors.Is(err, spreadsheet.ErrEmptySheet),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, task.ErrJobNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrDuplicateEntry),
		errors.Is(err, session.ErrSessionActive),
		errors.Is(err, service.ErrGenerationInFlight):
		return http.StatusConflict

	// Advisory errors
	case errors.Is(err, selector.ErrNoEntries),
		errors.Is(err, selector.ErrNoQualifyingEntries),
		errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrSessionFinished),
		errors.Is(err, session.ErrCardNotRevealed),
		errors.Is(err, session.ErrEmptyStack):
		return http.StatusUnprocessableEntity

	// Upstream generator errors
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrInvalidConfig):
		return http.StatusBadGateway

	// Disabled or saturated features
	case errors.Is(err, service.ErrGenerationDisabled),
		errors.Is(err, service.ErrSyncDisabled),
		errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Messages of
// advisory errors are shown to learners as they are.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, shared.ErrInvalidJSON):
		return "Invalid request format"
	case errors.Is(err, domain.ErrEmptyField):
		return "Source and target must not be empty"
	case errors.Is(err, domain.ErrMalformedEntry):
		return "Malformed vocabulary data"
	case errors.Is(err, service.ErrInvalidProfile):
		return "Invalid profile"
	case errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid generation request"
	case errors.Is(err, selector.ErrInvalidStackSize):
		return "Stack size must be at least 1"
	case errors.Is(err, selector.ErrUnknownPolicy):
		return "Unknown selection policy"
	case errors.Is(err, session.ErrInvalidGesture):
		return "Unknown swipe direction"
	case errors.Is(err, session.ErrInvalidDirection):
		return "Unknown direction mode"
	case errors.Is(err, session.ErrUnknownEvent):
		return "Unknown session action"
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		return "Unsupported file format"
	case errors.Is(err, spreadsheet.ErrEmptySheet):
		return "The file contains no vocabulary"

	case errors.Is(err, domain.ErrEntryNotFound):
		return "Entry not found"
	case errors.Is(err, task.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrDuplicateEntry):
		return "This word is already in the list"
	case errors.Is(err, session.ErrSessionActive):
		return "A session is already running"
	case errors.Is(err, service.ErrGenerationInFlight):
		return "Vocabulary generation is still running"

	case errors.Is(err, selector.ErrNoEntries):
		return "No vocabulary to learn yet"
	case errors.Is(err, selector.ErrNoQualifyingEntries):
		return "No difficult words yet"
	case errors.Is(err, session.ErrNoActiveSession):
		return "No session is running"
	case errors.Is(err, session.ErrSessionFinished):
		return "The session is finished"
	case errors.Is(err, session.ErrCardNotRevealed):
		return "Reveal the card before judging it"
	case errors.Is(err, session.ErrEmptyStack):
		return "Cannot start a session without cards"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The topic was rejected by the language model"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrInvalidConfig):
		return "Vocabulary generation failed"

	case errors.Is(err, service.ErrGenerationDisabled):
		return "Vocabulary generation is not configured"
	case errors.Is(err, service.ErrSyncDisabled):
		return "Cloud sync is not configured"
	case errors.Is(err, task.ErrQueueFull), errors.Is(err, task.ErrQueueClosed):
		return "Too many background jobs, try again later"
	case errors.Is(err, store.ErrUnavailable):
		return "Storage is unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return "Invalid " + strings.ToLower(fe.Field()) + ": " + getValidationTagMessage(fe.Tag())
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status code and writes a sanitized error
// response. fallback replaces the generic message of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict || status == http.StatusServiceUnavailable {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err, opts...)
}
