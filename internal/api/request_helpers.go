package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/vokabel/internal/api/shared"
	"github.com/phrazzld/vokabel/internal/platform/logger"
)

// profileParam is the chi URL parameter naming the profile.
const profileParam = "profile"

// profileFromPath returns the raw profile path parameter. Services validate it.
func profileFromPath(r *http.Request) string {
	return chi.URLParam(r, profileParam)
}

// decodeAndValidate decodes a JSON body into v and validates it, writing
// an error response on failure. An empty body is accepted when allowEmpty
// is set and leaves v at its zero value.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool, log *slog.Logger) bool {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	if err := shared.DecodeJSON(r, v); err != nil {
		if !allowEmpty || !errors.Is(err, shared.ErrEmptyBody) {
			log.Debug("invalid request body", slog.String("error", err.Error()))
			HandleAPIError(w, r, err, "")
			return false
		}
	}

	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
