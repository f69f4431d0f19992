package webutil

import (
	"errors"
	"log/slog"
	"net/http"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc signature.
// It executes the AppHandler and handles any returned error by logging
// appropriately and sending a standardized JSON error response: HTTPError
// carries its own status and message, ValidationError becomes the 422
// envelope, and anything else is coerced to a generic 500 without leaking
// internals to the client.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			// The handler is assumed to have written its own successful response.
			return
		}

		var httpErr *HTTPError
		var validationErr *ValidationError

		switch {
		case errors.As(err, &validationErr):
			slog.Warn("Validation failure",
				"fields", len(validationErr.Fields),
				"path", r.URL.Path,
				"method", r.Method,
			)
			RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": validationErr.Message,
				"errors":  validationErr.Fields,
			})

		case errors.As(err, &httpErr):
			// An HTTPError we explicitly created (e.g. ErrBadRequest, ErrNotFound).
			logLevel := slog.LevelWarn // Treat client errors as warnings server-side
			if httpErr.Code >= 500 {
				logLevel = slog.LevelError
			}
			// Log the underlying cause if present and different from the public message
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != httpErr.Message {
				slog.Log(r.Context(), logLevel, "Client error response",
					"code", httpErr.Code,
					"msg", httpErr.Message,
					"cause", cause,
					"path", r.URL.Path,
					"method", r.Method,
				)
			} else {
				slog.Log(r.Context(), logLevel, "Client error response",
					"code", httpErr.Code,
					"msg", httpErr.Message,
					"path", r.URL.Path,
					"method", r.Method,
				)
			}
			RespondWithMessage(w, httpErr.Code, httpErr.Message)

		default:
			// Any other error is treated as an internal server error.
			slog.Error("Unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
			RespondWithMessage(w, http.StatusInternalServerError, msgInternalServer)
		}
	}
}
