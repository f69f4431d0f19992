package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/coreybb/userdir/route-handlers"
	"github.com/coreybb/userdir/webutil"
)

const (
	defaultBasePath = "/api"
	usersBasePath   = "/users"
)

const (
	paramID = "id" // General parameter name for resource IDs
)

// SetupRoutes builds the service router: the user resource mounted
// under basePath (default "/api"), plus a health check at the root.
func SetupRoutes(basePath string, userHandler *rh.UserHandler) http.Handler {
	if basePath == "" {
		basePath = defaultBasePath
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log every request
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set a timeout context for requests
	r.Use(NewCORS())                            // The UI is served from a separate origin

	r.Route(basePath, func(r chi.Router) {
		configureUserRoutes(r, userHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- User Routes ---
func configureUserRoutes(r chi.Router, userHandler *rh.UserHandler) {
	userSpecificPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(usersBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(userHandler.HandleListUsers))
		r.Post("/", webutil.MakeHandler(userHandler.HandleCreateUser))
		r.Route(userSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(userHandler.HandleGetUser))
			r.Put("/", webutil.MakeHandler(userHandler.HandleUpdateUser))
			r.Delete("/", webutil.MakeHandler(userHandler.HandleDeleteUser))
		})
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
