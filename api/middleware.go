package api

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS builds the permissive CORS policy the browser front-end
// needs: any origin, the five resource methods, and the Content-Type
// request header.
func NewCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}
