package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns a CORS middleware for the given allowed origins.
// Non-browser clients are unaffected; browsers get the standard
// preflight handling with the headers the API actually uses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler
}
