package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// CORS lets the storefront frontend call the API with credentials. A "*"
// entry reflects any origin, since browsers reject a literal wildcard on
// credentialed requests.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type", "X-Requested-With",
			CartSessionHeader, IdempotencyHeader, requestIDHeader, "X-Session-Token",
		},
		ExposedHeaders:   []string{requestIDHeader, "X-Session-Token", "Idempotent-Replayed", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	for _, origin := range origins {
		if origin == "*" {
			opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
			return cors.New(opts).Handler
		}
	}
	opts.AllowedOrigins = origins
	return cors.New(opts).Handler
}
