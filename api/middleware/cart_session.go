package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const (
	CartSessionHeader = "Session-ID"
	// GuestCartSession is the shared cart used before a client sends an id.
	GuestCartSession = "guest-session"

	maxCartSessionLen = 128
)

// CartSession reads the Session-ID header into the request context.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := validators.SanitizeString(r.Header.Get(CartSessionHeader), maxCartSessionLen)
			if id == "" {
				id = GuestCartSession
			}
			ctx := WithCartSession(r.Context(), id)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
