package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/walletvault/internal/server/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// authenticator validates the Bearer session token and stores its claims in
// the request context.
func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := auth.GetClaimsFromToken(parts[1], s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext returns the claims stored by the authenticator.
func sessionFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(sessionKey).(*auth.Claims)
	return claims, ok
}
