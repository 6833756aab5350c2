package auth

import (
	"net/http"
	"strings"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Middleware returns a middleware that requires a valid bearer token and
// stores the caller identity in the request context.
func Middleware(tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			identity, err := tokens.Verify(raw)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
		})
	}
}
