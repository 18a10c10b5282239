package middleware

import (
	"net/http"
	"strings"

	"github.com/baharkarakas/charity-donations/internal/api/httpx"
)

// TokenVerifier checks an admin token. auth.TokenManager implements it.
type TokenVerifier interface {
	Verify(token string) error
}

// AdminAuth accepts the admin token either raw or with a "Bearer " prefix in the Authorization header.
func AdminAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := v.Verify(tokenFrom(r)); err != nil {
				httpx.WriteFailure(w, http.StatusUnauthorized, "Unauthorized access", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFrom(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		return strings.TrimSpace(ah[7:])
	}
	return ah
}
