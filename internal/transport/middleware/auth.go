package middleware

import (
	"net/http"
	"strings"

	"github.com/scknurr/tritium-v4-sub001/internal/auth"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// tokenParser validates access tokens and returns the identity they carry.
type tokenParser interface {
	ParseAccessToken(token string) (auth.Identity, error)
}

// Auth returns middleware that authenticates requests with a bearer token.
// Requests without a token pass through anonymously; handlers that need an
// identity check the context themselves. An invalid token is rejected.
func Auth(parser tokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // anonymous
				return
			}
			identity, err := parser.ParseAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), identity.UserID)
			ctx = ctxutil.WithUserRole(ctx, identity.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the bearer token from the Authorization header,
// or "" if the header is absent or uses a different scheme.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
