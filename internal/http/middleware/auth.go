package middleware

import (
	"context"
	"net/http"
	"strings"

	"concertline/internal/auth"
	"concertline/internal/logging"
)

type claimsKey struct{}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate attaches the claims of a valid bearer token to the request.
// Requests without a valid token pass through anonymously; handlers decide
// whether that is acceptable.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ParseBearerToken(r.Header.Get("Authorization"))
			if token != "" {
				claims, err := tokens.Parse(token)
				if err != nil {
					logging.FromContext(r.Context()).Debug().Err(err).Msg("ignoring invalid bearer token")
				} else {
					ctx := context.WithValue(r.Context(), claimsKey{}, claims)
					ctx = logging.WithUserID(ctx, claims.UserID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// WithClaims stores claims in ctx. Tests use it to fake a signed-in user.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ParseBearerToken extracts the token from an Authorization header.
func ParseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
