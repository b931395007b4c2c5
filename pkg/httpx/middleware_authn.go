package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/privacydesk/datamapd/pkg/jwtx"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

// AuthnMiddleware authenticates requests carrying a bearer token. Missing,
// malformed, invalid, and expired tokens are all rejected with 401; the
// resolved user identity is injected into the request context on success.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "Access token required")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			// Verify covers signature, issuer, and expiry.
			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "Invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				log.Warn("jwt subject is not a user id", "sub", claims.Subject)
				writeBearerError(w, "Invalid or expired token")
				return
			}

			ctx = contextWithAuth(ctx, userID, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, userID int64, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth. The body keeps the
// {"error": ...} envelope the web frontend expects.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": desc})
}
