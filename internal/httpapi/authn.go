package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"authgate.org/internal/audit"
	"authgate.org/internal/auth"
	"authgate.org/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/auth/token",
	"/auth/users",
	"/metrics",
	"/healthz",
	"/readyz",
	"/",
}

// withAuth resolves the bearer token on protected paths and places the live
// user record in the request context. Every resolve failure collapses to the
// same 401 challenge; the internal variant goes to the audit log only.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthorized(w, r, "could not validate credentials")
			return
		}

		user, err := a.svc.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrStoreUnavailable) {
				writeError(w, r, http.StatusServiceUnavailable, "service unavailable")
				return
			}
			_ = audit.LogEvent(r.Context(), "auth.token.rejected", map[string]any{
				"reason": resolveFailureReason(err),
				"path":   r.URL.Path,
			})
			unauthorized(w, r, "could not validate credentials")
			return
		}

		ctx := auth.ContextWithUser(r.Context(), user)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a handler on an exact role match. Denial is a distinct
// outcome from any authentication failure: 403, not 401.
func (a *API) requireRole(role auth.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			unauthorized(w, r, "could not validate credentials")
			return
		}
		if err := auth.RequireRole(user, role); err != nil {
			obs.ObserveAuthzDenial()
			_ = audit.LogEvent(r.Context(), "authz.denied", map[string]any{
				"required_role": string(role),
				"actual_role":   string(user.Role),
				"path":          r.URL.Path,
			})
			writeError(w, r, http.StatusForbidden, "insufficient privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolveFailureReason names the internal failure variant for diagnostics.
// The string is never echoed to the caller.
func resolveFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, auth.ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token"
	default:
		return "error"
	}
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
