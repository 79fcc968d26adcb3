package httpapi

import (
	"errors"
	"net/http"
	"time"

	"authgate.org/internal/audit"
	"authgate.org/internal/auth"
	"authgate.org/internal/obs"
)

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// handleAuthToken exchanges form-encoded credentials for a bearer token.
// The failure message never reveals which of the two fields was wrong.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form payload")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := a.svc.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			writeError(w, r, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		obs.ObserveAuthAttempt("denied")
		_ = audit.LogEvent(r.Context(), "auth.login.denied", map[string]any{
			"username": username,
		})
		unauthorized(w, r, "incorrect username or password")
		return
	}
	obs.ObserveAuthAttempt("ok")

	token, expiresAt, err := a.svc.Issue(r.Context(), user)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}
	obs.ObserveTokenIssued()
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"username":   user.Username,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// handleRegister creates a user record. The password is hashed before it
// reaches the store and never appears in the response.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := a.svc.Register(r.Context(), req.Username, req.Password, req.Email, req.Age, auth.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyExists):
			writeError(w, r, http.StatusBadRequest, "username already registered")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "invalid registration payload")
		case errors.Is(err, auth.ErrStoreUnavailable):
			writeError(w, r, http.StatusServiceUnavailable, "service unavailable")
		default:
			writeError(w, r, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "user.registered", map[string]any{
		"username": user.Username,
		"role":     string(user.Role),
	})
	writeJSON(w, http.StatusCreated, user)
}
