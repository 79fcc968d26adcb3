package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"authgate.org/internal/audit"
	"authgate.org/internal/auth"
	"authgate.org/internal/chat"
	"authgate.org/internal/obs"
)

// ReadyProbe reports whether backing services are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries boundary configuration into the API.
type Options struct {
	Version         string
	ReadyProbe      ReadyProbe
	AllowedOrigins  []string
	MaxBodyBytes    int64
	RateLimitPerSec int
	RateLimitBurst  int
	SystemPrompt    string
}

// API is the HTTP layer over the authorization core.
type API struct {
	mux        *http.ServeMux
	svc        *auth.Service
	completer  chat.Completer
	readyProbe ReadyProbe
	opts       Options
}

// New wires routes over the given auth service and chat collaborator.
func New(svc *auth.Service, completer chat.Completer, opts Options) *API {
	if completer == nil {
		completer = chat.StaticCompleter{}
	}
	a := &API{
		mux:        http.NewServeMux(),
		svc:        svc,
		completer:  completer,
		readyProbe: opts.ReadyProbe,
		opts:       opts,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)

	a.mux.HandleFunc("/auth/token", a.handleAuthToken)
	a.mux.HandleFunc("/auth/users", a.handleRegister)
	a.mux.HandleFunc("/auth/users/me", a.handleMe)

	a.mux.Handle("/chat/question", a.requireRole(auth.RoleAdmin, http.HandlerFunc(a.handleChatQuestion)))

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	maxBody := a.opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	perSec, burst := a.opts.RateLimitPerSec, a.opts.RateLimitBurst
	if perSec <= 0 {
		perSec = 20
	}
	if burst <= 0 {
		burst = perSec * 2
	}

	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RateLimit(h, burst, perSec)
	h = MaxBodyBytes(h, maxBody)
	h = CORS(h, a.opts.AllowedOrigins)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "authgate-api",
		"version": a.opts.Version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user.Sanitize())
}

func (a *API) handleChatQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form payload")
		return
	}
	question := r.PostFormValue("question")
	if question == "" {
		writeError(w, r, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := a.completer.Complete(r.Context(), a.opts.SystemPrompt, question)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "upstream model failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": answer})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	body := map[string]any{"error": message}
	if rid := audit.RequestIDFromContext(r.Context()); rid != "" {
		body["request_id"] = rid
	}
	writeJSON(w, code, body)
}

// unauthorized writes the uniform challenge response. Every authentication
// failure variant collapses to this shape.
func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, r, http.StatusUnauthorized, message)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
