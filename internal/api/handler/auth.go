package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/identity"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/user"
)

// StateCookieName holds the OAuth2 state between /login and /callback.
const StateCookieName = "console_auth_state"

const stateTTL = 10 * time.Minute

// LoginFlow is the identity-provider side of the login.
type LoginFlow interface {
	LoginURL(state string) string
	LogoutURL() string
	Exchange(ctx context.Context, code string) (*identity.Profile, error)
}

// SessionIssuer writes and clears the session cookie.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, u session.User) error
	Clear(w http.ResponseWriter)
}

// LoginSyncer records a login against the local user store.
type LoginSyncer interface {
	UpsertFromLogin(ctx context.Context, p user.LoginProfile, at time.Time) (*user.User, error)
}

// AuthHandler drives login, callback, and logout.
type AuthHandler struct {
	flow     LoginFlow
	sessions SessionIssuer
	users    LoginSyncer
	secure   bool
	now      func() time.Time
}

// NewAuthHandler creates a new AuthHandler. secure controls the Secure flag
// on the state cookie.
func NewAuthHandler(flow LoginFlow, sessions SessionIssuer, users LoginSyncer, secure bool) *AuthHandler {
	return &AuthHandler{
		flow:     flow,
		sessions: sessions,
		users:    users,
		secure:   secure,
		now:      time.Now,
	}
}

// Login handles GET /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := identity.NewState()
	if err != nil {
		slog.Error("failed to generate login state", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})
	http.Redirect(w, r, h.flow.LoginURL(state), http.StatusFound)
}

// Callback handles GET /callback.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		slog.Warn("identity provider returned an error", "error", e, "description", q.Get("error_description"), "requestId", requestID)
		http.Error(w, "Login failed", http.StatusBadRequest)
		return
	}

	c, err := r.Cookie(StateCookieName)
	state := q.Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(state)) != 1 {
		http.Error(w, "Invalid login state", http.StatusBadRequest)
		return
	}
	h.clearState(w)

	profile, err := h.flow.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		slog.Error("failed to complete login", "error", err, "requestId", requestID)
		http.Error(w, "Login failed", http.StatusBadGateway)
		return
	}

	if _, err := h.users.UpsertFromLogin(r.Context(), user.LoginProfile{
		Subject:       profile.Sub,
		Name:          profile.Name,
		Email:         profile.Email,
		Picture:       profile.Picture,
		EmailVerified: profile.EmailVerified,
	}, h.now().UTC()); err != nil {
		slog.Error("failed to sync user on login", "error", err, "sub", profile.Sub, "requestId", requestID)
	}

	if err := h.sessions.Issue(w, session.User{
		Sub:     profile.Sub,
		Name:    profile.Name,
		Email:   profile.Email,
		Picture: profile.Picture,
	}); err != nil {
		slog.Error("failed to issue session", "error", err, "requestId", requestID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, h.flow.LogoutURL(), http.StatusFound)
}

func (h *AuthHandler) clearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
