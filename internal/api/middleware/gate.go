package middleware

import (
	"log/slog"
	"net/http"

	"github.com/daap14/console/internal/session"
)

// LoginPath is where unauthenticated dashboard visitors are sent.
const LoginPath = "/login"

// SessionGate returns middleware that resolves the current session and
// redirects to LoginPath when there is none. Provider failures are treated
// the same as a missing session.
func SessionGate(provider session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := provider.Current(r)
			if err != nil {
				slog.Warn("session lookup failed", "error", err, "requestId", GetRequestID(r.Context()))
			}
			if err != nil || s == nil || s.User.Sub == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
