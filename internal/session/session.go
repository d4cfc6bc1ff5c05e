// Package session resolves the authenticated identity attached to a request.
package session

import (
	"context"
	"net/http"
)

// User holds the identity-provider attributes carried by a session.
type User struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Session is the provider-issued identity scoped to one request.
type Session struct {
	User User
}

// Provider returns the current session for a request. A nil session with a
// nil error means the caller is not logged in.
type Provider interface {
	Current(r *http.Request) (*Session, error)
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext retrieves the session stored by the gate, if any.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok {
		return s
	}
	return nil
}
