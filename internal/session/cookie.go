package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "console_session"

const issuer = "console"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrMissingSubject = errors.New("session has no subject")
)

type claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// CookieProvider stores sessions as HS256-signed JWTs in an HttpOnly cookie.
type CookieProvider struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewCookieProvider creates a CookieProvider.
func NewCookieProvider(secret string, ttl time.Duration, secure bool) *CookieProvider {
	return &CookieProvider{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Current parses the session cookie. A missing cookie yields (nil, nil);
// a malformed, tampered or expired cookie yields an error.
func (p *CookieProvider) Current(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	var c claims
	token, err := jwt.ParseWithClaims(cookie.Value, &c, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if c.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Session{User: User{
		Sub:     c.Subject,
		Name:    c.Name,
		Email:   c.Email,
		Picture: c.Picture,
	}}, nil
}

// Issue signs a session for u and sets it as a cookie on w.
func (p *CookieProvider) Issue(w http.ResponseWriter, u User) error {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.Sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return fmt.Errorf("signing session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(p.ttl.Seconds()),
	})
	return nil
}

// Clear removes the session cookie.
func (p *CookieProvider) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
