package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRF returns middleware that protects browser form submissions. When secure
// is false, requests are marked as plaintext so origin checks work over
// http:// in development.
func CSRF(authKey []byte, secure bool, trustedOrigins []string) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.TrustedOrigins(trustedOrigins),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token for the current request, for embedding in forms.
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}
