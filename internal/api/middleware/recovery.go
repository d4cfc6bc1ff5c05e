package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/console/internal/api/response"
)

// Recovery is middleware that recovers from panics. API routes get a generic
// JSON failure envelope; pages get a plain-text 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())
				slog.Error("panic recovered", "error", err, "requestId", requestID, "path", r.URL.Path)
				if strings.HasPrefix(r.URL.Path, "/api/") {
					response.Fail(w, http.StatusInternalServerError, "An unexpected error occurred")
					return
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
