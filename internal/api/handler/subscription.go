package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/api/response"
	"github.com/daap14/console/internal/result"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/user"
)

// SubjectLookup resolves a local user record from an identity-provider subject.
type SubjectLookup interface {
	GetBySubject(ctx context.Context, subject string) (*user.User, error)
}

// SubscriptionManager cancels a user's subscription. A failed result is a
// business rejection; a returned error is unexpected.
type SubscriptionManager interface {
	Cancel(ctx context.Context, userID string) (result.Result, error)
}

// SubscriptionHandler serves subscription endpoints.
type SubscriptionHandler struct {
	sessions session.Provider
	users    SubjectLookup
	manager  SubscriptionManager
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(sessions session.Provider, users SubjectLookup, manager SubscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{
		sessions: sessions,
		users:    users,
		manager:  manager,
	}
}

// Cancel handles POST /api/subscriptions/cancel.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	s, err := h.sessions.Current(r)
	if err != nil {
		slog.Warn("session lookup failed", "error", err, "requestId", requestID)
	}
	if err != nil || s == nil || s.User.Sub == "" {
		response.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	u, err := h.users.GetBySubject(r.Context(), s.User.Sub)
	if errors.Is(err, user.ErrNotFound) {
		response.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to resolve user for cancellation", "error", err, "requestId", requestID)
		response.Fail(w, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	res, err := h.manager.Cancel(r.Context(), u.ID.Hex())
	if err != nil {
		slog.Error("failed to cancel subscription", "error", err, "userId", u.ID.Hex(), "requestId", requestID)
		response.Fail(w, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	if !res.Success {
		response.Result(w, http.StatusBadRequest, res)
		return
	}
	response.Result(w, http.StatusOK, res)
}
