package handler

import (
	"context"
	"net/http"

	"github.com/daap14/console/internal/api/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	documents     Pinger
	subscriptions Pinger
	version       string
}

// NewHealthHandler creates a new HealthHandler. Either pinger may be nil,
// in which case that store is reported as disconnected.
func NewHealthHandler(documents, subscriptions Pinger, version string) *HealthHandler {
	return &HealthHandler{
		documents:     documents,
		subscriptions: subscriptions,
		version:       version,
	}
}

type storeStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status            string      `json:"status"`
	Version           string      `json:"version"`
	DocumentStore     storeStatus `json:"documentStore"`
	SubscriptionStore storeStatus `json:"subscriptionStore"`
}

func reachable(ctx context.Context, p Pinger) bool {
	return p != nil && p.Ping(ctx) == nil
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	docs := reachable(r.Context(), h.documents)
	subs := reachable(r.Context(), h.subscriptions)

	status := "healthy"
	if !docs || !subs {
		status = "degraded"
	}

	response.Success(w, http.StatusOK, healthData{
		Status:            status,
		Version:           h.version,
		DocumentStore:     storeStatus{Connected: docs},
		SubscriptionStore: storeStatus{Connected: subs},
	})
}
