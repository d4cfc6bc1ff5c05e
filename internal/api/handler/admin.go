package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/api/response"
	"github.com/daap14/console/internal/result"
)

// RoleFixer repairs invalid user roles and reports the outcome.
type RoleFixer interface {
	FixRoles(ctx context.Context) (result.Result, error)
}

// AdminHandler serves maintenance endpoints.
type AdminHandler struct {
	fixer RoleFixer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(fixer RoleFixer) *AdminHandler {
	return &AdminHandler{fixer: fixer}
}

// FixRoles handles POST /api/admin/fix-roles.
func (h *AdminHandler) FixRoles(w http.ResponseWriter, r *http.Request) {
	res, err := h.fixer.FixRoles(r.Context())
	if err != nil {
		slog.Error("failed to fix user roles", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		response.Fail(w, http.StatusInternalServerError, "Failed to fix user roles")
		return
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	response.Result(w, status, res)
}
