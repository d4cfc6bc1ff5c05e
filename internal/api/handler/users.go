package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/api/response"
	"github.com/daap14/console/internal/user"
)

// UserLister fetches all user records.
type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

type userResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Auth0ID       string  `json:"auth0Id"`
	Picture       string  `json:"picture,omitempty"`
	EmailVerified bool    `json:"emailVerified"`
	Role          string  `json:"role"`
	LastLogin     *string `json:"lastLogin,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

type userListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Users   []userResponse `json:"users"`
}

func toUserResponse(u user.User) userResponse {
	resp := userResponse{
		ID:            u.ID.Hex(),
		Name:          u.Name,
		Email:         u.Email,
		Auth0ID:       u.Auth0ID,
		Picture:       u.Picture,
		EmailVerified: u.EmailVerified,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		s := u.LastLogin.UTC().Format(time.RFC3339)
		resp.LastLogin = &s
	}
	return resp
}

// UsersHandler serves the user listing endpoint.
type UsersHandler struct {
	users UserLister
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users UserLister) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("failed to fetch users", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		response.Fail(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}

	response.JSON(w, http.StatusOK, userListResponse{
		Success: true,
		Count:   len(items),
		Users:   items,
	})
}
