package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/subscription"
	"github.com/daap14/console/internal/user"
	"github.com/daap14/console/internal/web"
)

// PageRenderer renders server-side pages.
type PageRenderer interface {
	Landing(w io.Writer) error
	Render(w io.Writer, page string, data any) error
}

// SubscriptionReader returns a user's live subscription.
type SubscriptionReader interface {
	Current(ctx context.Context, userID string) (*subscription.Subscription, error)
}

// PageHandler serves the landing page and the dashboard pages. Dashboard
// routes must sit behind the session gate.
type PageHandler struct {
	renderer      PageRenderer
	users         SubjectLookup
	subscriptions SubscriptionReader
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(renderer PageRenderer, users SubjectLookup, subscriptions SubscriptionReader) *PageHandler {
	return &PageHandler{
		renderer:      renderer,
		users:         users,
		subscriptions: subscriptions,
	}
}

// Landing handles GET /.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Landing(w); err != nil {
		h.renderFailed(w, r, err)
	}
}

// Dashboard handles GET /dashboard.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, web.PageDashboard, h.dashboardPage(r, "Overview", web.PageDashboard))
}

// Billing handles GET /dashboard/billing.
func (h *PageHandler) Billing(w http.ResponseWriter, r *http.Request) {
	data := h.dashboardPage(r, "Billing", web.PageBilling)

	if u := h.localUser(r); u != nil {
		sub, err := h.subscriptions.Current(r.Context(), u.ID.Hex())
		switch {
		case err == nil:
			data.Subscription = &web.SubscriptionView{
				Plan:              sub.Plan,
				Status:            sub.Status,
				CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
				CurrentPeriodEnd:  sub.CurrentPeriodEnd,
			}
		case !errors.Is(err, subscription.ErrNotFound):
			slog.Error("failed to load subscription", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		}
	}

	h.render(w, r, web.PageBilling, data)
}

// Profile handles GET /dashboard/profile.
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	data := h.dashboardPage(r, "Profile", web.PageProfile)

	if u := h.localUser(r); u != nil {
		data.Profile = &web.ProfileView{
			Name:          u.Name,
			Email:         u.Email,
			Role:          u.Role,
			EmailVerified: u.EmailVerified,
			LastLogin:     u.LastLogin,
			CreatedAt:     u.CreatedAt,
		}
	}

	h.render(w, r, web.PageProfile, data)
}

func (h *PageHandler) dashboardPage(r *http.Request, title, active string) web.DashboardPage {
	data := web.DashboardPage{
		Title:     title,
		Active:    active,
		CSRFToken: middleware.CSRFToken(r),
	}
	if s := session.FromContext(r.Context()); s != nil {
		data.Viewer = web.Viewer{Name: s.User.Name, Email: s.User.Email, Picture: s.User.Picture}
	}
	return data
}

// localUser returns the synced record for the session subject, or nil when
// there is none or the lookup fails.
func (h *PageHandler) localUser(r *http.Request) *user.User {
	s := session.FromContext(r.Context())
	if s == nil {
		return nil
	}
	u, err := h.users.GetBySubject(r.Context(), s.User.Sub)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			slog.Error("failed to load user", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		}
		return nil
	}
	return u
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page string, data web.DashboardPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page, data); err != nil {
		h.renderFailed(w, r, err)
	}
}

func (h *PageHandler) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("failed to render page", "error", err, "path", r.URL.Path, "requestId", middleware.GetRequestID(r.Context()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
