package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daap14/console/internal/api/handler"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/subscription"
	"github.com/daap14/console/internal/user"
	"github.com/daap14/console/internal/web"
)

func gatedRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return req.WithContext(session.WithSession(req.Context(), aliceSession()))
}

func TestPageHandler_Landing(t *testing.T) {
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, &mockUserRepo{}, &mockManager{})
	w := httptest.NewRecorder()

	h.Landing(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "landing", renderer.page)
}

func TestPageHandler_Landing_RenderError(t *testing.T) {
	h := handler.NewPageHandler(&mockRenderer{err: errors.New("bad template")}, &mockUserRepo{}, &mockManager{})
	w := httptest.NewRecorder()

	h.Landing(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "bad template")
}

func TestPageHandler_Dashboard(t *testing.T) {
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, &mockUserRepo{}, &mockManager{})
	w := httptest.NewRecorder()

	h.Dashboard(w, gatedRequest("/dashboard"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, web.PageDashboard, renderer.page)
	data := renderer.data.(web.DashboardPage)
	assert.Equal(t, web.PageDashboard, data.Active)
	assert.Equal(t, "Alice", data.Viewer.Name)
}

func TestPageHandler_Billing_WithSubscription(t *testing.T) {
	id := primitive.NewObjectID()
	end := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	subs := &mockManager{currentFn: func(_ context.Context, userID string) (*subscription.Subscription, error) {
		assert.Equal(t, id.Hex(), userID)
		return &subscription.Subscription{Plan: "team", Status: "active", CurrentPeriodEnd: end}, nil
	}}
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, knownUser(id), subs)
	w := httptest.NewRecorder()

	h.Billing(w, gatedRequest("/dashboard/billing"))

	assert.Equal(t, http.StatusOK, w.Code)
	data := renderer.data.(web.DashboardPage)
	assert.Equal(t, web.PageBilling, data.Active)
	require.NotNil(t, data.Subscription)
	assert.Equal(t, "team", data.Subscription.Plan)
	assert.Equal(t, end, data.Subscription.CurrentPeriodEnd)
}

func TestPageHandler_Billing_NoSubscription(t *testing.T) {
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, knownUser(primitive.NewObjectID()), &mockManager{})
	w := httptest.NewRecorder()

	h.Billing(w, gatedRequest("/dashboard/billing"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, renderer.data.(web.DashboardPage).Subscription)
}

func TestPageHandler_Billing_LookupErrorStillRenders(t *testing.T) {
	subs := &mockManager{currentFn: func(_ context.Context, _ string) (*subscription.Subscription, error) {
		return nil, errors.New("pool closed")
	}}
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, knownUser(primitive.NewObjectID()), subs)
	w := httptest.NewRecorder()

	h.Billing(w, gatedRequest("/dashboard/billing"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, renderer.data.(web.DashboardPage).Subscription)
}

func TestPageHandler_Profile(t *testing.T) {
	users := &mockUserRepo{getBySubjectFn: func(_ context.Context, _ string) (*user.User, error) {
		return &user.User{Name: "Alice", Email: "alice@example.com", Role: "admin"}, nil
	}}
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, users, &mockManager{})
	w := httptest.NewRecorder()

	h.Profile(w, gatedRequest("/dashboard/profile"))

	assert.Equal(t, http.StatusOK, w.Code)
	data := renderer.data.(web.DashboardPage)
	require.NotNil(t, data.Profile)
	assert.Equal(t, "admin", data.Profile.Role)
}

func TestPageHandler_Profile_NotSynced(t *testing.T) {
	renderer := &mockRenderer{}
	h := handler.NewPageHandler(renderer, &mockUserRepo{}, &mockManager{})
	w := httptest.NewRecorder()

	h.Profile(w, gatedRequest("/dashboard/profile"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, renderer.data.(web.DashboardPage).Profile)
}
