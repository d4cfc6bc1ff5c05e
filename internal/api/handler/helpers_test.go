package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daap14/console/internal/identity"
	"github.com/daap14/console/internal/result"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/subscription"
	"github.com/daap14/console/internal/user"
)

// --- mocks ---

type mockUserRepo struct {
	listFn         func(ctx context.Context) ([]user.User, error)
	getBySubjectFn func(ctx context.Context, subject string) (*user.User, error)
	upsertFn       func(ctx context.Context, p user.LoginProfile, at time.Time) (*user.User, error)
}

func (m *mockUserRepo) List(ctx context.Context) ([]user.User, error) {
	return m.listFn(ctx)
}

func (m *mockUserRepo) GetBySubject(ctx context.Context, subject string) (*user.User, error) {
	if m.getBySubjectFn == nil {
		return nil, user.ErrNotFound
	}
	return m.getBySubjectFn(ctx, subject)
}

func (m *mockUserRepo) UpsertFromLogin(ctx context.Context, p user.LoginProfile, at time.Time) (*user.User, error) {
	return m.upsertFn(ctx, p, at)
}

type mockManager struct {
	cancelFn  func(ctx context.Context, userID string) (result.Result, error)
	currentFn func(ctx context.Context, userID string) (*subscription.Subscription, error)
}

func (m *mockManager) Cancel(ctx context.Context, userID string) (result.Result, error) {
	return m.cancelFn(ctx, userID)
}

func (m *mockManager) Current(ctx context.Context, userID string) (*subscription.Subscription, error) {
	if m.currentFn == nil {
		return nil, subscription.ErrNotFound
	}
	return m.currentFn(ctx, userID)
}

type mockFixer struct {
	fixFn func(ctx context.Context) (result.Result, error)
}

func (m *mockFixer) FixRoles(ctx context.Context) (result.Result, error) {
	return m.fixFn(ctx)
}

type mockSessions struct {
	s   *session.Session
	err error
}

func (m *mockSessions) Current(_ *http.Request) (*session.Session, error) {
	return m.s, m.err
}

type mockFlow struct {
	exchangeFn func(ctx context.Context, code string) (*identity.Profile, error)
}

func (m *mockFlow) LoginURL(state string) string {
	return "https://tenant.example.com/authorize?state=" + state
}

func (m *mockFlow) LogoutURL() string {
	return "https://tenant.example.com/v2/logout"
}

func (m *mockFlow) Exchange(ctx context.Context, code string) (*identity.Profile, error) {
	return m.exchangeFn(ctx, code)
}

type mockIssuer struct {
	issued  *session.User
	cleared bool
	err     error
}

func (m *mockIssuer) Issue(w http.ResponseWriter, u session.User) error {
	if m.err != nil {
		return m.err
	}
	m.issued = &u
	return nil
}

func (m *mockIssuer) Clear(_ http.ResponseWriter) {
	m.cleared = true
}

type mockRenderer struct {
	page string
	data any
	err  error
}

func (m *mockRenderer) Landing(w io.Writer) error {
	m.page = "landing"
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "<html>landing</html>")
	return err
}

func (m *mockRenderer) Render(w io.Writer, page string, data any) error {
	m.page = page
	m.data = data
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "<html>"+page+"</html>")
	return err
}

// --- helpers ---

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err, "failed to parse response body")
	return body
}

func aliceSession() *session.Session {
	return &session.Session{User: session.User{Sub: "auth0|alice", Name: "Alice", Email: "alice@example.com"}}
}
