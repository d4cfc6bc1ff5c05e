package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/console/internal/api/handler"
	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/user"
)

// SessionStore reads and writes the session cookie.
type SessionStore interface {
	session.Provider
	handler.SessionIssuer
}

// Subscriptions is the subscription manager as used by pages and the cancel endpoint.
type Subscriptions interface {
	handler.SubscriptionManager
	handler.SubscriptionReader
}

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Version           string
	DocumentStore     handler.Pinger
	SubscriptionStore handler.Pinger
	OpenAPISpec       []byte

	Users         user.Repository
	Subscriptions Subscriptions
	RoleFixer     handler.RoleFixer
	Sessions      SessionStore
	Login         handler.LoginFlow
	Renderer      handler.PageRenderer

	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.SecurityHeaders)

	healthHandler := handler.NewHealthHandler(deps.DocumentStore, deps.SubscriptionStore, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	usersHandler := handler.NewUsersHandler(deps.Users)
	subscriptionHandler := handler.NewSubscriptionHandler(deps.Sessions, deps.Users, deps.Subscriptions)
	adminHandler := handler.NewAdminHandler(deps.RoleFixer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", usersHandler.List)
		r.Post("/subscriptions/cancel", subscriptionHandler.Cancel)
		r.Post("/admin/fix-roles", adminHandler.FixRoles)
	})

	authHandler := handler.NewAuthHandler(deps.Login, deps.Sessions, deps.Users, deps.SecureCookies)
	pageHandler := handler.NewPageHandler(deps.Renderer, deps.Users, deps.Subscriptions)

	// Browser routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(deps.CSRFKey, deps.SecureCookies, deps.TrustedOrigins))

		r.Get("/", pageHandler.Landing)
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.SessionGate(deps.Sessions))
			r.Get("/", pageHandler.Dashboard)
			r.Get("/billing", pageHandler.Billing)
			r.Get("/profile", pageHandler.Profile)
		})
	})

	return r
}
