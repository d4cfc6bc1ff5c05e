package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/daap14/console/api"
	"github.com/daap14/console/internal/api"
	"github.com/daap14/console/internal/config"
	"github.com/daap14/console/internal/identity"
	"github.com/daap14/console/internal/mongodb"
	"github.com/daap14/console/internal/postgres"
	"github.com/daap14/console/internal/roles"
	"github.com/daap14/console/internal/session"
	"github.com/daap14/console/internal/subscription"
	"github.com/daap14/console/internal/user"
	"github.com/daap14/console/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startCancel()

	db, err := postgres.New(startCtx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to subscription database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(startCtx); err != nil {
		slog.Error("failed to apply subscription schema", "error", err)
		os.Exit(1)
	}

	// Connected lazily on first use.
	docStore := mongodb.New(cfg.MongoURI, cfg.MongoDatabase)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := docStore.Close(ctx); err != nil {
			slog.Error("failed to close document store", "error", err)
		}
	}()

	key, err := csrfKey(cfg.CSRFKey)
	if err != nil {
		slog.Error("invalid CSRF key", "error", err)
		os.Exit(1)
	}

	renderer, err := web.New()
	if err != nil {
		slog.Error("failed to load page templates", "error", err)
		os.Exit(1)
	}

	users := user.NewMongoRepository(docStore)

	router := api.NewRouter(api.RouterDeps{
		Version:           cfg.Version,
		DocumentStore:     docStore,
		SubscriptionStore: db,
		OpenAPISpec:       specpkg.OpenAPISpec,
		Users:             users,
		Subscriptions:     subscription.NewManager(subscription.NewRepository(db.Pool())),
		RoleFixer:         roles.NewFixer(users),
		Sessions:          session.NewCookieProvider(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
		Login: identity.New(identity.Config{
			Domain:       cfg.AuthDomain,
			ClientID:     cfg.AuthClientID,
			ClientSecret: cfg.AuthClientSecret,
			BaseURL:      cfg.BaseURL,
		}),
		Renderer:       renderer,
		CSRFKey:        key,
		SecureCookies:  cfg.SecureCookies,
		TrustedOrigins: trustedOrigins(cfg.BaseURL),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting console server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// csrfKey decodes the configured key, or generates a throwaway one when none
// is set. A generated key invalidates outstanding form tokens on restart.
func csrfKey(encoded string) ([]byte, error) {
	if encoded == "" {
		slog.Warn("CSRF_KEY not set; using a random key for this process")
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating CSRF key: %w", err)
		}
		return key, nil
	}

	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding CSRF key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("CSRF key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

func trustedOrigins(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
