package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daap14/console/internal/cli"
	"github.com/daap14/console/internal/config"
	"github.com/daap14/console/internal/mongodb"
	"github.com/daap14/console/internal/roles"
	"github.com/daap14/console/internal/user"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func open(_ context.Context) (*cli.Services, func(), error) {
	cfg, err := config.LoadMongo()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	conn := mongodb.New(cfg.MongoURI, cfg.MongoDatabase)
	users := user.NewMongoRepository(conn)

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := conn.Close(ctx); err != nil {
			slog.Warn("failed to close document store", "error", err)
		}
	}

	return &cli.Services{Users: users, Fixer: roles.NewFixer(users)}, closeFn, nil
}
