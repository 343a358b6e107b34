package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/steiner385/MachShop-sub013/modules"
	"github.com/steiner385/MachShop-sub013/pkg/application"
	"github.com/steiner385/MachShop-sub013/pkg/composables"
	"github.com/steiner385/MachShop-sub013/pkg/configuration"
	"github.com/steiner385/MachShop-sub013/pkg/eventbus"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, configuration.Use().Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	// pgxpool dials lazily; fail fast on a bad DSN or unreachable server.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

func buildApp(pool *pgxpool.Pool) (application.Application, error) {
	logger := configuration.Use().Logger()
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app); err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	return app, nil
}

func opContext(ctx context.Context, app application.Application) context.Context {
	ctx = composables.WithPool(ctx, app.DB())
	return composables.WithLogger(ctx, logrus.NewEntry(app.Logger()))
}
