package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/steiner385/MachShop-sub013/modules/mrp/services"
	"github.com/steiner385/MachShop-sub013/pkg/configuration"
	"github.com/steiner385/MachShop-sub013/pkg/eventbus"
	"github.com/steiner385/MachShop-sub013/pkg/metrics"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
	eventbusdispatcher "github.com/steiner385/MachShop-sub013/pkg/outbox/dispatchers/eventbus"
)

func newRelayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Publish pending outbox events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			app, err := buildApp(pool)
			if err != nil {
				return err
			}

			eb, ok := app.EventPublisher().(eventbus.EventBusWithError)
			if !ok {
				return fmt.Errorf("eventbus does not support PublishE; relay cannot start")
			}

			tableLabel := outbox.TableLabel(services.OutboxTable)
			relay, err := outbox.NewRelay(pool, services.OutboxTable, eventbusdispatcher.New(eb), outbox.RelayOptions{
				PollInterval:    conf.Outbox.RelayPollInterval,
				BatchSize:       conf.Outbox.RelayBatchSize,
				LockTTL:         conf.Outbox.RelayLockTTL,
				MaxAttempts:     conf.Outbox.RelayMaxAttempts,
				DispatchTimeout: conf.Outbox.RelayDispatchTimeout,
				Logger:          logger.WithField("component", "outbox").WithField("table", tableLabel),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if conf.Prometheus.Enabled {
				startMetricsListener(ctx, conf, logger)
			}

			if conf.Outbox.CleanerEnabled {
				if err := startCleaner(ctx, pool, conf, logger, tableLabel); err != nil {
					return err
				}
			}

			logger.WithField("table", tableLabel).Info("outbox relay starting")
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func startCleaner(ctx context.Context, pool *pgxpool.Pool, conf *configuration.Configuration, logger *logrus.Logger, tableLabel string) error {
	cleaner, err := outbox.NewCleaner(pool, services.OutboxTable, outbox.CleanerOptions{
		Interval:              conf.Outbox.CleanerInterval,
		Retention:             conf.Outbox.CleanerRetention,
		DeadRetention:         conf.Outbox.CleanerDeadRetention,
		DeadAttemptsThreshold: conf.Outbox.RelayMaxAttempts,
		Logger:                logger.WithField("component", "outbox-cleaner").WithField("table", tableLabel),
	})
	if err != nil {
		return err
	}
	go func() {
		if err := cleaner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("outbox cleaner stopped")
		}
	}()
	return nil
}

func startMetricsListener(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) {
	listener := metrics.NewListener(
		conf.Prometheus.Port,
		conf.Prometheus.Path,
		logger.WithField("component", "metrics"),
	)
	listener.Start(ctx)
}
