package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/internal/server"
	"github.com/iota-uz/dora-register/modules"
	"github.com/iota-uz/dora-register/modules/alerts"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/eventbus"
	"github.com/iota-uz/dora-register/pkg/logging"
	"github.com/iota-uz/dora-register/pkg/outbox"
	eventbusdispatcher "github.com/iota-uz/dora-register/pkg/outbox/dispatchers/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.OpenTelemetry.Enabled {
		cleanup := logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL, logger)
		defer cleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	connectCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	bus := eventbus.NewEventPublisher(logger)
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		Bundle:   application.LoadBundle(),
		EventBus: bus,
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	startOutboxBackground(ctx, conf, pool, logger, bus)

	if conf.Scheduler.Enabled {
		go func() {
			if err := alerts.NewScheduler(app).Run(composables.WithPool(ctx, pool)); err != nil && ctx.Err() == nil {
				logger.WithError(err).Error("scheduler stopped")
			}
		}()
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// startOutboxBackground runs the relay and the cleaner of the compliance
// outbox until ctx is cancelled.
func startOutboxBackground(
	ctx context.Context,
	conf *configuration.Configuration,
	pool *pgxpool.Pool,
	logger *logrus.Logger,
	bus eventbus.EventBusWithError,
) {
	outboxLog := logger.WithField("component", "outbox")
	table := outbox.DefaultTable

	if conf.Outbox.RelayEnabled {
		relay, err := outbox.NewRelay(pool, table, eventbusdispatcher.New(bus), outbox.RelayOptionsFromConfig(conf.Outbox, logger))
		if err != nil {
			outboxLog.WithError(err).Warn("outbox: failed to create relay")
		} else {
			go func() {
				if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
					outboxLog.WithError(err).Error("outbox: relay stopped")
				}
			}()
		}
	}

	cleaner, err := outbox.NewCleaner(pool, table, outbox.CleanerOptions{
		Retention: conf.Outbox.Retention,
		Logger:    outboxLog.WithField("table", outbox.TableLabel(table)),
	})
	if err != nil {
		outboxLog.WithError(err).Warn("outbox: failed to create cleaner")
		return
	}
	go func() {
		if err := cleaner.Run(ctx); err != nil && ctx.Err() == nil {
			outboxLog.WithError(err).Error("outbox: cleaner stopped")
		}
	}()
}
