package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	internalassets "github.com/iota-uz/hcm-console/internal/assets"
	"github.com/iota-uz/hcm-console/internal/server"
	"github.com/iota-uz/hcm-console/modules"
	"github.com/iota-uz/hcm-console/modules/logging"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/configuration"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	pkglogging "github.com/iota-uz/hcm-console/pkg/logging"
	"github.com/iota-uz/hcm-console/pkg/metrics"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

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
	defer conf.Unload()
	logger := conf.Logger()

	// Set up OpenTelemetry if enabled
	if conf.OpenTelemetry.Enabled {
		tracingCleanup := pkglogging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store, err := storage.Open(ctx, conf)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	defer func() { _ = store.Close() }()

	pool, err := activityPool(ctx, conf, logger)
	if err != nil {
		log.Fatalf("failed to open activity log database: %v", err)
	}
	if pool != nil {
		defer pool.Close()
	}

	bulkMode, err := bulk.ParseMode(conf.Session.BulkMode)
	if err != nil {
		log.Fatalf("invalid bulk mode: %v", err)
	}

	bus := eventbus.New(logger)
	app := application.New(&application.ApplicationOptions{
		Bundle:   application.LoadBundle(),
		EventBus: bus,
		Huber: application.NewHub(&application.HubOptions{
			Logger: logger,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}),
	})

	client, err := backend.NewClient(conf.Backend.URL, backend.Options{
		Timeout:         conf.Backend.Timeout,
		RequestIDHeader: conf.RequestIDHeader,
		Logger:          logger,
		EventBus:        bus,
	})
	if err != nil {
		log.Fatalf("invalid backend url: %v", err)
	}
	sessionService := sessions.NewSessionService(client, store, bus, sessions.Options{
		IdleTTL: conf.Session.IdleTTL,
		Logger:  logger,
	})
	defer sessionService.Close()

	if err := modules.Load(app, modules.BuiltInModules(&modules.Options{
		Sessions:        sessionService,
		Pool:            pool,
		ActivityLimit:   conf.ActivityLog.Limit,
		BulkMode:        bulkMode,
		MaxUploadSize:   conf.MaxUploadSize,
		MaxUploadMemory: conf.MaxUploadMemory,
		Assets:          internalassets.FS,
		Production:      conf.GoAppEnvironment == configuration.Production,
		Version:         version,
		Logger:          logger,
	})...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path, metrics.WithLogger(logger)))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Entrypoint:    "server",
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("Listening on: %s\n", conf.Origin)
		errs <- serverInstance.Start(conf.SocketAddress)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case sig := <-stop:
		logger.WithField("signal", sig.String()).Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := serverInstance.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("graceful shutdown failed")
		}
	}
}

// activityPool migrates the activity_logs schema and connects to PostgreSQL
// when the activity log is kept there.
func activityPool(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) (*pgxpool.Pool, error) {
	if conf.ActivityLog.Store != "postgres" {
		return nil, nil
	}
	applied, err := logging.Migrate(ctx, conf.Database.Opts)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, err
	}
	logger.WithField("applied", applied).Info("activity log stored in PostgreSQL")
	return pool, nil
}
