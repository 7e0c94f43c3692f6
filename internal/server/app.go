// Package server wires the framekeeper server together: configuration,
// logging, the database, object storage, the services and both transports.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/framekeeper/internal/dbx"
	"github.com/dmitrijs2005/framekeeper/internal/logging"
	"github.com/dmitrijs2005/framekeeper/internal/server/config"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/framekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/framekeeper/internal/server/services"
	"github.com/dmitrijs2005/framekeeper/internal/server/web"

	gs "github.com/dmitrijs2005/framekeeper/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	registry       *prometheus.Registry
	userService    *services.UserService
	catalogService *services.CatalogService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	observer, err := objectstore.NewPrometheusObserver("", registry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	storage, err := objectstore.NewS3Storage(ctx, c, logger, observer)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		registry:       registry,
		userService:    services.NewUserService(db, rm, c),
		catalogService: services.NewCatalogService(db, rm, storage, c, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.catalogService, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.catalogService, app.config.SecretKey,
		web.Options{
			EnableCORS:    app.config.EnableCORS,
			Gatherer:      app.registry,
			MaxUploadSize: app.config.MaxUploadSizeBytes(),
		})
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until a signal arrives or one of them fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.catalogService.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close failed", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
