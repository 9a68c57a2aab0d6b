// Package server wires configuration, storage, services and the HTTP and
// gRPC listeners into one process and runs them until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/logging"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/config"
	"github.com/dmitrijs2005/studentrecords/internal/server/github"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studentrecords/internal/server/services"

	gs "github.com/dmitrijs2005/studentrecords/internal/server/grpc"
	hs "github.com/dmitrijs2005/studentrecords/internal/server/http"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *hs.Server
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, c.DatabaseDSN, dbx.DefaultRetryPolicy, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenService(c.SecretKey, c.AccessTokenValidityDuration)

	h := hs.NewHandler(hs.Deps{
		Auth:        services.NewAuthService(db, rm, tokens),
		OAuth:       services.NewOAuthService(db, rm, tokens, github.NewClient(c)),
		Students:    services.NewStudentService(db, rm),
		Courses:     services.NewCourseService(db, rm),
		Tokens:      tokens,
		Logger:      logger,
		Development: c.IsDevelopment(),
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http:   hs.NewServer(c.EndpointAddrHTTP, h, logger),
		health: gs.NewHealthServer(c.EndpointAddrGRPC, logger, db),
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

// run starts one listener; a failure stops the whole app.
func (app *App) run(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.run(ctx, cancelFunc, "http", app.http.Run)
	}()
	go func() {
		defer wg.Done()
		app.run(ctx, cancelFunc, "grpc", app.health.Run)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
