package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaibs3/recipebook/internal/browse"
	"github.com/shaibs3/recipebook/internal/catalog"
	"github.com/shaibs3/recipebook/internal/config"
	"github.com/shaibs3/recipebook/internal/handlers"
	"github.com/shaibs3/recipebook/internal/media"
	"github.com/shaibs3/recipebook/internal/router"
	"github.com/shaibs3/recipebook/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App represents the main application
type App struct {
	config    *config.Config
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
	store     catalog.Store
	server    *http.Server
	serveErr  chan error
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	tel, err := telemetry.NewTelemetry(logger)
	if err != nil {
		return nil, err
	}

	// An empty config falls back to the in-memory store
	factory := catalog.NewStoreFactory(logger, tel)
	store, err := factory.CreateStore(cfg.CatalogDBConfig)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	handlerList, err := buildHandlers(ctx, cfg, store, tel, logger)
	if err != nil {
		_ = store.Close()
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RPSLimit), cfg.RPSBurst)
	appRouter := router.NewRouter(limiter, tel, logger, handlerList, router.WithCORSOrigin(cfg.CORSOrigin))
	server := appRouter.CreateServer(":" + cfg.Port)

	return &App{
		config:    cfg,
		logger:    logger,
		telemetry: tel,
		store:     store,
		server:    server,
		serveErr:  make(chan error, 1),
	}, nil
}

func buildHandlers(ctx context.Context, cfg *config.Config, store catalog.Store, tel *telemetry.Telemetry, logger *zap.Logger) ([]router.Handler, error) {
	mediaStore, err := media.NewStore(ctx, cfg.Media, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create media store: %w", err)
	}
	uploader, err := media.NewUploader(mediaStore, tel.Meter, logger)
	if err != nil {
		return nil, err
	}

	return []router.Handler{
		handlers.NewHealthHandler(store),
		handlers.NewBrowseHandler(store),
		handlers.NewRecipeHandler(store, uploader),
		handlers.NewUploadsHandler(uploader),
		browse.NewPageHandler(browse.NewClient(cfg.BrowseAPIURL, nil)),
	}, nil
}

// Handler returns the root HTTP handler
func (app *App) Handler() http.Handler {
	return app.server.Handler
}

// start binds the listener and serves in the background
func (app *App) start() error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.server.Addr, err)
	}
	app.logger.Info("starting server", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := app.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.serveErr <- err
		}
	}()

	return nil
}

// stop gracefully shuts down the server and releases the store
func (app *App) stop() error {
	app.logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var errs []error
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server forced to shutdown", zap.Error(err))
		errs = append(errs, err)
	}
	if err := app.store.Close(); err != nil {
		app.logger.Error("failed to close catalog store", zap.Error(err))
		errs = append(errs, err)
	}
	if err := app.telemetry.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("failed to shutdown telemetry", zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	app.logger.Info("server exited gracefully")
	return nil
}

// Run starts the application and waits for shutdown signals
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunContext(ctx)
}

// RunContext serves until ctx is done or the server fails
func (app *App) RunContext(ctx context.Context) error {
	if err := app.start(); err != nil {
		_ = app.store.Close()
		_ = app.telemetry.Shutdown(context.Background())
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-app.serveErr:
		app.logger.Error("server failed", zap.Error(serveErr))
	}

	if err := app.stop(); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}
