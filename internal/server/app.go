// Package server wires the configured storage backends, the login and vault
// services and the HTTP API, and runs them until the process is signalled.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/shadowshield/internal/cryptox"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/anomaly"
	"github.com/dmitrijs2005/shadowshield/internal/server/auth"
	"github.com/dmitrijs2005/shadowshield/internal/server/config"
	"github.com/dmitrijs2005/shadowshield/internal/server/httpapi"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shadowshield/internal/server/services"
)

var logOutput io.Writer = os.Stdout

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	handler http.Handler
}

// NewApp prepares storage, making sure the behavior profile and the vault
// key exist before any request is served.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(logOutput, level)

	rm, err := repomanager.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, rm)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if err := rm.Profiles().Ensure(ctx); err != nil {
		return nil, fmt.Errorf("profile init error: %w", err)
	}

	km := services.NewKeyManager(rm.Keys(), logger)
	key, err := km.EnsureKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("vault key init error: %w", err)
	}
	logger.Info(ctx, "Vault key ready", "fingerprint", cryptox.Fingerprint(key))

	blobs, err := repomanager.NewBlobRepository(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("vault storage init error: %w", err)
	}

	verifier, err := auth.NewStaticVerifier(c.Username, c.Password)
	if err != nil {
		return nil, fmt.Errorf("credential init error: %w", err)
	}

	engine := anomaly.NewEngine(c.KeystrokeThreshold, c.KeystrokeKeys)
	ls := services.NewLoginService(verifier, rm.Profiles(), engine, logger)
	vs := services.NewVaultService(blobs, km, logger)

	h := httpapi.NewHandler(ls, vs, c.MaxUploadSize, logger)

	return &App{
		config:  c,
		logger:  logger,
		repos:   rm,
		handler: httpapi.NewServeMux(h, logger),
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.handler, app.config.ShutdownTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the storage handles.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
