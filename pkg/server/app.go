package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	domrepo "TrueArk/internal/domain/repository"
	"TrueArk/internal/service/ratelimit"
	"TrueArk/pkg/cache"
	pkgch "TrueArk/pkg/clickhouse"
	"TrueArk/pkg/config"
	xhttp "TrueArk/pkg/http"
	applogger "TrueArk/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	logger   *applogger.Logger
	eph      domrepo.Ephemeris
	store    domrepo.ChartStore
	pub      domrepo.ChartPublisher
	cache    cache.Service
	chClient *pkgch.Client
	limiter  *ratelimit.Limiter
	handlers []xhttp.Handler

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	eph domrepo.Ephemeris,
	store domrepo.ChartStore,
	pub domrepo.ChartPublisher,
	c cache.Service,
	chClient *pkgch.Client,
	limiter *ratelimit.Limiter,
	handlers []xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		eph:      eph,
		store:    store,
		pub:      pub,
		cache:    c,
		chClient: chClient,
		limiter:  limiter,
		handlers: handlers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.store != nil {
		if err := a.store.Init(ctx); err != nil {
			return err
		}
	}

	a.httpServer = xhttp.NewServer(multiHandler(a.handlers),
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(a.cfg.Server.CORS),
		xhttp.WithLogger(a.logger),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("ephemeris_mode", a.eph.Mode()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops the server and releases infrastructure clients.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.limiter != nil {
		_ = a.limiter.Close()
	}
	if err := a.eph.Close(); err != nil {
		a.logger.Warn("ephemeris close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}

// multiHandler registers several handlers as one.
type multiHandler []xhttp.Handler

func (m multiHandler) RegisterRoutes(e *echo.Echo) {
	for _, h := range m {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}
