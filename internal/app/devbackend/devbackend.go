package devbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/milk-customer/internal/cache"
	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/jwt"
	"github.com/magabrotheeeer/milk-customer/internal/lib/password"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/services/dairy"
	"github.com/magabrotheeeer/milk-customer/internal/services/scheduler"
	"github.com/magabrotheeeer/milk-customer/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер dev-бэкенда.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	cache     *cache.Cache
	scheduler *scheduler.BillingScheduler
}

// New собирает хранилище, сервис и маршруты. Кеш подключается, если задан его адрес.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "devbackend.New"
	srvCfg := cfg.DevServer

	var (
		cacheRedis *cache.Cache
		svcCache   dairy.Cache
	)
	if srvCfg.Cache.AddressRedis != "" {
		c, err := cache.New(ctx, srvCfg.Cache)
		if err != nil {
			return nil, err
		}
		cacheRedis, svcCache = c, c
		logger.Info("response cache enabled", slog.String("address", srvCfg.Cache.AddressRedis))
	}

	maker := jwt.NewMaker(srvCfg.JWTSecretKey, srvCfg.TokenTTL)
	service := dairy.New(storage.New(), maker, password.NewHasher(0), svcCache, srvCfg.CacheTTL, logger)

	limit := rate.Inf
	if srvCfg.RateLimit > 0 {
		limit = rate.Limit(srvCfg.RateLimit)
	}
	limiter := rate.NewLimiter(limit, max(srvCfg.RateBurst, 1))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, maker, limiter, prometheus.NewRegistry())

	srv := &http.Server{
		Addr:         srvCfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  srvCfg.TimeoutHTTP,
		WriteTimeout: srvCfg.TimeoutHTTP,
		IdleTimeout:  srvCfg.IdleTimeout,
	}

	logger.Debug("dev backend assembled", sl.Op(op), slog.String("address", srv.Addr))
	return &App{
		server:    srv,
		logger:    logger,
		cache:     cacheRedis,
		scheduler: scheduler.New(service, srvCfg.BillingInterval, logger),
	}, nil
}

// Handler корневой обработчик сервера.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go a.scheduler.Run(schedCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", sl.Err(err))
	}
}
