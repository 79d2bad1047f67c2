// Package devbackend локальный бэкенд молочной фермы для разработки клиента.
package devbackend

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/magabrotheeeer/milk-customer/docs"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/bills"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/milk"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/milk-customer/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/milk-customer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/milk-customer/internal/services/dairy"
)

// RegisterRoutes регистрирует все маршруты dev-бэкенда.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service *dairy.Service, parser middlewarectx.TokenParser, limiter *rate.Limiter, reg *prometheus.Registry) {
	metrics := middlewarectx.NewMetrics(reg)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/"+api.EndpointRegister, register.New(logger, service).ServeHTTP)
		r.Post("/"+api.EndpointLogin, login.New(logger, service).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(parser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/"+api.EndpointDashboard, dashboard.New(logger, service).ServeHTTP)
			r.Get("/"+api.EndpointMilkCollection, milk.New(logger, service).ServeHTTP)
			r.Get("/"+api.EndpointPaymentHistory, paymentlist.New(logger, service).ServeHTTP)
			r.Post("/"+api.EndpointPaymentHistory, paymentcreate.New(logger, service).ServeHTTP)
			r.Get("/"+api.EndpointBills, bills.New(logger, service).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
