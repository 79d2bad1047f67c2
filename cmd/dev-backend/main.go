// Package main содержит точку входа локального бэкенда молочной фермы.
//
// @title           Milk Customer Dev Backend API
// @version         1.0
// @description     Локальный бэкенд молочной фермы для разработки клиента покупателя

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/milk-customer/internal/app/devbackend"
	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/logger"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stdout)

	log.Info("starting dev-backend", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := devbackend.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize dev-backend", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("dev-backend stopped with error", sl.Err(err))
		os.Exit(1)
	}
	log.Info("dev-backend stopped")
}
