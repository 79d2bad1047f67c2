// Package main содержит терминальный клиент покупателя молочной фермы.
//
// Каждая подкоманда повторяет запуск приложения: навигатор выбирает поток по
// сохранённому токену, затем команда переходит на нужный экран и выводит его состояние.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr, log))
}
