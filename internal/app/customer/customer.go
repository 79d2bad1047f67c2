// Package customer собирает клиент покупателя: хранилище учётных данных,
// HTTP-клиент, вызовы API, экраны и навигацию.
package customer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/credstore"
	"github.com/magabrotheeeer/milk-customer/internal/httpclient"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/navigation"
	"github.com/magabrotheeeer/milk-customer/internal/screens"
	"github.com/magabrotheeeer/milk-customer/internal/session"
)

// UI показывает пользователю сообщения экранов и уведомление об истечении сессии.
type UI interface {
	screens.Alerter
	session.Notifier
}

// App собранный клиент.
type App struct {
	Store     credstore.Store
	Expiry    *session.Expiry
	API       *api.Client
	Navigator *navigation.Navigator
	Registry  *prometheus.Registry

	Login      *screens.Login
	Signup     *screens.Signup
	Home       *screens.Home
	Milk       *screens.Milk
	Payments   *screens.PaymentHistory
	Bills      *screens.Bills
	AddPayment *screens.AddPayment

	logger  *slog.Logger
	closers []func() error
}

// New собирает клиент по конфигу.
func New(ctx context.Context, cfg *config.Config, ui UI, logger *slog.Logger) (*App, error) {
	const op = "customer.New"

	a := &App{logger: logger, Registry: prometheus.NewRegistry()}

	store, err := a.openStore(ctx, cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.Store = store

	a.Expiry = session.NewExpiry(store, ui, logger)

	hc, err := httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		UserAgent: cfg.UserAgent,
	}, store, a.Expiry, httpclient.NewMetrics(a.Registry), logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.API = api.New(hc, logger)

	a.Navigator = navigation.New(store, logger)
	deps := screens.Deps{
		API:     a.API,
		Store:   store,
		Alerter: ui,
		Router:  a.Navigator,
		Log:     logger,
	}
	a.Login = screens.NewLogin(deps)
	a.Signup = screens.NewSignup(deps)
	a.Home = screens.NewHome(deps)
	a.Milk = screens.NewMilk(deps)
	a.Payments = screens.NewPaymentHistory(deps)
	a.Bills = screens.NewBills(deps)
	a.AddPayment = screens.NewAddPayment(deps)
	a.Navigator.Attach(navigation.Screens{
		Login:      a.Login,
		Signup:     a.Signup,
		Home:       a.Home,
		Milk:       a.Milk,
		Payments:   a.Payments,
		Bills:      a.Bills,
		AddPayment: a.AddPayment,
	})

	if cfg.LogoutOnExpiry {
		a.Navigator.LogoutOnExpiry(a.Expiry)
	}

	logger.Debug("customer client assembled",
		slog.String("base_url", cfg.BaseURL),
		slog.String("credentials", cfg.Backend),
	)
	return a, nil
}

// Close освобождает подключения хранилища.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	a.closers = nil
	return firstErr
}

// RequestTotals суммы клиентских счётчиков по именам метрик.
func (a *App) RequestTotals() (map[string]float64, error) {
	families, err := a.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("customer.RequestTotals: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "_total") {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		out[mf.GetName()] = sum
	}
	return out, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Credentials) (credstore.Store, error) {
	switch cfg.Backend {
	case "", "file":
		path := cfg.FilePath
		if path == "" {
			var err error
			if path, err = DefaultCredentialsPath(); err != nil {
				return nil, err
			}
		}
		return credstore.NewFile(path, a.logger), nil
	case "redis":
		store, err := credstore.NewRedis(ctx, cfg.RedisConnection, cfg.KeyPrefix, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", cfg.Backend)
	}
}

// DefaultCredentialsPath файл учётных данных в пользовательском каталоге конфигурации.
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("customer.DefaultCredentialsPath: %w", err)
	}
	return filepath.Join(dir, "milk-customer", "credentials.json"), nil
}
