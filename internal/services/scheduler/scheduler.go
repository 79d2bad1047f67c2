// Package scheduler периодически продвигает данные dev-бэкенда:
// дописывает сдачу молока и выставляет счета за закрытые периоды.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// Advancer то, что умеет продвинуть данные до сегодняшнего дня.
type Advancer interface {
	Advance(ctx context.Context) (records, bills int, err error)
}

// defaultInterval используется, если интервал не задан.
const defaultInterval = time.Hour

// BillingScheduler запускает Advance сразу и далее по тикеру.
type BillingScheduler struct {
	svc      Advancer
	interval time.Duration
	log      *slog.Logger
}

// New создает новый экземпляр BillingScheduler.
func New(svc Advancer, interval time.Duration, log *slog.Logger) *BillingScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &BillingScheduler{
		svc:      svc,
		interval: interval,
		log:      log,
	}
}

// Run блокируется до отмены ctx.
func (s *BillingScheduler) Run(ctx context.Context) {
	s.runAdvance(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("billing scheduler stopped")
			return
		case <-ticker.C:
			s.runAdvance(ctx)
		}
	}
}

func (s *BillingScheduler) runAdvance(ctx context.Context) {
	const op = "services.scheduler.runAdvance"
	log := s.log.With(sl.Op(op))

	records, bills, err := s.svc.Advance(ctx)
	if err != nil {
		log.Error("failed to advance dairy data", sl.Err(err))
		return
	}
	if records == 0 && bills == 0 {
		log.Debug("nothing to advance")
		return
	}
	log.Info("dairy data advanced", slog.Int("records", records), slog.Int("bills", bills))
}
