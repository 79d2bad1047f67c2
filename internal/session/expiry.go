// Package session управляет реакцией клиента на отказ бэкенда в авторизации (HTTP 401).
//
// Первый 401 атомарно переводит Expiry в состояние "уведомление показано",
// очищает токен и показывает одно уведомление. Остальные 401 до подтверждения пользователем подавляются.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

const (
	// AlertTitle заголовок уведомления об истечении сессии.
	AlertTitle = "Session Expired"
	// AlertMessage текст уведомления об истечении сессии.
	AlertMessage = "Your session has expired. Please log in again."
)

// Notifier показывает пользователю уведомление об истечении сессии.
// ack вызывается, когда пользователь закрыл уведомление; повторные вызовы ack игнорируются.
type Notifier interface {
	SessionExpired(ack func())
}

// TokenClearer удаляет сохранённый токен.
type TokenClearer interface {
	ClearToken(ctx context.Context) error
}

// Expiry хранит состояние уведомления об истечении сессии.
type Expiry struct {
	store    TokenClearer
	notifier Notifier
	log      *slog.Logger

	pending atomic.Bool

	mu        sync.Mutex
	listeners []func(ctx context.Context)
}

// NewExpiry создаёт Expiry.
func NewExpiry(store TokenClearer, notifier Notifier, log *slog.Logger) *Expiry {
	return &Expiry{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// TryBegin атомарно занимает право показать уведомление.
// Возвращает false, если уведомление уже ожидает подтверждения.
func (e *Expiry) TryBegin() bool {
	return e.pending.CompareAndSwap(false, true)
}

// Acknowledge сбрасывает состояние после того, как пользователь увидел уведомление.
func (e *Expiry) Acknowledge() {
	e.pending.Store(false)
}

// Pending сообщает, ожидает ли уведомление подтверждения.
func (e *Expiry) Pending() bool {
	return e.pending.Load()
}

// OnExpire регистрирует обработчик, который вызывается один раз на каждое показанное уведомление.
func (e *Expiry) OnExpire(fn func(ctx context.Context)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Expire обрабатывает отказ в авторизации. Возвращает true, если именно этот вызов
// очистил токен и показал уведомление.
func (e *Expiry) Expire(ctx context.Context) bool {
	const op = "session.Expire"
	if !e.TryBegin() {
		e.log.Debug("session expiry already pending, suppressed", sl.Op(op))
		return false
	}

	if err := e.store.ClearToken(ctx); err != nil {
		e.log.Error("failed to clear token", sl.Op(op), sl.Err(err))
	}

	e.mu.Lock()
	listeners := append([]func(context.Context){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(ctx)
	}

	e.log.Info("session expired", sl.Op(op))
	var once sync.Once
	e.notifier.SessionExpired(func() { once.Do(e.Acknowledge) })
	return true
}
