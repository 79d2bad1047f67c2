// Package screens содержит контроллеры экранов клиента: вход, регистрация,
// главная, молоко, история платежей, добавление платежа и счета.
//
// Контроллер не рисует интерфейс. Он хранит состояние экрана, выполняет загрузки
// через fetch.Loader и сообщает об ошибках через Alerter. Все загрузки привязаны
// ко времени жизни экрана: после Unmount результаты отбрасываются.
package screens

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/credstore"
	"github.com/magabrotheeeer/milk-customer/internal/fetch"
)

// ErrNotMounted возвращается действиями экрана, который не смонтирован.
var ErrNotMounted = errors.New("screens: screen is not mounted")

// ErrSubmitting возвращается повторной отправкой формы, пока первая в полёте.
var ErrSubmitting = errors.New("screens: submission already in progress")

// API вызовы бэкенда, которые нужны экранам.
type API interface {
	Signup(ctx context.Context, req api.SignupRequest) (*api.SignupResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	DashboardStats(ctx context.Context, date string) (*api.DashboardStatsResponse, error)
	PaymentHistory(ctx context.Context) (*api.PaymentHistoryResponse, error)
	AddPayment(ctx context.Context, p api.PaymentSubmission) (*api.AddPaymentResponse, error)
	MilkCollection(ctx context.Context, date string) (*api.MilkCollectionResponse, error)
	Bills(ctx context.Context) (*api.BillsResponse, error)
}

// Alerter показывает пользователю блокирующее сообщение.
type Alerter interface {
	Alert(title, message string)
}

// Router принимает от экранов сигналы навигации.
type Router interface {
	LoggedIn(ctx context.Context)
	LoggedOut(ctx context.Context)
	Back(ctx context.Context)
}

// Screen жизненный цикл экрана, которым управляет навигация.
type Screen interface {
	Mount(ctx context.Context)
	Unmount()
	// Focus вызывается при каждом входе на экран; экраны с данными перезагружают их.
	Focus(ctx context.Context) error
}

// Deps зависимости, общие для всех экранов.
type Deps struct {
	API     API
	Store   credstore.Store
	Alerter Alerter
	Router  Router
	Log     *slog.Logger
	// Now источник текущего времени; nil означает time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RejectedError бэкенд ответил result != "success".
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func rejected(msg, fallback string) error {
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	return &RejectedError{Message: msg}
}

// silent ошибки, о которых пользователю не сообщают: экран ушёл или загрузка заменена.
func silent(err error) bool {
	return errors.Is(err, fetch.ErrClosed) ||
		errors.Is(err, fetch.ErrSuperseded) ||
		errors.Is(err, context.Canceled)
}

// fail показывает ошибку загрузки: сообщение сервера, текст ошибки или fallback.
func (d Deps) fail(err error, title, fallback string) {
	if err == nil || silent(err) {
		return
	}
	d.Alerter.Alert(title, api.ErrorMessage(err, fallback))
}

// lifetime время жизни смонтированного экрана.
type lifetime struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifetime) mount(parent context.Context) context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	return l.ctx
}

func (l *lifetime) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.ctx = nil
}

func (l *lifetime) mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx != nil && l.ctx.Err() == nil
}

// bind возвращает ctx, который отменяется также при размонтировании экрана.
func (l *lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	l.mu.Lock()
	life := l.ctx
	l.mu.Unlock()

	bound, cancel := context.WithCancel(ctx)
	if life == nil {
		cancel()
		return bound, cancel
	}
	stop := context.AfterFunc(life, cancel)
	return bound, func() {
		stop()
		cancel()
	}
}

// logChanges возвращает обработчик смены состояния загрузчика для отладочного лога.
func logChanges[T any](log *slog.Logger, screen string) func(fetch.Snapshot[T]) {
	return func(s fetch.Snapshot[T]) {
		log.Debug("screen state changed",
			slog.String("screen", screen),
			slog.String("state", s.State.String()),
		)
	}
}

// Tone цветовая тональность статуса платежа.
type Tone int

// Тональности статусов.
const (
	ToneOther Tone = iota
	ToneApproved
	TonePending
)

// StatusTone сопоставляет статус платежа тональности.
func StatusTone(status string) Tone {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved":
		return ToneApproved
	case "pending":
		return TonePending
	default:
		return ToneOther
	}
}
