package screens

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/fetch"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// EmptyPayments текст пустой истории платежей.
const EmptyPayments = "No payments found"

// StatusApproved статус, с которым клиент отправляет платежи.
const StatusApproved = "approved"

// PaymentMethods способы оплаты в порядке показа. Первый используется по умолчанию.
var PaymentMethods = []string{"Cash", "Bank Transfer", "JazzCash", "EasyPaisa"}

// PaymentHistoryView то, что показывает экран истории платежей.
type PaymentHistoryView struct {
	Summary  api.PaymentSummary
	Payments []api.Payment
	State    fetch.State
	Empty    string
}

// PaymentHistory экран сводки и истории платежей.
type PaymentHistory struct {
	deps Deps
	life lifetime

	mu     sync.Mutex
	loader *fetch.Loader[*api.PaymentHistoryData]
}

// NewPaymentHistory создаёт экран истории платежей.
func NewPaymentHistory(deps Deps) *PaymentHistory {
	return &PaymentHistory{deps: deps}
}

// Mount создаёт загрузчик, живущий до Unmount.
func (s *PaymentHistory) Mount(ctx context.Context) {
	life := s.life.mount(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.loader = fetch.New(life, s.fetch, logChanges[*api.PaymentHistoryData](s.deps.Log, "payments"))
}

// Unmount отменяет загрузки экрана.
func (s *PaymentHistory) Unmount() {
	s.mu.Lock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.mu.Unlock()
	s.life.unmount()
}

// Focus загружает историю заново.
func (s *PaymentHistory) Focus(ctx context.Context) error {
	return s.run(ctx, false)
}

// Refresh перезагружает историю, не скрывая текущий список.
func (s *PaymentHistory) Refresh(ctx context.Context) error {
	return s.run(ctx, true)
}

// View текущее состояние экрана.
func (s *PaymentHistory) View() PaymentHistoryView {
	s.mu.Lock()
	loader := s.loader
	s.mu.Unlock()

	var v PaymentHistoryView
	if loader == nil {
		return v
	}
	snap := loader.Snapshot()
	v.State = snap.State
	if snap.HasData && snap.Data != nil {
		v.Summary = snap.Data.Summary
		v.Payments = snap.Data.Payments
	}
	if snap.HasData && len(v.Payments) == 0 {
		v.Empty = EmptyPayments
	}
	return v
}

func (s *PaymentHistory) run(ctx context.Context, refresh bool) error {
	s.mu.Lock()
	loader := s.loader
	s.mu.Unlock()
	if loader == nil {
		return ErrNotMounted
	}

	var err error
	if refresh {
		_, err = loader.Refresh(ctx)
	} else {
		_, err = loader.Load(ctx)
	}
	s.deps.fail(err, "Error", "Something went wrong")
	return err
}

func (s *PaymentHistory) fetch(ctx context.Context) (*api.PaymentHistoryData, error) {
	resp, err := s.deps.API.PaymentHistory(ctx)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejected(resp.Message, "Failed to fetch payment history")
	}
	if resp.Data == nil {
		return &api.PaymentHistoryData{}, nil
	}
	return resp.Data, nil
}

// PaymentForm поля формы платежа.
type PaymentForm struct {
	Amount string
	Method string
	Date   time.Time
	Note   string
}

// AddPayment экран отправки платежа. Открывается поверх вкладок.
type AddPayment struct {
	deps Deps
	life lifetime

	mu     sync.Mutex
	form   PaymentForm
	errs   FieldErrors
	submit bool
}

// NewAddPayment создаёт экран отправки платежа.
func NewAddPayment(deps Deps) *AddPayment {
	return &AddPayment{deps: deps}
}

// Mount сбрасывает форму: способ Cash, дата сегодня.
func (s *AddPayment) Mount(ctx context.Context) {
	s.life.mount(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = defaultForm(s.deps.now())
	s.errs = nil
}

// Unmount отменяет отправку в полёте.
func (s *AddPayment) Unmount() { s.life.unmount() }

// Focus ничего не загружает.
func (s *AddPayment) Focus(context.Context) error { return nil }

// Form текущие значения формы.
func (s *AddPayment) Form() PaymentForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Errors ошибки полей после последней попытки.
func (s *AddPayment) Errors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// Submit отправляет платёж. Пустая сумма отклоняется без запроса.
// При успехе экран закрывается, и вкладка под ним перезагружает данные.
func (s *AddPayment) Submit(ctx context.Context, form PaymentForm) error {
	if !s.life.mounted() {
		return ErrNotMounted
	}

	s.mu.Lock()
	if s.submit {
		s.mu.Unlock()
		return ErrSubmitting
	}
	s.form = form
	s.submit = true
	s.mu.Unlock()

	reqCtx, cancel := s.life.bind(ctx)
	err := submitPayment(reqCtx, s.deps, form)
	cancel()

	s.mu.Lock()
	s.submit = false
	s.errs, _ = AsFieldErrors(err)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.deps.Router.Back(ctx)
	return nil
}

func defaultForm(now time.Time) PaymentForm {
	return PaymentForm{Method: PaymentMethods[0], Date: now}
}

// canonicalMethod находит способ оплаты без учёта регистра.
func canonicalMethod(method string) (string, bool) {
	for _, m := range PaymentMethods {
		if strings.EqualFold(m, strings.TrimSpace(method)) {
			return m, true
		}
	}
	return "", false
}

// submitPayment общая транзакция отправки для экрана платежа и оплаты счёта.
func submitPayment(ctx context.Context, deps Deps, form PaymentForm) error {
	const op = "screens.submitPayment"
	log := deps.Log.With(sl.Op(op))

	amount := strings.TrimSpace(form.Amount)
	if amount == "" {
		deps.Alerter.Alert("Validation", "Please enter amount")
		return FieldErrors{FieldAmount: "Please enter amount"}
	}
	method, ok := canonicalMethod(form.Method)
	if !ok {
		return FieldErrors{FieldMethod: "Select a payment method"}
	}
	date := form.Date
	if date.IsZero() {
		date = deps.now()
	}

	resp, err := deps.API.AddPayment(ctx, api.PaymentSubmission{
		Amount:        amount,
		PaymentMethod: strings.ToLower(method),
		PaymentStatus: StatusApproved,
		PaymentDate:   month.DateParam(date),
		Note:          strings.TrimSpace(form.Note),
	})
	if err != nil {
		log.Error("failed to submit payment", sl.Err(err))
		deps.fail(err, "Error", "Failed to submit payment")
		return err
	}
	if !resp.OK() {
		err := rejected(resp.Message, "Unable to submit payment")
		deps.Alerter.Alert("Failed", err.Error())
		return err
	}

	log.Info("payment submitted", slog.String("amount", amount), slog.String("method", method))
	return nil
}
