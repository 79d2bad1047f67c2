package screens

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/fetch"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// EmptyBills текст пустого списка счетов.
const EmptyBills = "No bills found"

var (
	// ErrBillNotFound счёта с таким id нет в загруженном списке.
	ErrBillNotFound = errors.New("screens: bill not found")
	// ErrNoBillOpen оплата счёта без открытого окна оплаты.
	ErrNoBillOpen = errors.New("screens: no bill payment is open")
)

// BillNote примечание платежа по счёту.
func BillNote(b api.Bill) string {
	return fmt.Sprintf("Bill #%s (%s - %s)", b.ID, b.FromDate, b.ToDate)
}

// BillsView то, что показывает экран счетов.
type BillsView struct {
	Bills []api.Bill
	State fetch.State
	Empty string
	// Paying счёт, для которого открыто окно оплаты.
	Paying *api.Bill
}

// Bills экран счетов с окном оплаты счёта.
type Bills struct {
	deps Deps
	life lifetime

	mu     sync.Mutex
	loader *fetch.Loader[[]api.Bill]
	paying *api.Bill
	submit bool
}

// NewBills создаёт экран счетов.
func NewBills(deps Deps) *Bills {
	return &Bills{deps: deps}
}

// Mount создаёт загрузчик, живущий до Unmount.
func (s *Bills) Mount(ctx context.Context) {
	life := s.life.mount(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.paying = nil
	s.loader = fetch.New(life, s.fetch, logChanges[[]api.Bill](s.deps.Log, "bills"))
}

// Unmount отменяет загрузки и закрывает окно оплаты.
func (s *Bills) Unmount() {
	s.mu.Lock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.paying = nil
	s.mu.Unlock()
	s.life.unmount()
}

// Focus загружает список заново.
func (s *Bills) Focus(ctx context.Context) error {
	return s.run(ctx, false)
}

// Refresh перезагружает список, не скрывая текущий.
func (s *Bills) Refresh(ctx context.Context) error {
	return s.run(ctx, true)
}

// View текущее состояние экрана.
func (s *Bills) View() BillsView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var v BillsView
	if s.paying != nil {
		b := *s.paying
		v.Paying = &b
	}
	if s.loader == nil {
		return v
	}
	snap := s.loader.Snapshot()
	v.State = snap.State
	v.Bills = snap.Data
	if snap.HasData && len(v.Bills) == 0 {
		v.Empty = EmptyBills
	}
	return v
}

// Open открывает окно оплаты счёта id и возвращает форму с примечанием счёта.
func (s *Bills) Open(id string) (PaymentForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader == nil {
		return PaymentForm{}, ErrNotMounted
	}
	for _, b := range s.loader.Snapshot().Data {
		if string(b.ID) == id {
			bill := b
			s.paying = &bill
			form := defaultForm(s.deps.now())
			form.Note = BillNote(bill)
			return form, nil
		}
	}
	return PaymentForm{}, ErrBillNotFound
}

// Dismiss закрывает окно оплаты без отправки.
func (s *Bills) Dismiss() {
	s.mu.Lock()
	s.paying = nil
	s.mu.Unlock()
}

// Pay отправляет платёж по открытому счёту той же транзакцией, что и экран платежа.
// Примечание всегда ссылается на счёт. При успехе окно закрывается и список обновляется.
// Ошибка обновления списка показывается алертом и не делает платёж неуспешным.
func (s *Bills) Pay(ctx context.Context, form PaymentForm) error {
	const op = "screens.Bills.Pay"
	s.mu.Lock()
	if s.paying == nil {
		s.mu.Unlock()
		return ErrNoBillOpen
	}
	if s.submit {
		s.mu.Unlock()
		return ErrSubmitting
	}
	bill := *s.paying
	s.submit = true
	s.mu.Unlock()

	form.Note = BillNote(bill)
	reqCtx, cancel := s.life.bind(ctx)
	err := submitPayment(reqCtx, s.deps, form)
	cancel()

	s.mu.Lock()
	s.submit = false
	if err == nil {
		s.paying = nil
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.deps.Log.Warn("payment submitted, bills refresh failed", sl.Op(op), sl.Err(err))
	}
	return nil
}

func (s *Bills) run(ctx context.Context, refresh bool) error {
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

func (s *Bills) fetch(ctx context.Context) ([]api.Bill, error) {
	resp, err := s.deps.API.Bills(ctx)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejected(resp.Message, "Failed to fetch bills")
	}
	if resp.Data == nil {
		return []api.Bill{}, nil
	}
	return resp.Data, nil
}
