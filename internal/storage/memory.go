// Package storage хранит данные dev-бэкенда в памяти процесса.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/models"
)

var (
	// ErrCustomerExists покупатель с таким телефоном уже зарегистрирован.
	ErrCustomerExists = errors.New("customer already exists")
	// ErrCustomerNotFound покупатель не найден.
	ErrCustomerNotFound = errors.New("customer not found")
)

// Storage потокобезопасное хранилище в памяти.
type Storage struct {
	mu        sync.RWMutex
	seq       int64
	customers map[string]models.Customer
	milk      map[string][]models.MilkRecord
	payments  map[string][]models.Payment
	bills     map[string][]models.Bill
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		customers: map[string]models.Customer{},
		milk:      map[string][]models.MilkRecord{},
		payments:  map[string][]models.Payment{},
		bills:     map[string][]models.Bill{},
	}
}

func (s *Storage) nextID() int64 {
	s.seq++
	return s.seq
}

// CreateCustomer добавляет покупателя.
func (s *Storage) CreateCustomer(_ context.Context, c models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.Phone]; ok {
		return ErrCustomerExists
	}
	s.customers[c.Phone] = c
	return nil
}

// CustomerByPhone ищет покупателя по телефону.
func (s *Storage) CustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[phone]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

// Phones телефоны всех покупателей по возрастанию.
func (s *Storage) Phones(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.customers))
	for phone := range s.customers {
		out = append(out, phone)
	}
	sort.Strings(out)
	return out, nil
}

// AddMilkRecords сохраняет записи о сдаче молока, назначая им id.
func (s *Storage) AddMilkRecords(_ context.Context, phone string, records []models.MilkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		r.ID = s.nextID()
		r.Phone = phone
		s.milk[phone] = append(s.milk[phone], r)
	}
	return nil
}

// MilkRecords записи покупателя с датой в [from, to), по возрастанию даты.
func (s *Storage) MilkRecords(_ context.Context, phone string, from, to time.Time) ([]models.MilkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MilkRecord
	for _, r := range s.milk[phone] {
		if !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// CreatePayment сохраняет платёж и возвращает его id.
func (s *Storage) CreatePayment(_ context.Context, p models.Payment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID()
	s.payments[p.Phone] = append(s.payments[p.Phone], p)
	return p.ID, nil
}

// Payments платежи покупателя, новые первыми.
func (s *Storage) Payments(_ context.Context, phone string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.Payment(nil), s.payments[phone]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// AddBills сохраняет счета, назначая им id.
func (s *Storage) AddBills(_ context.Context, phone string, bills []models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bills {
		b.ID = s.nextID()
		b.Phone = phone
		s.bills[phone] = append(s.bills[phone], b)
	}
	return nil
}

// Bills счета покупателя, новые первыми.
func (s *Storage) Bills(_ context.Context, phone string) ([]models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.Bill(nil), s.bills[phone]...)
	sort.Slice(out, func(i, j int) bool { return out[i].From.After(out[j].From) })
	return out, nil
}
