// Package dairy бизнес-логика dev-бэкенда: регистрация и вход покупателей,
// сдача молока, платежи и счета.
package dairy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/models"
	"github.com/magabrotheeeer/milk-customer/internal/storage"
)

// Статусы платежей и счетов.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusPartial  = "partial"
	StatusUnpaid   = "unpaid"
)

var (
	// ErrPhoneTaken телефон уже зарегистрирован.
	ErrPhoneTaken = errors.New("phone number already registered")
	// ErrInvalidCredentials неверный телефон или пароль.
	ErrInvalidCredentials = errors.New("invalid phone number or password")
)

// Repository хранилище данных фермы.
type Repository interface {
	CreateCustomer(ctx context.Context, c models.Customer) error
	CustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Phones(ctx context.Context) ([]string, error)
	AddMilkRecords(ctx context.Context, phone string, records []models.MilkRecord) error
	MilkRecords(ctx context.Context, phone string, from, to time.Time) ([]models.MilkRecord, error)
	CreatePayment(ctx context.Context, p models.Payment) (int64, error)
	Payments(ctx context.Context, phone string) ([]models.Payment, error)
	AddBills(ctx context.Context, phone string, bills []models.Bill) error
	Bills(ctx context.Context, phone string) ([]models.Bill, error)
}

// TokenMaker выпускает токены доступа.
type TokenMaker interface {
	GenerateToken(phone, username string) (string, error)
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Cache кеш ответов. Может отсутствовать.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service бизнес-логика фермы.
type Service struct {
	repo     Repository
	tokens   TokenMaker
	hasher   Hasher
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service. cache может быть nil.
func New(repo Repository, tokens TokenMaker, hasher Hasher, cache Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		hasher:   hasher,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

// NewPayment платёж, присланный клиентом.
type NewPayment struct {
	Amount float64
	Method string
	Status string
	Date   time.Time
	Note   string
}

// Register создаёт покупателя и заполняет демонстрационную историю сдачи молока.
func (s *Service) Register(ctx context.Context, username, phone, password string) (*models.User, error) {
	const op = "services.dairy.Register"
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c := models.Customer{
		UUID:         uuid.NewString(),
		Username:     username,
		Phone:        phone,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, storage.ErrCustomerExists) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.seed(ctx, phone); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("customer registered", sl.Op(op), slog.String("uuid", c.UUID))
	return userOf(c), nil
}

// Login проверяет пароль и выпускает токен.
func (s *Service) Login(ctx context.Context, phone, password string) (string, *models.User, error) {
	const op = "services.dairy.Login"
	c, err := s.repo.CustomerByPhone(ctx, phone)
	if errors.Is(err, storage.ErrCustomerNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hasher.Compare(c.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.GenerateToken(c.Phone, c.Username)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, userOf(*c), nil
}

// DashboardStats итог сдачи молока за месяц.
func (s *Service) DashboardStats(ctx context.Context, phone string, m time.Time) (models.DashboardStats, error) {
	const op = "services.dairy.DashboardStats"
	key := fmt.Sprintf("dashboard:%s:%s", phone, month.Param(m))

	var stats models.DashboardStats
	if s.cached(ctx, key, &stats) {
		return stats, nil
	}
	records, err := s.monthRecords(ctx, phone, m)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats = summarize(records)
	s.store(ctx, key, stats)
	return stats, nil
}

// MilkCollection ежедневные записи за месяц с итогом.
func (s *Service) MilkCollection(ctx context.Context, phone string, m time.Time) (models.MilkCollection, error) {
	const op = "services.dairy.MilkCollection"
	records, err := s.monthRecords(ctx, phone, m)
	if err != nil {
		return models.MilkCollection{}, fmt.Errorf("%s: %w", op, err)
	}
	bills, err := s.Bills(ctx, phone)
	if err != nil {
		return models.MilkCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	out := models.MilkCollection{
		Month:   month.Title(m),
		Summary: summarize(records),
		History: make([]models.MilkEntry, 0, len(records)),
	}
	for _, r := range records {
		out.History = append(out.History, models.MilkEntry{
			ID:            r.ID,
			Date:          month.DateParam(r.Date),
			DisplayDate:   month.DisplayDate(r.Date),
			Quantity:      r.Quantity,
			TotalAmount:   round(r.Quantity * r.Rate),
			PaymentStatus: recordStatus(r.Date, bills),
		})
	}
	return out, nil
}

// PaymentHistory сводка и список платежей, новые первыми.
func (s *Service) PaymentHistory(ctx context.Context, phone string) (models.PaymentHistory, error) {
	const op = "services.dairy.PaymentHistory"
	key := "payments:" + phone

	var out models.PaymentHistory
	if s.cached(ctx, key, &out) {
		return out, nil
	}
	payments, err := s.repo.Payments(ctx, phone)
	if err != nil {
		return models.PaymentHistory{}, fmt.Errorf("%s: %w", op, err)
	}

	out.Payments = make([]models.PaymentEntry, 0, len(payments))
	for _, p := range payments {
		switch p.Status {
		case StatusApproved:
			out.Summary.ApprovedAmount += p.Amount
		case StatusPending:
			out.Summary.PendingAmount += p.Amount
		}
		entry := models.PaymentEntry{
			ID:            p.ID,
			Amount:        p.Amount,
			PaymentMethod: p.Method,
			PaymentStatus: p.Status,
			PaymentDate:   month.DateParam(p.Date),
			DisplayDate:   month.DisplayDate(p.Date),
		}
		if p.Note != "" {
			note := p.Note
			entry.Note = &note
		}
		out.Payments = append(out.Payments, entry)
	}
	out.Summary.TotalPayments = len(payments)
	s.store(ctx, key, out)
	return out, nil
}

// AddPayment сохраняет платёж и сбрасывает кеш истории платежей.
func (s *Service) AddPayment(ctx context.Context, phone string, p NewPayment) (int64, error) {
	const op = "services.dairy.AddPayment"
	id, err := s.repo.CreatePayment(ctx, models.Payment{
		Phone:     phone,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		Date:      p.Date,
		Note:      strings.TrimSpace(p.Note),
		CreatedAt: s.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "payments:"+phone); err != nil {
			s.log.Warn("failed to invalidate cache", sl.Op(op), sl.Err(err))
		}
	}
	s.log.Info("payment added", sl.Op(op), slog.Int64("id", id), slog.Float64("amount", p.Amount))
	return id, nil
}

// Bills счета с оплаченной суммой. Платёж относится к счёту, если его
// примечание начинается с "Bill #<id> ".
func (s *Service) Bills(ctx context.Context, phone string) ([]models.BillEntry, error) {
	const op = "services.dairy.Bills"
	bills, err := s.repo.Bills(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payments, err := s.repo.Payments(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.BillEntry, 0, len(bills))
	for _, b := range bills {
		prefix := fmt.Sprintf("Bill #%d ", b.ID)
		var paid float64
		for _, p := range payments {
			if p.Status == StatusApproved && strings.HasPrefix(p.Note, prefix) {
				paid += p.Amount
			}
		}
		due := round(b.Total - paid)
		if due < 0 {
			due = 0
		}
		status := StatusUnpaid
		switch {
		case due == 0:
			status = StatusPaid
		case paid > 0:
			status = StatusPartial
		}
		out = append(out, models.BillEntry{
			ID:          b.ID,
			FromDate:    month.DateParam(b.From),
			ToDate:      month.DateParam(b.To),
			TotalAmount: b.Total,
			PaidAmount:  round(paid),
			DueAmount:   due,
			Status:      status,
		})
	}
	return out, nil
}

func (s *Service) monthRecords(ctx context.Context, phone string, m time.Time) ([]models.MilkRecord, error) {
	start := month.Start(m)
	return s.repo.MilkRecords(ctx, phone, start, start.AddDate(0, 1, 0))
}

func (s *Service) cached(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, out)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", slog.String("key", key), sl.Err(err))
	}
}

func userOf(c models.Customer) *models.User {
	return &models.User{UUID: c.UUID, Username: c.Username, PhoneNumber: c.Phone}
}

func summarize(records []models.MilkRecord) models.DashboardStats {
	var stats models.DashboardStats
	for _, r := range records {
		stats.TotalMilkSold += r.Quantity
		stats.GrandTotal += r.Quantity * r.Rate
	}
	stats.TotalMilkSold = round(stats.TotalMilkSold)
	stats.GrandTotal = round(stats.GrandTotal)
	return stats
}

// recordStatus статус записи по счёту, в период которого она попадает.
func recordStatus(day time.Time, bills []models.BillEntry) string {
	d := month.DateParam(day)
	for _, b := range bills {
		if d >= b.FromDate && d <= b.ToDate {
			if b.Status == StatusPaid {
				return StatusPaid
			}
			return StatusUnpaid
		}
	}
	return StatusPending
}

func round(v float64) float64 {
	const scale = 100
	if v < 0 {
		return -round(-v)
	}
	return float64(int64(v*scale+0.5)) / scale
}
