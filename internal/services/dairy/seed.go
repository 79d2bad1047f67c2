package dairy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/models"
)

// RatePerLitre цена литра молока в демонстрационных данных.
const RatePerLitre = 220.0

// seedMonths сколько месяцев истории, включая текущий, получает новый покупатель.
const seedMonths = 3

// seed заполняет историю нового покупателя с начала окна в seedMonths месяцев.
func (s *Service) seed(ctx context.Context, phone string) error {
	today := truncateDay(s.now())
	_, _, err := s.extend(ctx, phone, window(today), time.Time{})
	return err
}

// Advance дописывает всем покупателям ежедневную сдачу молока до вчерашнего
// дня и выставляет счета за завершившиеся половины месяцев.
// Повторный вызов в тот же день ничего не добавляет.
func (s *Service) Advance(ctx context.Context) (records, bills int, err error) {
	const op = "services.dairy.Advance"
	phones, err := s.repo.Phones(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	today := truncateDay(s.now())
	start := window(today)

	for _, phone := range phones {
		from := start
		existing, err := s.repo.MilkRecords(ctx, phone, start, today)
		if err != nil {
			return records, bills, fmt.Errorf("%s: %w", op, err)
		}
		if n := len(existing); n > 0 {
			from = truncateDay(existing[n-1].Date).AddDate(0, 0, 1)
		}

		var billedUntil time.Time
		issued, err := s.repo.Bills(ctx, phone)
		if err != nil {
			return records, bills, fmt.Errorf("%s: %w", op, err)
		}
		if len(issued) > 0 {
			billedUntil = issued[0].To
		}

		r, b, err := s.extend(ctx, phone, from, billedUntil)
		if err != nil {
			return records, bills, fmt.Errorf("%s: %w", op, err)
		}
		records += r
		bills += b
		if r > 0 {
			s.invalidateMonths(ctx, phone, from, today.AddDate(0, 0, -1))
		}
	}
	return records, bills, nil
}

// extend добавляет записи с from по вчерашний день и счета за периоды окна,
// закончившиеся до сегодня и после billedUntil.
func (s *Service) extend(ctx context.Context, phone string, from, billedUntil time.Time) (int, int, error) {
	today := truncateDay(s.now())

	var records []models.MilkRecord
	for d := from; d.Before(today); d = d.AddDate(0, 0, 1) {
		records = append(records, models.MilkRecord{
			Date:     d,
			Quantity: dailyQuantity(d),
			Rate:     RatePerLitre,
		})
	}
	if len(records) > 0 {
		if err := s.repo.AddMilkRecords(ctx, phone, records); err != nil {
			return 0, 0, fmt.Errorf("seed milk: %w", err)
		}
	}

	var bills []models.Bill
	for m := window(today); !m.After(month.Start(today)); m = m.AddDate(0, 1, 0) {
		for _, period := range halves(m) {
			if !period[1].Before(today) || !period[1].After(billedUntil) {
				continue
			}
			covered, err := s.repo.MilkRecords(ctx, phone, period[0], period[1].AddDate(0, 0, 1))
			if err != nil {
				return len(records), 0, fmt.Errorf("seed bills: %w", err)
			}
			var total float64
			for _, r := range covered {
				total += r.Quantity * r.Rate
			}
			bills = append(bills, models.Bill{From: period[0], To: period[1], Total: round(total)})
		}
	}
	if len(bills) > 0 {
		if err := s.repo.AddBills(ctx, phone, bills); err != nil {
			return len(records), 0, fmt.Errorf("seed bills: %w", err)
		}
	}
	return len(records), len(bills), nil
}

// invalidateMonths сбрасывает кеш дашборда за месяцы от from до to.
func (s *Service) invalidateMonths(ctx context.Context, phone string, from, to time.Time) {
	if s.cache == nil {
		return
	}
	var keys []string
	for m := month.Start(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		keys = append(keys, fmt.Sprintf("dashboard:%s:%s", phone, month.Param(m)))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Op("services.dairy.Advance"), slog.String("phone", phone), sl.Err(err))
	}
}

// window первое число месяца, с которого хранится демонстрационная история.
func window(today time.Time) time.Time {
	return month.Start(today).AddDate(0, -(seedMonths - 1), 0)
}

// dailyQuantity литры за день: от 8 до 10 с шагом 0.5.
func dailyQuantity(d time.Time) float64 {
	return 8 + float64(d.Day()%5)*0.5
}

// halves периоды 1-15 и 16-последний день месяца m.
func halves(m time.Time) [2][2]time.Time {
	start := month.Start(m)
	mid := start.AddDate(0, 0, 14)
	end := start.AddDate(0, 1, -1)
	return [2][2]time.Time{
		{start, mid},
		{mid.AddDate(0, 0, 1), end},
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
