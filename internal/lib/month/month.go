// Package month содержит арифметику календарных месяцев и текстовые форматы дат,
// которые ожидает бэкенд: YYYY-MM для помесячных запросов и YYYY-MM-DD для даты платежа.
package month

import (
	"fmt"
	"time"
)

const (
	paramLayout   = "2006-01"
	dateLayout    = "2006-01-02"
	displayLayout = "02/01/2006"
)

var (
	// Min самый ранний месяц, который можно выбрать.
	Min = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	// Max самый поздний месяц, который можно выбрать.
	Max = time.Date(2035, time.December, 1, 0, 0, 0, 0, time.UTC)
)

// Start возвращает первое число месяца, в который попадает t.
func Start(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Previous возвращает первое число календарного месяца, предшествующего месяцу t.
func Previous(t time.Time) time.Time {
	// AddDate от первого числа не перескакивает через месяц
	return Start(t).AddDate(0, -1, 0)
}

// Param форматирует месяц как YYYY-MM.
func Param(t time.Time) string {
	return t.Format(paramLayout)
}

// Parse разбирает строку YYYY-MM.
func Parse(s string) (time.Time, error) {
	const op = "month.Parse"
	t, err := time.Parse(paramLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DateParam форматирует дату как YYYY-MM-DD вне зависимости от локали.
func DateParam(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate разбирает строку YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	const op = "month.ParseDate"
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DisplayDate форматирует дату как DD/MM/YYYY.
func DisplayDate(t time.Time) string {
	return t.Format(displayLayout)
}

// Label двухстрочная подпись месяца: "January\n2026".
func Label(t time.Time) string {
	return fmt.Sprintf("%s\n%d", t.Month(), t.Year())
}

// Title однострочная подпись месяца: "January 2026".
func Title(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}

// Clamp ограничивает месяц диапазоном [Min, Max].
func Clamp(t time.Time) time.Time {
	t = Start(t)
	if t.Before(Min) {
		return Min
	}
	if t.After(Max) {
		return Max
	}
	return t
}
