// Package money форматирует денежные и весовые значения для вывода.
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format группирует разряды и оставляет не более трёх знаков после запятой:
// 12345 -> "12,345", 1234.5 -> "1,234.5".
func Format(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Decimal группирует разряды десятичной записи без округления:
// "1234567.891" -> "1,234,567.891". Запись с экспонентой форматируется через Format.
func Decimal(s string) string {
	sign, digits := "", s
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	intPart, frac, hasFrac := strings.Cut(digits, ".")
	if intPart == "" || strings.Trim(intPart, "0123456789") != "" || strings.Trim(frac, "0123456789") != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Format(f)
		}
		return s
	}

	var b strings.Builder
	b.WriteString(sign)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// RsDecimal форматирует сумму в рупиях из десятичной записи без округления: "Rs. 12,345".
func RsDecimal(s string) string {
	return "Rs. " + Decimal(s)
}
