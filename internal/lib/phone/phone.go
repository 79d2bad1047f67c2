// Package phone проверка и нормализация пакистанских мобильных номеров
// (03xxxxxxxxx или +923xxxxxxxxx).
package phone

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator"
)

// Tag имя правила валидатора для номера телефона.
const Tag = "pkphone"

var re = regexp.MustCompile(`^(03\d{9}|\+923\d{9})$`)

// Normalize убирает из номера любые пробельные символы и дефисы.
func Normalize(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '\uFEFF' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

// Valid сообщает, что номер уже нормализован и имеет допустимый формат.
func Valid(phone string) bool {
	return re.MatchString(phone)
}

// Register добавляет правило Tag в валидатор.
func Register(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return Valid(fl.Field().String())
	})
}
