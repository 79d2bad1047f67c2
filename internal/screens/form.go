package screens

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/milk-customer/internal/lib/phone"
)

// Поля форм, для которых возвращаются ошибки.
const (
	FieldName     = "Name"
	FieldPhone    = "Phone"
	FieldPassword = "Password"
	FieldConfirm  = "Confirm"
	FieldAmount   = "Amount"
	FieldMethod   = "Method"
)

// FieldErrors ошибки валидации формы по полям. Запрос при них не отправляется.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, ", ")
}

// AsFieldErrors извлекает FieldErrors из err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var fieldMessages = map[string]map[string]string{
	FieldName: {
		"required": "Full name is required",
	},
	FieldPhone: {
		"required": "Phone number is required",
		"pkphone":  "Enter valid phone (03xx xxxxxxx)",
	},
	FieldPassword: {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters",
	},
	FieldConfirm: {
		"required": "Confirm password is required",
		"eqfield":  "Passwords do not match",
	},
}

type loginForm struct {
	Phone    string `validate:"required,pkphone"`
	Password string `validate:"required,min=6"`
}

type signupForm struct {
	Name     string `validate:"required"`
	Phone    string `validate:"required,pkphone"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// регистрация может упасть только при пустом имени тега
	_ = phone.Register(v)
	return v
}

// check проверяет форму и переводит нарушения в сообщения для пользователя.
func check(v *validator.Validate, form any) FieldErrors {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		if _, ok := out[fe.Field()]; ok {
			continue
		}
		msg, ok := fieldMessages[fe.Field()][fe.ActualTag()]
		if !ok {
			msg = fe.Field() + " is not valid"
		}
		out[fe.Field()] = msg
	}
	return out
}
