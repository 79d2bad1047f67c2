// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов dev-бэкенда. Клиент ожидает поле result
// со значением "success" или "error" и необязательное сообщение.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

const (
	// ResultSuccess значение result для успешного ответа.
	ResultSuccess = "success"
	// ResultError значение result для ответа с ошибкой.
	ResultError = "error"
)

// Response стандартная структура JSON-ответа.
type Response struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success возвращает успешный Response с данными.
func Success(data any) Response {
	return Response{
		Result: ResultSuccess,
		Data:   data,
	}
}

// Message возвращает успешный Response с сообщением.
func Message(msg string) Response {
	return Response{
		Result:  ResultSuccess,
		Message: msg,
	}
}

// Error возвращает Response с ошибкой.
func Error(msg string) Response {
	return Response{
		Result:  ResultError,
		Message: msg,
	}
}

// ValidationError формирует Response с ошибкой из ошибок валидации.
// Нарушения объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "pkphone":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid phone number", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}
