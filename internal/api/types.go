package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResultSuccess значение поля result в успешном ответе бэкенда.
const ResultSuccess = "success"

// Number числовое значение, которое бэкенд присылает числом или строкой.
// Хранит десятичную запись как пришла, поэтому большие суммы не теряют точность.
// null и пустая строка дают пустое значение (ноль), нечисловая строка даёт ошибку декодирования.
type Number string

// NumberOf десятичная запись f без лишних нулей.
func NumberOf(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = ""
			return nil
		}
		if !validNumber(s) {
			return fmt.Errorf("invalid number %q", s)
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	*n = Number(num)
	return nil
}

// Float возвращает значение как float64 для вычислений.
func (n Number) Float() float64 {
	if n == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(string(n), 64)
	return f
}

// String десятичная запись; пустое значение выводится как "0".
func (n Number) String() string {
	if n == "" {
		return "0"
	}
	return string(n)
}

// validNumber принимает только числовой литерал JSON.
func validNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// ID идентификатор записи: бэкенд присылает его числом или строкой.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null":
		*id = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("invalid id %s", b)
		}
		*id = ID(num.String())
	}
	return nil
}

// Envelope общие поля ответа: result и необязательное сообщение.
type Envelope struct {
	Result  string `json:"result" validate:"required"`
	Message string `json:"message,omitempty"`
}

// OK сообщает, что бэкенд вернул result == "success".
func (e Envelope) OK() bool {
	return e.Result == ResultSuccess
}

// SignupRequest данные регистрации.
type SignupRequest struct {
	PhoneNumber string
	Password    string
	Username    string
}

// SignupResponse ответ customer-register.
type SignupResponse struct {
	Envelope
}

// LoginRequest данные входа.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// LoginResponse ответ customer-login.
//
// Токен приходит в поле token или access_token, профиль в user или data.
type LoginResponse struct {
	Envelope
	Token string
	User  json.RawMessage
}

type loginWire struct {
	Envelope
	Token       string          `json:"token"`
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
	Data        json.RawMessage `json:"data"`
}

// DashboardStatsResponse ответ customer-dashboard.
type DashboardStatsResponse struct {
	Data *DashboardData `json:"data" validate:"required"`
}

// DashboardData помесячная статистика.
type DashboardData struct {
	TotalMilkSold Number `json:"total_milk_sold"`
	GrandTotal    Number `json:"grand_total"`
}

// PaymentHistoryResponse ответ GET customer-payment-history.
type PaymentHistoryResponse struct {
	Envelope
	Data *PaymentHistoryData `json:"data"`
}

// PaymentHistoryData сводка и список платежей.
type PaymentHistoryData struct {
	Summary  PaymentSummary `json:"summary"`
	Payments []Payment      `json:"payments"`
}

// PaymentSummary суммы по статусам платежей.
type PaymentSummary struct {
	ApprovedAmount Number `json:"approved_amount"`
	PendingAmount  Number `json:"pending_amount"`
	TotalPayments  Number `json:"total_payments"`
}

// Payment запись истории платежей.
type Payment struct {
	ID            ID      `json:"id"`
	Amount        Number  `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	PaymentDate   string  `json:"payment_date"`
	DisplayDate   string  `json:"display_date"`
	Note          *string `json:"note"`
}

// PaymentSubmission тело POST customer-payment-history.
// PaymentDate в формате YYYY-MM-DD; слой его не проверяет.
type PaymentSubmission struct {
	Amount        string
	PaymentMethod string
	PaymentStatus string
	PaymentDate   string
	Note          string
}

// AddPaymentResponse ответ POST customer-payment-history.
type AddPaymentResponse struct {
	Envelope
}

// MilkCollectionResponse ответ customer-milk-collection.
type MilkCollectionResponse struct {
	Envelope
	Data *MilkCollectionData `json:"data"`
}

// MilkCollectionData сводка и ежедневные записи за месяц.
type MilkCollectionData struct {
	Month   string       `json:"month"`
	Summary MilkSummary  `json:"summary"`
	History []MilkRecord `json:"history"`
}

// MilkSummary итог за месяц.
type MilkSummary struct {
	TotalMilkSold Number `json:"total_milk_sold"`
	GrandTotal    Number `json:"grand_total"`
}

// MilkRecord запись о сдаче молока за день.
type MilkRecord struct {
	ID            ID     `json:"id"`
	Date          string `json:"date"`
	DisplayDate   string `json:"display_date"`
	Quantity      Number `json:"quantity"`
	TotalAmount   Number `json:"total_amount"`
	PaymentStatus string `json:"payment_status"`
}

// BillsResponse ответ customer-bills.
type BillsResponse struct {
	Envelope
	Data []Bill `json:"data"`
}

// Bill расчётный период. DueAmount информационный, клиент с ним не считает.
type Bill struct {
	ID          ID     `json:"id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	TotalAmount Number `json:"total_amount"`
	PaidAmount  Number `json:"paid_amount"`
	DueAmount   Number `json:"due_amount"`
	Status      string `json:"status"`
}
