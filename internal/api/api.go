// Package api реализует вызовы REST-бэкенда: по одному методу на операцию.
//
// Каждый метод выполняет ровно один запрос без повторов и кеширования.
// Ответы разбираются в явные схемы; несоответствие формы (не тот JSON-тип,
// нечисловая строка вместо числа, нет обязательного поля конверта) превращается
// в *DecodeError вместо молчаливой подстановки нулей.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/url"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/milk-customer/internal/httpclient"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// Имена эндпоинтов относительно базового адреса.
const (
	EndpointRegister       = "customer-register"
	EndpointLogin          = "customer-login"
	EndpointDashboard      = "customer-dashboard"
	EndpointPaymentHistory = "customer-payment-history"
	EndpointMilkCollection = "customer-milk-collection"
	EndpointBills          = "customer-bills"
)

// Doer выполняет HTTP-запросы к бэкенду.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body []byte, contentType string) (*httpclient.Response, error)
}

// DecodeError ответ бэкенда не совпал с ожидаемой схемой.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client вызовы API поверх Doer.
type Client struct {
	http     Doer
	validate *validator.Validate
	log      *slog.Logger
}

// New создаёт Client.
func New(http Doer, log *slog.Logger) *Client {
	return &Client{
		http:     http,
		validate: validator.New(),
		log:      log,
	}
}

// Signup регистрирует покупателя (multipart: phone_number, password, username).
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	body, contentType, err := multipartBody([][2]string{
		{"phone_number", req.PhoneNumber},
		{"password", req.Password},
		{"username", req.Username},
	})
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(ctx, EndpointRegister, body, contentType)
	if err != nil {
		c.log.Error("signup request failed", sl.Op("api.Signup"), sl.Err(err))
		return nil, err
	}
	var out SignupResponse
	if err := c.decode(EndpointRegister, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login выполняет вход (JSON: phone_number, password).
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("api.Login: %w", err)
	}
	resp, err := c.http.Post(ctx, EndpointLogin, body, "application/json")
	if err != nil {
		c.log.Error("login request failed", sl.Op("api.Login"), sl.Err(err))
		return nil, err
	}
	var wire loginWire
	if err := c.decode(EndpointLogin, resp.Body, &wire); err != nil {
		return nil, err
	}

	out := &LoginResponse{Envelope: wire.Envelope, Token: wire.Token}
	if out.Token == "" {
		out.Token = wire.AccessToken
	}
	// result в конверте всегда строка "success" или "error", профиль из него не берётся.
	for _, raw := range []json.RawMessage{wire.User, wire.Data} {
		if isObject(raw) {
			out.User = raw
			break
		}
	}
	return out, nil
}

// DashboardStats статистика за месяц date (YYYY-MM).
func (c *Client) DashboardStats(ctx context.Context, date string) (*DashboardStatsResponse, error) {
	resp, err := c.http.Get(ctx, EndpointDashboard, url.Values{"date": {date}})
	if err != nil {
		c.log.Error("dashboard request failed", sl.Op("api.DashboardStats"), slog.String("date", date), sl.Err(err))
		return nil, err
	}
	var out DashboardStatsResponse
	if err := c.decode(EndpointDashboard, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentHistory сводка и история платежей.
func (c *Client) PaymentHistory(ctx context.Context) (*PaymentHistoryResponse, error) {
	resp, err := c.http.Get(ctx, EndpointPaymentHistory, nil)
	if err != nil {
		c.log.Error("payment history request failed", sl.Op("api.PaymentHistory"), sl.Err(err))
		return nil, err
	}
	var out PaymentHistoryResponse
	if err := c.decode(EndpointPaymentHistory, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddPayment отправляет платёж. Примечание уходит в поле node и только если не пустое.
func (c *Client) AddPayment(ctx context.Context, p PaymentSubmission) (*AddPaymentResponse, error) {
	fields := [][2]string{
		{"amount", p.Amount},
		{"payment_method", p.PaymentMethod},
		{"payment_status", p.PaymentStatus},
		{"payment_date", p.PaymentDate},
	}
	if p.Note != "" {
		fields = append(fields, [2]string{"node", p.Note})
	}
	body, contentType, err := multipartBody(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(ctx, EndpointPaymentHistory, body, contentType)
	if err != nil {
		c.log.Error("add payment request failed", sl.Op("api.AddPayment"), sl.Err(err))
		return nil, err
	}
	var out AddPaymentResponse
	if err := c.decode(EndpointPaymentHistory, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MilkCollection сдача молока за месяц date (YYYY-MM).
func (c *Client) MilkCollection(ctx context.Context, date string) (*MilkCollectionResponse, error) {
	resp, err := c.http.Get(ctx, EndpointMilkCollection, url.Values{"date": {date}})
	if err != nil {
		c.log.Error("milk collection request failed", sl.Op("api.MilkCollection"), slog.String("date", date), sl.Err(err))
		return nil, err
	}
	var out MilkCollectionResponse
	if err := c.decode(EndpointMilkCollection, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bills список счетов.
func (c *Client) Bills(ctx context.Context) (*BillsResponse, error) {
	resp, err := c.http.Get(ctx, EndpointBills, nil)
	if err != nil {
		c.log.Error("bills request failed", sl.Op("api.Bills"), sl.Err(err))
		return nil, err
	}
	var out BillsResponse
	if err := c.decode(EndpointBills, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) decode(endpoint string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		c.log.Error("failed to decode response", slog.String("endpoint", endpoint), sl.Err(err))
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		c.log.Error("response failed validation", slog.String("endpoint", endpoint), sl.Err(err))
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func multipartBody(fields [][2]string) ([]byte, string, error) {
	const op = "api.multipartBody"
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// errorBody поля сообщения об ошибке в теле ответа.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ErrorMessage извлекает текст для пользователя: message из тела ответа,
// затем error из тела, затем текст самой ошибки, затем fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var se *httpclient.StatusError
	if errors.As(err, &se) && len(se.Body) > 0 {
		var body errorBody
		if json.Unmarshal(se.Body, &body) == nil {
			if body.Message != "" {
				return body.Message
			}
			if body.Error != "" {
				return body.Error
			}
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
