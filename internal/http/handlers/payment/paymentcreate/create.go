// Package paymentcreate реализует HTTP-обработчик добавления платежа.
//
// Тело запроса multipart/form-data: amount, payment_method, payment_status,
// payment_date (YYYY-MM-DD) и необязательное примечание в поле node.
package paymentcreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/milk-customer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/milk-customer/internal/http/response"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/services/dairy"
)

const maxMemory = 1 << 20

// Methods допустимые способы оплаты в нижнем регистре.
var Methods = map[string]bool{
	"cash":          true,
	"bank transfer": true,
	"jazzcash":      true,
	"easypaisa":     true,
}

// Request входные данные платежа.
type Request struct {
	Amount        string `validate:"required,numeric"`
	PaymentMethod string `validate:"required"`
	PaymentStatus string `validate:"required,oneof=approved pending"`
	PaymentDate   string `validate:"required"`
	Note          string
}

// Service описывает бизнес-логику платежей.
type Service interface {
	AddPayment(ctx context.Context, phone string, p dairy.NewPayment) (int64, error)
}

// Handler обрабатывает POST customer-payment-history.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить платёж
// @Description Сохраняет платёж покупателя; примечание передаётся в поле node
// @Tags Payments
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param amount formData number true "Сумма"
// @Param payment_method formData string true "cash, bank transfer, jazzcash или easypaisa"
// @Param payment_status formData string true "approved или pending"
// @Param payment_date formData string true "Дата в формате YYYY-MM-DD"
// @Param node formData string false "Примечание"
// @Success 200 {object} response.Response "Платёж добавлен, data.id"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /customer-payment-history [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	phone, ok := middlewarectx.PhoneFrom(r.Context())
	if !ok {
		log.Error("phone not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(middlewarectx.Unauthenticated))
		return
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Error("failed to parse form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	req := Request{
		Amount:        strings.TrimSpace(r.FormValue("amount")),
		PaymentMethod: strings.ToLower(strings.TrimSpace(r.FormValue("payment_method"))),
		PaymentStatus: r.FormValue("payment_status"),
		PaymentDate:   r.FormValue("payment_date"),
		Note:          r.FormValue("node"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	payment, msg := parse(req)
	if msg != "" {
		log.Warn("invalid payment", slog.String("reason", msg))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(msg))
		return
	}

	id, err := h.service.AddPayment(r.Context(), phone, payment)
	if err != nil {
		log.Error("failed to add payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add payment"))
		return
	}

	log.Info("payment added", slog.Int64("id", id))
	render.JSON(w, r, response.Response{
		Result:  response.ResultSuccess,
		Message: "Payment added successfully",
		Data:    map[string]any{"id": id},
	})
}

// parse переводит проверенные поля в платёж. Непустая строка означает ошибку.
func parse(req Request) (dairy.NewPayment, string) {
	amount, err := strconv.ParseFloat(req.Amount, 64)
	if err != nil || amount <= 0 {
		return dairy.NewPayment{}, "amount must be a positive number"
	}
	if !Methods[req.PaymentMethod] {
		return dairy.NewPayment{}, "unknown payment method"
	}
	date, err := month.ParseDate(req.PaymentDate)
	if err != nil {
		return dairy.NewPayment{}, "payment_date must be in format YYYY-MM-DD"
	}
	return dairy.NewPayment{
		Amount: amount,
		Method: req.PaymentMethod,
		Status: req.PaymentStatus,
		Date:   date,
		Note:   req.Note,
	}, ""
}
