// Package paymentlist реализует HTTP-обработчик истории платежей.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/milk-customer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/milk-customer/internal/http/response"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/models"
)

// Service описывает бизнес-логику истории платежей.
type Service interface {
	PaymentHistory(ctx context.Context, phone string) (models.PaymentHistory, error)
}

// Handler обрабатывает GET customer-payment-history.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История платежей
// @Description Платежи покупателя, новые первыми, со сводкой по статусам
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.PaymentHistory} "История платежей"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /customer-payment-history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

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

	history, err := h.service.PaymentHistory(r.Context(), phone)
	if err != nil {
		log.Error("failed to get payment history", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load payment history"))
		return
	}

	render.JSON(w, r, response.Success(history))
}
