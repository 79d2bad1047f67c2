// Package bills реализует HTTP-обработчик списка счетов покупателя.
package bills

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

// Service описывает бизнес-логику счетов.
type Service interface {
	Bills(ctx context.Context, phone string) ([]models.BillEntry, error)
}

// Handler обрабатывает GET customer-bills.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Счета покупателя
// @Description Счета за половины месяцев с оплаченной суммой и статусом paid, partial или unpaid
// @Tags Bills
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.BillEntry} "Счета, новые первыми"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /customer-bills [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bills"

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

	bills, err := h.service.Bills(r.Context(), phone)
	if err != nil {
		log.Error("failed to list bills", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load bills"))
		return
	}

	render.JSON(w, r, response.Success(bills))
}
