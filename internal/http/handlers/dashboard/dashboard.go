// Package dashboard реализует HTTP-обработчик итогов сдачи молока за месяц.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/milk-customer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/milk-customer/internal/http/response"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/models"
)

// Service описывает бизнес-логику итогов за месяц.
type Service interface {
	DashboardStats(ctx context.Context, phone string, m time.Time) (models.DashboardStats, error)
}

// Handler обрабатывает GET customer-dashboard?date=YYYY-MM.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Итоги за месяц
// @Description Литры и сумма за месяц; без date берётся текущий месяц
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Param date query string false "Месяц в формате YYYY-MM"
// @Success 200 {object} response.Response{data=models.DashboardStats} "Итоги месяца"
// @Failure 400 {object} response.Response "Некорректный месяц"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /customer-dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

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

	m := h.now()
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := month.Parse(date)
		if err != nil {
			log.Warn("invalid month", slog.String("date", date), sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("date must be in format YYYY-MM"))
			return
		}
		m = parsed
	}

	stats, err := h.service.DashboardStats(r.Context(), phone, m)
	if err != nil {
		log.Error("failed to get dashboard stats", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load dashboard stats"))
		return
	}

	render.JSON(w, r, response.Success(stats))
}
