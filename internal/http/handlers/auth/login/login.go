// Package login реализует HTTP-обработчик входа покупателя по телефону и паролю.
//
// Неверные учётные данные возвращаются со статусом 200 и result "error":
// ответ 401 клиент трактует как истёкшую сессию.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/milk-customer/internal/http/response"
	"github.com/magabrotheeeer/milk-customer/internal/lib/phone"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/models"
	"github.com/magabrotheeeer/milk-customer/internal/services/dairy"
)

// Request входные данные для входа.
type Request struct {
	PhoneNumber string `json:"phone_number" validate:"required,pkphone"`
	Password    string `json:"password" validate:"required"`
}

// Response ответ на успешный вход.
type Response struct {
	response.Response
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, phone, password string) (string, *models.User, error)
}

// Handler обрабатывает запросы входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	v := validator.New()
	_ = phone.Register(v)
	return &Handler{
		log:      log,
		service:  service,
		validate: v,
	}
}

// ServeHTTP godoc
// @Summary Вход покупателя
// @Description Проверяет телефон и пароль и выдаёт JWT
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Телефон и пароль"
// @Success 200 {object} Response "Успешный вход или неверные данные (result=error)"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /customer-login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req.PhoneNumber = phone.Normalize(req.PhoneNumber)

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.PhoneNumber, req.Password)
	if errors.Is(err, dairy.ErrInvalidCredentials) {
		log.Info("invalid credentials")
		render.JSON(w, r, response.Error("Invalid phone number or password"))
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("login failed"))
		return
	}

	log.Info("login success", slog.String("uuid", user.UUID))
	render.JSON(w, r, Response{
		Response: response.Message("Login successful"),
		Token:    token,
		User:     user,
	})
}
