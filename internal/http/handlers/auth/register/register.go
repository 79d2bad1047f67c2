// Package register реализует HTTP-обработчик регистрации покупателя.
//
// Тело запроса приходит как multipart/form-data с полями username,
// phone_number и password.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/milk-customer/internal/http/response"
	"github.com/magabrotheeeer/milk-customer/internal/lib/phone"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/models"
	"github.com/magabrotheeeer/milk-customer/internal/services/dairy"
)

const maxMemory = 1 << 20

// Request входные данные для регистрации.
type Request struct {
	Username    string `validate:"required"`
	PhoneNumber string `validate:"required,pkphone"`
	Password    string `validate:"required,min=6"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, username, phone, password string) (*models.User, error)
}

// Handler обрабатывает запросы регистрации.
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
// @Summary Регистрация покупателя
// @Description Создаёт покупателя и заполняет демонстрационную историю сдачи молока
// @Tags Auth
// @Accept  mpfd
// @Produce  json
// @Param username formData string true "Имя покупателя"
// @Param phone_number formData string true "Телефон 03xxxxxxxxx или +923xxxxxxxxx"
// @Param password formData string true "Пароль, не короче 6 символов"
// @Success 200 {object} response.Response{data=models.User} "Покупатель создан или телефон уже занят (result=error)"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /customer-register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Error("failed to parse form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	req := Request{
		Username:    strings.TrimSpace(r.FormValue("username")),
		PhoneNumber: phone.Normalize(r.FormValue("phone_number")),
		Password:    r.FormValue("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.PhoneNumber, req.Password)
	if errors.Is(err, dairy.ErrPhoneTaken) {
		log.Info("phone already registered")
		render.JSON(w, r, response.Error("Phone number already registered"))
		return
	}
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register customer"))
		return
	}

	log.Info("customer registered", slog.String("uuid", user.UUID))
	render.JSON(w, r, response.Response{
		Result:  response.ResultSuccess,
		Message: "Customer registered successfully",
		Data:    user,
	})
}
