// Package middlewarectx содержит HTTP middleware dev-бэкенда.
//
// JWTMiddleware проверяет токен из заголовка Authorization и кладёт в контекст
// телефон и имя покупателя. При ошибке отвечает 401 с сообщением "Unauthenticated.",
// на которое клиент реагирует завершением сессии.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/milk-customer/internal/http/response"
	"github.com/magabrotheeeer/milk-customer/internal/lib/jwt"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Phone ключ для телефона покупателя в контексте.
	Phone Key = "phone"
	// User ключ для имени покупателя в контексте.
	User Key = "username"
)

// Unauthenticated сообщение ответа 401.
const Unauthenticated = "Unauthenticated."

// TokenParser разбирает и проверяет JWT.
type TokenParser interface {
	ParseToken(token string) (*jwt.Claims, error)
}

// JWTMiddleware возвращает middleware, который проверяет JWT в заголовке Authorization.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(Unauthenticated))
				return
			}

			claims, err := parser.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(Unauthenticated))
				return
			}
			ctx := context.WithValue(r.Context(), Phone, claims.Phone)
			ctx = context.WithValue(ctx, User, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PhoneFrom телефон покупателя, положенный JWTMiddleware.
func PhoneFrom(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(Phone).(string)
	return phone, ok && phone != ""
}
