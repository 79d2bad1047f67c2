// Package credstore хранит токен сессии и профиль пользователя между запусками клиента.
//
// Хранилище содержит ровно две записи: непрозрачный токен и JSON-текст профиля.
// Шифрования и сроков жизни нет: валидность токена определяет только бэкенд.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	// KeyToken имя записи с токеном.
	KeyToken = "token"
	// KeyUser имя записи с профилем.
	KeyUser = "user"
)

// ErrCorrupt возвращается, если содержимое хранилища не удалось разобрать.
var ErrCorrupt = errors.New("credential store is corrupt")

// Store описывает контракт хранилища учётных данных.
type Store interface {
	// StoreAuth сохраняет токен и профиль. nil-профиль сохраняется как {}.
	StoreAuth(ctx context.Context, token string, user json.RawMessage) error
	// Token возвращает сохранённый токен; ok=false, если его нет.
	Token(ctx context.Context) (token string, ok bool, err error)
	// User возвращает профиль или nil, если он отсутствует или повреждён.
	User(ctx context.Context) (Profile, error)
	// Logout удаляет обе записи одной операцией.
	Logout(ctx context.Context) error
	// ClearToken удаляет только токен.
	ClearToken(ctx context.Context) error
}

// Profile непрозрачный профиль пользователя, как его вернул бэкенд.
type Profile map[string]any

// Username возвращает поле username или пустую строку.
func (p Profile) Username() string {
	if p == nil {
		return ""
	}
	name, _ := p["username"].(string)
	return name
}

func userText(user json.RawMessage) string {
	if len(user) == 0 || string(user) == "null" {
		return "{}"
	}
	return string(user)
}

// parseProfile разбирает JSON-текст профиля. Пустой или повреждённый текст даёт nil.
func parseProfile(text string) (Profile, bool) {
	if text == "" {
		return nil, true
	}
	var p Profile
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, false
	}
	return p, true
}
