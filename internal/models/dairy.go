// Package models содержит доменные структуры dev-бэкенда молочной фермы
// и JSON-представления, которые отдаются клиенту.
package models

import "time"

// Customer зарегистрированный покупатель. Телефон уникален.
type Customer struct {
	UUID         string
	Username     string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

// User профиль покупателя, который клиент получает при входе.
type User struct {
	UUID        string `json:"uuid"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
}

// MilkRecord сдача молока за день.
type MilkRecord struct {
	ID       int64
	Phone    string
	Date     time.Time
	Quantity float64 // литры
	Rate     float64 // цена за литр
}

// Payment платёж покупателя.
type Payment struct {
	ID        int64
	Phone     string
	Amount    float64
	Method    string
	Status    string
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// Bill расчётный период покупателя [From, To].
type Bill struct {
	ID    int64
	Phone string
	From  time.Time
	To    time.Time
	Total float64
}
