// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Хэш пароля никогда не сериализуется в JSON-ответы.
type User struct {
	UUID         string    `json:"id"`       // Уникальный идентификатор пользователя
	Username     string    `json:"username"` // Имя пользователя (уникальное)
	Email        string    `json:"email"`    // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`        // Хэш пароля пользователя
	CreatedAt    time.Time `json:"created_at"`
}
