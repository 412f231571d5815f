package dto

import "time"

// RegisterRequest - регистрация аккаунта. Идентификатор выбирает пользователь.
type RegisterRequest struct {
	UserID   string `json:"user_id" validate:"required,min=4,max=45,alphanum"`
	Password string `json:"user_pw" validate:"required,min=8,max=72"`
	Name     string `json:"user_name" validate:"required,max=45"`
	Email    string `json:"user_email" validate:"required,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// LoginRequest - вход по идентификатору и паролю
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"user_pw" validate:"required"`
}

// UserResponse - аккаунт в ответе API, без пароля
type UserResponse struct {
	UserID   string     `json:"user_id"`
	Name     string     `json:"user_name"`
	Email    string     `json:"user_email"`
	Birthday *time.Time `json:"birthday,omitempty"`
	IsAdmin  bool       `json:"is_admin"`
}

// LoginResponse - выданная сессия
type LoginResponse struct {
	SessionID string       `json:"session_id"`
	User      UserResponse `json:"user"`
}
