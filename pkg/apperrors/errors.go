package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError - ошибка уровня приложения. Несет машинный код, домен
// (auth/post/storage/...), сообщение для клиента и HTTP-статус, который
// отдаст обработчик. Err - исходная причина, в JSON не попадает.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Domain   string      `json:"domain"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s (%v)", e.Domain, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Domain, e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetails дополняет ошибку структурированными деталями (карта полей
// валидации и т.п.)
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// MarshalJSON скрывает Err и HTTPCode от клиента
func (e *AppError) MarshalJSON() ([]byte, error) {
	type wire struct {
		Code    ErrorCode   `json:"code"`
		Domain  string      `json:"domain"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&wire{
		Code:    e.Code,
		Domain:  e.Domain,
		Message: e.Message,
		Details: e.Details,
	})
}

// New создает AppError без исходной причины
func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPCode: httpCode}
}

// Wrap создает AppError поверх исходной ошибки
func Wrap(err error, code ErrorCode, domain, message string, httpCode int) *AppError {
	appErr := New(code, domain, message, httpCode)
	appErr.Err = err
	return appErr
}

// As - обертка над errors.As, чтобы вызывающим не импортировать оба пакета
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Хелперы для ошибок, не привязанных к конкретному домену.

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(details)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, "auth", message, http.StatusForbidden)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "request", message, http.StatusBadRequest)
}
