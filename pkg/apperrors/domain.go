package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок реестра.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrPostNotFound - пост с таким идентификатором отсутствует
func ErrPostNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "post", "Post not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrRemoteService - внешний AI-сервис недоступен или вернул не-2xx (502).
// Отличается от NotFound: локальное состояние не затронуто.
func ErrRemoteService(err error, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, "ai", message, http.StatusBadGateway)
}

// ErrPersistence - ошибка записи/коммита в хранилище (500), транзакция откатана
func ErrPersistence(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "storage", "Persistence failure", http.StatusInternalServerError)
}

// ErrInvalidPostID - идентификатор поста имеет неверный префикс или формат
var ErrInvalidPostID = New(
	CodeValidationFailed,
	"post",
	"Invalid post id format",
	http.StatusBadRequest,
)

// ErrInvalidGenderCode - код пола вне множества {1, 2}
var ErrInvalidGenderCode = New(
	CodeValidationFailed,
	"post",
	"Gender code must be 1 or 2",
	http.StatusBadRequest,
)

// ErrInvalidPostKind - type запроса вне множества {1=family, 2=missing}
var ErrInvalidPostKind = New(
	CodeValidationFailed,
	"post",
	"Post type must be 1 (family) or 2 (missing)",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
