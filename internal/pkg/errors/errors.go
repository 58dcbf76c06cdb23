package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены (экзамен, ключ ответов, попытка).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (повторная отправка решения, попытка изменить вопросы запланированного экзамена).
	ErrConflict = errors.New("resource state conflict")

	// ErrPersistence используется, когда хранилище вернуло ошибку при записи.
	// Вызывающая сторона может повторить запрос: частичные записи не остаются видимыми.
	ErrPersistence = errors.New("persistence failure")
)
