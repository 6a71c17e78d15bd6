package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Классификация ответов backend.
var (
	// ErrUnauthorized — 401, токен сервиса отклонён.
	ErrUnauthorized = errors.New("backend: не авторизован")
	// ErrForbidden — 403, у учётной записи сервиса нет доступа к ресурсу.
	ErrForbidden = errors.New("backend: доступ запрещён")
	// ErrNotFound — 404.
	ErrNotFound = errors.New("backend: не найдено")
	// ErrMalformed — тело ответа не соответствует ожидаемой форме.
	ErrMalformed = errors.New("backend: некорректный ответ")
)

// StatusError — прочие ответы backend вне диапазона 2xx.
type StatusError struct {
	Operation string // Имя операции клиента
	Code      int    // HTTP-статус
	Body      string // Начало тела ответа
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: статус %d: %s", e.Operation, e.Code, e.Body)
}

// Temporary сообщает, имеет ли смысл повторить запрос.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// classifyStatus возвращает ошибку для HTTP-статуса ответа.
func classifyStatus(operation string, code int, body string) error {
	switch code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", operation, ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", operation, ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	default:
		return &StatusError{Operation: operation, Code: code, Body: body}
	}
}

// IsTransient сообщает, что ошибка временная (сеть, таймаут, 5xx, 429).
// Отказы в доступе, 404 и некорректные ответы временными не считаются.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
