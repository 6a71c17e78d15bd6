// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrForbidden — backend отказал в доступе для явного действия.
	ErrForbidden = errors.New("доступ к данным backend запрещён")
	// ErrBackendUnavailable — backend недоступен или вернул некорректный ответ.
	ErrBackendUnavailable = errors.New("backend логистики недоступен")
)
