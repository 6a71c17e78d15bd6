// handler.go — общие вспомогательные функции обработчиков API Ops Core.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/errors"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/delivery"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

// maxBodyBytes — предел размера тела запроса.
const maxBodyBytes = 64 << 10

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля отклоняются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("некорректное тело запроса: %w", err)
	}
	return nil
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var te *delivery.TransitionError
	switch {
	case errors.As(err, &te):
		apierrors.Unprocessable(w, te.Code, te.Message)
	case errors.Is(err, delivery.ErrInvalidDriver):
		apierrors.Unprocessable(w, apierrors.CodeInvalidDriver, err.Error())
	case errors.Is(err, delivery.ErrTerminal):
		apierrors.Unprocessable(w, apierrors.CodeTerminalDelivery, err.Error())
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrForbidden):
		apierrors.Forbidden(w, "Backend логистики отказал в доступе")
	case errors.Is(err, service.ErrBackendUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Backend логистики недоступен",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.BackendUnavailable(w, "Backend логистики недоступен, повторите попытку")
	default:
		logger.Error("Внутренняя ошибка обработки запроса",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка")
	}
}

// requireParam возвращает непустой параметр пути или пишет 400.
func requireParam(w http.ResponseWriter, value, name string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		apierrors.ValidationError(w, "Не указан параметр "+name)
		return "", false
	}
	return value, true
}
