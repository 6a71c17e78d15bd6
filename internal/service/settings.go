// settings.go — runtime-настройки Ops Core с типизированными геттерами.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
)

// Ключи runtime-настроек.
const (
	SettingPresenceWindow     = "presence.window"
	SettingEnforceTransitions = "transitions.enforce"
)

// Допустимые ключи настроек и их описание.
var validSettingKeys = map[string]string{
	SettingPresenceWindow:     "Окно эвристики последнего входа (например, 5m)",
	SettingEnforceTransitions: "Проверять матрицу переходов статусов (true/false)",
}

// SettingsService — сервис runtime-настроек.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService создаёт сервис настроек.
func NewSettingsService(repo repository.SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger.With(slog.String("component", "settings")),
	}
}

// Get возвращает настройку по ключу; ErrNotFound, если её нет.
func (s *SettingsService) Get(ctx context.Context, key string) (*repository.Setting, error) {
	if _, ok := validSettingKeys[key]; !ok {
		return nil, fmt.Errorf("%w: недопустимый ключ настройки %q", ErrValidation, key)
	}
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения настройки %q: %w", key, err)
	}
	return setting, nil
}

// Set валидирует и сохраняет настройку.
func (s *SettingsService) Set(ctx context.Context, key, value, updatedBy string) error {
	if _, ok := validSettingKeys[key]; !ok {
		return fmt.Errorf("%w: недопустимый ключ настройки %q", ErrValidation, key)
	}
	if err := validateSettingValue(key, value); err != nil {
		return err
	}

	if err := s.repo.Set(ctx, key, value, updatedBy); err != nil {
		return fmt.Errorf("ошибка сохранения настройки %q: %w", key, err)
	}

	s.logger.Info("Настройка обновлена",
		slog.String("key", key),
		slog.String("value", value),
		slog.String("updated_by", updatedBy),
	)
	return nil
}

// List возвращает все сохранённые настройки.
func (s *SettingsService) List(ctx context.Context) ([]repository.Setting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка настроек: %w", err)
	}
	return settings, nil
}

// PresenceWindow возвращает окно присутствия; при отсутствии или
// ошибке чтения — def.
func (s *SettingsService) PresenceWindow(ctx context.Context, def time.Duration) time.Duration {
	setting, err := s.repo.Get(ctx, SettingPresenceWindow)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Не удалось прочитать presence.window, используется значение по умолчанию",
				slog.String("error", err.Error()))
		}
		return def
	}
	d, err := time.ParseDuration(setting.Value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// EnforceTransitions возвращает режим проверки переходов; по умолчанию def.
func (s *SettingsService) EnforceTransitions(ctx context.Context, def bool) bool {
	setting, err := s.repo.Get(ctx, SettingEnforceTransitions)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Не удалось прочитать transitions.enforce, используется значение по умолчанию",
				slog.String("error", err.Error()))
		}
		return def
	}
	b, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return def
	}
	return b
}

func validateSettingValue(key, value string) error {
	switch key {
	case SettingPresenceWindow:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s — некорректная длительность %q", ErrValidation, key, value)
		}
		if d <= 0 || d > 24*time.Hour {
			return fmt.Errorf("%w: %s — значение %s вне диапазона (0, 24h]", ErrValidation, key, d)
		}
	case SettingEnforceTransitions:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %s — ожидается true или false, получено %q", ErrValidation, key, value)
		}
	}
	return nil
}
