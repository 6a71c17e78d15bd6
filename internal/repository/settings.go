package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Setting — запись из таблицы ops_settings.
type Setting struct {
	// Ключ настройки (dot-notation, например "presence.window")
	Key       string
	Value     string
	UpdatedAt time.Time
	// Кто обновил настройку (subject оператора)
	UpdatedBy string
}

// SettingsRepository — интерфейс для таблицы ops_settings.
type SettingsRepository interface {
	// Get возвращает настройку по ключу. Если не найдена — ErrNotFound.
	Get(ctx context.Context, key string) (*Setting, error)
	// Set создаёт или обновляет настройку (upsert).
	Set(ctx context.Context, key, value, updatedBy string) error
	// List возвращает все настройки, отсортированные по ключу.
	List(ctx context.Context) ([]Setting, error)
	// Delete удаляет настройку. Если её нет — ErrNotFound.
	Delete(ctx context.Context, key string) error
}

type settingsRepo struct {
	db DBTX
}

// NewSettingsRepository создаёт репозиторий runtime-настроек.
func NewSettingsRepository(db DBTX) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, key string) (*Setting, error) {
	query := `
		SELECT key, value, updated_at, updated_by
		FROM ops_settings
		WHERE key = $1`

	s := &Setting{}
	err := r.db.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения ops_settings[%s]: %w", key, err)
	}
	return s, nil
}

func (r *settingsRepo) Set(ctx context.Context, key, value, updatedBy string) error {
	query := `
		INSERT INTO ops_settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, key, value, updatedBy); err != nil {
		return fmt.Errorf("ошибка сохранения ops_settings[%s]: %w", key, err)
	}
	return nil
}

func (r *settingsRepo) List(ctx context.Context) ([]Setting, error) {
	query := `
		SELECT key, value, updated_at, updated_by
		FROM ops_settings
		ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка ops_settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy); err != nil {
			return nil, fmt.Errorf("ошибка сканирования ops_settings: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *settingsRepo) Delete(ctx context.Context, key string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ops_settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("ошибка удаления ops_settings[%s]: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
