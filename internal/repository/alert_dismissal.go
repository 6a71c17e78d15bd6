package repository

import (
	"context"
	"fmt"
	"time"
)

// AlertDismissal — скрытие оповещения оператором до ExpiresAt.
type AlertDismissal struct {
	AlertID     string
	DismissedBy string
	DismissedAt time.Time
	ExpiresAt   time.Time
}

// AlertDismissalRepository — интерфейс для таблицы alert_dismissals.
type AlertDismissalRepository interface {
	// Dismiss скрывает оповещение; повторный вызов продлевает срок.
	Dismiss(ctx context.Context, alertID, dismissedBy string, expiresAt time.Time) error
	// ListActive возвращает скрытия, действующие на момент now.
	ListActive(ctx context.Context, now time.Time) ([]AlertDismissal, error)
	// PurgeExpired удаляет истёкшие скрытия и возвращает их число.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type alertDismissalRepo struct {
	db DBTX
}

// NewAlertDismissalRepository создаёт репозиторий скрытых оповещений.
func NewAlertDismissalRepository(db DBTX) AlertDismissalRepository {
	return &alertDismissalRepo{db: db}
}

func (r *alertDismissalRepo) Dismiss(ctx context.Context, alertID, dismissedBy string, expiresAt time.Time) error {
	query := `
		INSERT INTO alert_dismissals (alert_id, dismissed_by, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (alert_id) DO UPDATE
		SET dismissed_by = EXCLUDED.dismissed_by,
			dismissed_at = NOW(),
			expires_at = EXCLUDED.expires_at`

	if _, err := r.db.Exec(ctx, query, alertID, dismissedBy, expiresAt); err != nil {
		return fmt.Errorf("ошибка скрытия оповещения %s: %w", alertID, err)
	}
	return nil
}

func (r *alertDismissalRepo) ListActive(ctx context.Context, now time.Time) ([]AlertDismissal, error) {
	query := `
		SELECT alert_id, dismissed_by, dismissed_at, expires_at
		FROM alert_dismissals
		WHERE expires_at > $1
		ORDER BY alert_id`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения скрытых оповещений: %w", err)
	}
	defer rows.Close()

	var out []AlertDismissal
	for rows.Next() {
		var d AlertDismissal
		if err := rows.Scan(&d.AlertID, &d.DismissedBy, &d.DismissedAt, &d.ExpiresAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования alert_dismissals: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *alertDismissalRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM alert_dismissals WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки alert_dismissals: %w", err)
	}
	return tag.RowsAffected(), nil
}
