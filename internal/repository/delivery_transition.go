package repository

import (
	"context"
	"fmt"
	"time"
)

// Действия журнала доставок.
const (
	ActionStatus = "status"
	ActionAssign = "assign"
)

// Результаты команды.
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// DeliveryTransition — запись журнала команд над доставкой.
type DeliveryTransition struct {
	ID         string
	DeliveryID string
	Action     string
	FromStatus string
	ToStatus   string
	DriverID   string
	Actor      string
	Result     string
	// Текст ошибки для rejected/failed
	Error     string
	CreatedAt time.Time
}

// DeliveryTransitionRepository — интерфейс для таблицы delivery_transitions.
type DeliveryTransitionRepository interface {
	// Create добавляет запись; CreatedAt заполняется из БД.
	Create(ctx context.Context, t *DeliveryTransition) error
	// ListByDelivery возвращает последние записи по доставке (новые первыми).
	ListByDelivery(ctx context.Context, deliveryID string, limit int) ([]DeliveryTransition, error)
}

type deliveryTransitionRepo struct {
	db DBTX
}

// NewDeliveryTransitionRepository создаёт репозиторий журнала доставок.
func NewDeliveryTransitionRepository(db DBTX) DeliveryTransitionRepository {
	return &deliveryTransitionRepo{db: db}
}

func (r *deliveryTransitionRepo) Create(ctx context.Context, t *DeliveryTransition) error {
	query := `
		INSERT INTO delivery_transitions
			(id, delivery_id, action, from_status, to_status, driver_id, actor, result, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		t.ID, t.DeliveryID, t.Action, t.FromStatus, t.ToStatus,
		t.DriverID, t.Actor, t.Result, t.Error,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи delivery_transitions[%s]: %w", t.DeliveryID, err)
	}
	return nil
}

func (r *deliveryTransitionRepo) ListByDelivery(ctx context.Context, deliveryID string, limit int) ([]DeliveryTransition, error) {
	query := `
		SELECT id::text, delivery_id, action, from_status, to_status, driver_id, actor, result, error, created_at
		FROM delivery_transitions
		WHERE delivery_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, deliveryID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала доставки %s: %w", deliveryID, err)
	}
	defer rows.Close()

	var out []DeliveryTransition
	for rows.Next() {
		var t DeliveryTransition
		if err := rows.Scan(
			&t.ID, &t.DeliveryID, &t.Action, &t.FromStatus, &t.ToStatus,
			&t.DriverID, &t.Actor, &t.Result, &t.Error, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования delivery_transitions: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
