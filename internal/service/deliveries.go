// deliveries.go — команды оператора над доставками.
//
// Каждая команда проверяется конечным автоматом по свежему состоянию
// доставки из backend, пересылается в backend, записывается в журнал
// delivery_transitions. Результат сразу вносится в снимок панели операций,
// затем запускается немедленное обновление.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/backend"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/delivery"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
)

// historyLimit — глубина журнала в ответе /transitions.
const historyLimit = 50

// DeliveryBackend — запросы backend для команд над доставками.
type DeliveryBackend interface {
	TrackingDeliveries(ctx context.Context) ([]model.Delivery, error)
	ListAccounts(ctx context.Context) ([]model.Driver, error)
	UpdateStatus(ctx context.Context, deliveryID string, status model.DeliveryStatus) error
	AssignDriver(ctx context.Context, deliveryID, driverID string) error
}

// TransitionInfo — допустимые переходы и журнал команд доставки.
type TransitionInfo struct {
	DeliveryID  string                          `json:"deliveryId"`
	Status      model.DeliveryStatus            `json:"status"`
	Terminal    bool                            `json:"terminal"`
	AllowedNext []model.DeliveryStatus          `json:"allowedNext"`
	Enforced    bool                            `json:"enforced"`
	History     []repository.DeliveryTransition `json:"-"`
}

// DeliveryService — сервис команд над доставками.
type DeliveryService struct {
	backend  DeliveryBackend
	ops      *OperationsService
	audit    repository.DeliveryTransitionRepository
	settings *SettingsService
	enforce  bool
	logger   *slog.Logger
}

// NewDeliveryService создаёт сервис. ops, audit и settings могут быть nil.
// enforce — режим проверки переходов по умолчанию.
func NewDeliveryService(
	b DeliveryBackend,
	ops *OperationsService,
	audit repository.DeliveryTransitionRepository,
	settings *SettingsService,
	enforce bool,
	logger *slog.Logger,
) *DeliveryService {
	return &DeliveryService{
		backend:  b,
		ops:      ops,
		audit:    audit,
		settings: settings,
		enforce:  enforce,
		logger:   logger.With(slog.String("component", "deliveries")),
	}
}

// Transitions возвращает текущий статус, допустимые переходы и журнал.
func (s *DeliveryService) Transitions(ctx context.Context, deliveryID string) (*TransitionInfo, error) {
	d, err := s.lookup(ctx, deliveryID, false)
	if err != nil {
		return nil, err
	}

	info := &TransitionInfo{
		DeliveryID:  d.ID,
		Status:      d.Status,
		Terminal:    delivery.IsTerminal(d.Status),
		AllowedNext: delivery.AllowedNext(d.Status),
		Enforced:    s.enforcing(ctx),
	}
	if s.audit != nil {
		history, err := s.audit.ListByDelivery(ctx, d.ID, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения журнала доставки %s: %w", d.ID, err)
		}
		info.History = history
	}
	return info, nil
}

// UpdateStatus меняет статус доставки.
//
// В разрешительном режиме недопустимый переход логируется и пропускается.
// Неизвестный статус отклоняется всегда.
func (s *DeliveryService) UpdateStatus(ctx context.Context, deliveryID, rawStatus, actor string) (model.Delivery, error) {
	target, err := delivery.ParseStatus(rawStatus)
	if err != nil {
		deliveryCommandsTotal.WithLabelValues(repository.ActionStatus, repository.ResultRejected).Inc()
		return model.Delivery{}, err
	}

	d, err := s.lookup(ctx, deliveryID, true)
	if err != nil {
		return model.Delivery{}, err
	}

	entry := &repository.DeliveryTransition{
		DeliveryID: d.ID,
		Action:     repository.ActionStatus,
		FromStatus: string(d.Status),
		ToStatus:   string(target),
		DriverID:   d.DriverID(),
		Actor:      actor,
	}

	next, err := delivery.ApplyStatus(d, target)
	if err != nil {
		var te *delivery.TransitionError
		if !errors.As(err, &te) || te.Code != delivery.CodeInvalidTransition || s.enforcing(ctx) {
			s.record(ctx, entry, repository.ResultRejected, err)
			return model.Delivery{}, err
		}
		transitionViolationsTotal.Inc()
		s.logger.Warn("Недопустимый переход пропущен в разрешительном режиме",
			slog.String("delivery_id", d.ID),
			slog.String("from", string(d.Status)),
			slog.String("to", string(target)),
		)
		next = delivery.ForceStatus(d, target)
	}

	if err := s.backend.UpdateStatus(ctx, d.ID, target); err != nil {
		err = mapBackendError(err)
		s.record(ctx, entry, repository.ResultFailed, err)
		return model.Delivery{}, fmt.Errorf("ошибка смены статуса доставки %s: %w", d.ID, err)
	}

	s.record(ctx, entry, repository.ResultApplied, nil)
	s.logger.Info("Статус доставки изменён",
		slog.String("delivery_id", d.ID),
		slog.String("from", string(d.Status)),
		slog.String("to", string(target)),
		slog.String("actor", actor),
	)
	s.refreshOperations(next)
	return next, nil
}

// Assign назначает водителя на доставку.
// Roster — активные учётные записи с ролью driver на момент команды.
func (s *DeliveryService) Assign(ctx context.Context, deliveryID, driverID, actor string) (model.Delivery, error) {
	d, err := s.lookup(ctx, deliveryID, true)
	if err != nil {
		return model.Delivery{}, err
	}

	roster, err := s.roster(ctx)
	if err != nil {
		return model.Delivery{}, err
	}

	entry := &repository.DeliveryTransition{
		DeliveryID: d.ID,
		Action:     repository.ActionAssign,
		FromStatus: string(d.Status),
		ToStatus:   string(d.Status),
		DriverID:   driverID,
		Actor:      actor,
	}

	next, err := delivery.Assign(d, driverID, roster)
	if err != nil {
		s.record(ctx, entry, repository.ResultRejected, err)
		return model.Delivery{}, err
	}
	if delivery.IsSameAssignment(d, driverID) {
		return next, nil
	}

	if err := s.backend.AssignDriver(ctx, d.ID, driverID); err != nil {
		err = mapBackendError(err)
		s.record(ctx, entry, repository.ResultFailed, err)
		return model.Delivery{}, fmt.Errorf("ошибка назначения водителя на доставку %s: %w", d.ID, err)
	}

	s.record(ctx, entry, repository.ResultApplied, nil)
	s.logger.Info("Водитель назначен",
		slog.String("delivery_id", d.ID),
		slog.String("driver_id", driverID),
		slog.String("actor", actor),
	)
	s.refreshOperations(next)
	return next, nil
}

// lookup ищет доставку в снимке операций, затем в свежем списке backend.
// Для команд (fresh) снимок не используется: переход проверяется
// по текущему состоянию backend.
func (s *DeliveryService) lookup(ctx context.Context, deliveryID string, fresh bool) (model.Delivery, error) {
	if deliveryID == "" {
		return model.Delivery{}, fmt.Errorf("%w: пустой идентификатор доставки", ErrValidation)
	}
	if s.ops != nil && !fresh {
		if d, ok := s.ops.Delivery(deliveryID); ok {
			return d, nil
		}
	}

	list, err := s.backend.TrackingDeliveries(ctx)
	if err != nil {
		return model.Delivery{}, fmt.Errorf("ошибка получения доставок: %w", mapBackendError(err))
	}
	for _, d := range list {
		if d.ID == deliveryID {
			return d, nil
		}
	}
	return model.Delivery{}, fmt.Errorf("%w: доставка %q", ErrNotFound, deliveryID)
}

func (s *DeliveryService) roster(ctx context.Context) (map[string]bool, error) {
	drivers, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка водителей: %w", mapBackendError(err))
	}
	accounts := make([]model.Account, 0, len(drivers))
	for _, d := range drivers {
		accounts = append(accounts, d.Account)
	}
	return model.ActiveDriverRoster(accounts), nil
}

func (s *DeliveryService) enforcing(ctx context.Context) bool {
	if s.settings == nil {
		return s.enforce
	}
	return s.settings.EnforceTransitions(ctx, s.enforce)
}

func (s *DeliveryService) refreshOperations(next model.Delivery) {
	if s.ops != nil {
		s.ops.ApplyCommandResult(next)
		s.ops.Trigger()
	}
}

// record пишет запись журнала; ошибка записи не прерывает команду.
func (s *DeliveryService) record(ctx context.Context, entry *repository.DeliveryTransition, result string, cause error) {
	deliveryCommandsTotal.WithLabelValues(entry.Action, result).Inc()
	if s.audit == nil {
		return
	}

	entry.ID = uuid.NewString()
	entry.Result = result
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := s.audit.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("Не удалось записать журнал доставки",
			slog.String("delivery_id", entry.DeliveryID),
			slog.String("error", err.Error()),
		)
	}
}

// mapBackendError переводит ошибки backend в ошибки сервисного слоя.
func mapBackendError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, backend.ErrForbidden):
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case errors.Is(err, backend.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
}
