// Пакет delivery — конечный автомат статусов доставки и назначения водителя.
//
// Жизненный цикл:
//   - pending → scheduled | out-for-delivery | cancelled
//   - scheduled → scheduled-confirmed | cancelled | rescheduled
//   - scheduled-confirmed → out-for-delivery | cancelled | rescheduled
//   - out-for-delivery → delivered | delivered-without-installation | cancelled
//
// delivered, delivered-without-installation, cancelled и rescheduled — конечные.
// Перенос (rescheduled) порождает новую доставку, а не переход из конечного статуса.
//
// Функции пакета не изменяют входную доставку и возвращают новое значение.
package delivery

import (
	"errors"
	"fmt"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

// Коды ошибок перехода.
const (
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
)

var (
	// ErrInvalidDriver — водитель отсутствует в списке активных водителей.
	ErrInvalidDriver = errors.New("водитель не найден среди активных")
	// ErrTerminal — доставка в конечном статусе, назначение невозможно.
	ErrTerminal = errors.New("доставка в конечном статусе")
)

// validTransitions — матрица допустимых переходов.
// Ключ — текущий статус, значение — набор допустимых целевых статусов.
var validTransitions = map[model.DeliveryStatus]map[model.DeliveryStatus]bool{
	model.StatusPending: {
		model.StatusScheduled:      true,
		model.StatusOutForDelivery: true,
		model.StatusCancelled:      true,
	},
	model.StatusScheduled: {
		model.StatusScheduledConfirmed: true,
		model.StatusCancelled:          true,
		model.StatusRescheduled:        true,
	},
	model.StatusScheduledConfirmed: {
		model.StatusOutForDelivery: true,
		model.StatusCancelled:      true,
		model.StatusRescheduled:    true,
	},
	model.StatusOutForDelivery: {
		model.StatusDelivered:                    true,
		model.StatusDeliveredWithoutInstallation: true,
		model.StatusCancelled:                    true,
	},
	model.StatusDelivered:                    {},
	model.StatusDeliveredWithoutInstallation: {},
	model.StatusCancelled:                    {},
	model.StatusRescheduled:                  {},
}

// TransitionError — ошибка смены статуса доставки.
type TransitionError struct {
	Code    string               // INVALID_STATUS, INVALID_TRANSITION
	Message string               // Человекочитаемое описание
	From    model.DeliveryStatus // Текущий статус
	To      model.DeliveryStatus // Запрошенный статус
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidStatus проверяет, является ли статус известным.
func IsValidStatus(s model.DeliveryStatus) bool {
	_, ok := validTransitions[s]
	return ok
}

// ParseStatus преобразует строку в DeliveryStatus.
func ParseStatus(s string) (model.DeliveryStatus, error) {
	st := model.DeliveryStatus(s)
	if !IsValidStatus(st) {
		return "", &TransitionError{
			Code:    CodeInvalidStatus,
			Message: fmt.Sprintf("недопустимый статус доставки: %q", s),
			To:      st,
		}
	}
	return st, nil
}

// IsTerminal сообщает, является ли статус конечным.
// Неизвестный статус конечным не считается.
func IsTerminal(s model.DeliveryStatus) bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// CanTransition проверяет допустимость перехода from → to.
func CanTransition(from, to model.DeliveryStatus) bool {
	return validTransitions[from][to]
}

// AllowedNext возвращает допустимые целевые статусы в порядке жизненного цикла.
func AllowedNext(s model.DeliveryStatus) []model.DeliveryStatus {
	next := validTransitions[s]
	result := make([]model.DeliveryStatus, 0, len(next))
	for _, st := range model.AllStatuses {
		if next[st] {
			result = append(result, st)
		}
	}
	return result
}

// ApplyStatus проверяет переход и возвращает доставку с новым статусом.
//
// Ошибки:
//   - INVALID_STATUS — целевой статус неизвестен
//   - INVALID_TRANSITION — переход отсутствует в матрице
func ApplyStatus(d model.Delivery, target model.DeliveryStatus) (model.Delivery, error) {
	if !IsValidStatus(target) {
		return d, &TransitionError{
			Code:    CodeInvalidStatus,
			Message: fmt.Sprintf("недопустимый статус доставки: %q", target),
			From:    d.Status,
			To:      target,
		}
	}
	if !CanTransition(d.Status, target) {
		return d, &TransitionError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("переход %s → %s недопустим", d.Status, target),
			From:    d.Status,
			To:      target,
		}
	}
	return ForceStatus(d, target), nil
}

// ForceStatus устанавливает статус без проверки матрицы переходов.
// Используется в разрешительном режиме совместимости.
func ForceStatus(d model.Delivery, target model.DeliveryStatus) model.Delivery {
	out := d.Clone()
	out.Status = target
	return out
}

// Assign назначает (или переназначает) водителя на доставку.
//
// Допустимо в любом не конечном статусе. Повторное назначение того же
// водителя возвращает идентичную доставку без ошибки.
//
// Ошибки:
//   - ErrInvalidDriver — driverID отсутствует в roster
//   - ErrTerminal — доставка в конечном статусе
func Assign(d model.Delivery, driverID string, roster map[string]bool) (model.Delivery, error) {
	if driverID == "" || !roster[driverID] {
		return d, fmt.Errorf("%w: %q", ErrInvalidDriver, driverID)
	}
	if IsTerminal(d.Status) {
		return d, fmt.Errorf("%w: %s", ErrTerminal, d.Status)
	}

	out := d.Clone()
	id := driverID
	tid := driverID
	out.AssignedDriverID = &id
	out.Tracking.DriverID = &tid
	return out, nil
}

// IsSameAssignment сообщает, что водитель уже назначен на доставку
// (повторное назначение ничего не меняет).
func IsSameAssignment(d model.Delivery, driverID string) bool {
	return d.AssignedDriverID != nil && *d.AssignedDriverID == driverID &&
		d.Tracking.DriverID != nil && *d.Tracking.DriverID == driverID
}
