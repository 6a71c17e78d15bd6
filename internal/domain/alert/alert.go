// Пакет alert — вычисление операционных оповещений по снимкам
// доставок и водителей.
//
// Виды оповещений:
//   - delay-<deliveryId> — ETA просрочен более чем на DelayThreshold (urgent)
//   - idle-<driverId> — водитель online, но трекинг не обновлялся IdleThreshold (warning)
//   - unassigned-<deliveryId> — доставка без водителя (warning)
//   - nogps-<driverId> — у водителя нет ни одного обновления трекинга (warning)
//
// Generate — тотальная функция без побочных эффектов.
package alert

import (
	"fmt"
	"sort"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/delivery"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

const (
	// DelayThreshold — просрочка ETA, после которой доставка считается задержанной.
	DelayThreshold = 30 * time.Minute
	// IdleThreshold — возраст последнего обновления трекинга online-водителя.
	IdleThreshold = 30 * time.Minute
)

// Generate вычисляет оповещения по снимкам на момент now.
// Результат отсортирован по ID и не содержит дубликатов.
func Generate(deliveries []model.Delivery, drivers []model.Driver, now time.Time) []model.Alert {
	byID := make(map[string]model.Alert)
	add := func(a model.Alert) {
		if _, exists := byID[a.ID]; !exists {
			byID[a.ID] = a
		}
	}

	for _, d := range deliveries {
		// Завершённые доставки не требуют действий диспетчера.
		if d.ID == "" || delivery.IsTerminal(d.Status) {
			continue
		}

		if eta := d.Tracking.ETA; eta != nil {
			if late := now.Sub(*eta); late > DelayThreshold {
				minutes := int(late / time.Minute)
				add(model.Alert{
					ID:        model.AlertID(model.AlertKindDelay, d.ID),
					Kind:      model.AlertKindDelay,
					Type:      model.AlertUrgent,
					Title:     "Delayed delivery",
					Message:   fmt.Sprintf("Delayed by %d minutes", minutes),
					SubjectID: d.ID,
					Timestamp: now,
				})
			}
		}

		if d.DriverID() == "" {
			add(model.Alert{
				ID:        model.AlertID(model.AlertKindUnassigned, d.ID),
				Kind:      model.AlertKindUnassigned,
				Type:      model.AlertWarning,
				Title:     "Unassigned delivery",
				Message:   fmt.Sprintf("Delivery %s has no driver assigned", d.ID),
				SubjectID: d.ID,
				Timestamp: now,
			})
		}
	}

	for _, drv := range drivers {
		if drv.ID == "" {
			continue
		}
		last := drv.Tracking.LastUpdate
		if last == nil {
			add(model.Alert{
				ID:        model.AlertID(model.AlertKindNoGPS, drv.ID),
				Kind:      model.AlertKindNoGPS,
				Type:      model.AlertWarning,
				Title:     "No GPS data",
				Message:   fmt.Sprintf("Driver %s has not reported a location", driverLabel(drv)),
				SubjectID: drv.ID,
				Timestamp: now,
			})
			continue
		}
		if drv.IsOnline() {
			if idle := now.Sub(*last); idle > IdleThreshold {
				add(model.Alert{
					ID:        model.AlertID(model.AlertKindIdle, drv.ID),
					Kind:      model.AlertKindIdle,
					Type:      model.AlertWarning,
					Title:     "Idle driver",
					Message:   fmt.Sprintf("Driver %s idle for %d minutes", driverLabel(drv), int(idle/time.Minute)),
					SubjectID: drv.ID,
					Timestamp: now,
				})
			}
		}
	}

	return sortedValues(byID)
}

// Merge объединяет оповещения предыдущего и текущего тика.
// Остаются только оповещения из next; для уже известных ID сохраняется
// Timestamp первого появления.
func Merge(prev, next []model.Alert) []model.Alert {
	firstSeen := make(map[string]time.Time, len(prev))
	for _, a := range prev {
		firstSeen[a.ID] = a.Timestamp
	}

	byID := make(map[string]model.Alert, len(next))
	for _, a := range next {
		if _, dup := byID[a.ID]; dup {
			continue
		}
		if ts, ok := firstSeen[a.ID]; ok {
			a.Timestamp = ts
		}
		byID[a.ID] = a
	}
	return sortedValues(byID)
}

// Filter возвращает оповещения, для которых hidden возвращает false.
func Filter(alerts []model.Alert, hidden func(id string) bool) []model.Alert {
	result := make([]model.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !hidden(a.ID) {
			result = append(result, a)
		}
	}
	return result
}

// CountByType подсчитывает оповещения по уровням.
func CountByType(alerts []model.Alert) map[model.AlertType]int {
	counts := make(map[model.AlertType]int, 3)
	for _, a := range alerts {
		counts[a.Type]++
	}
	return counts
}

func driverLabel(d model.Driver) string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

func sortedValues(byID map[string]model.Alert) []model.Alert {
	result := make([]model.Alert, 0, len(byID))
	for _, a := range byID {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
