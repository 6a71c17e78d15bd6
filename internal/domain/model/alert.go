package model

import "time"

// AlertType — уровень оповещения.
type AlertType string

const (
	AlertUrgent  AlertType = "urgent"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

// AlertKind — вид оповещения; вместе с ID субъекта определяет ID оповещения.
type AlertKind string

const (
	AlertKindDelay      AlertKind = "delay"
	AlertKindIdle       AlertKind = "idle"
	AlertKindUnassigned AlertKind = "unassigned"
	AlertKindNoGPS      AlertKind = "nogps"
)

// Alert — производное оповещение, не хранится.
// ID — чистая функция (Kind, SubjectID): "delay-<deliveryId>", "idle-<driverId>".
type Alert struct {
	ID        string    `json:"id"`
	Kind      AlertKind `json:"kind"`
	Type      AlertType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	SubjectID string    `json:"subjectId"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertID строит детерминированный ID оповещения.
func AlertID(kind AlertKind, subjectID string) string {
	return string(kind) + "-" + subjectID
}
