package model

import "time"

// DeliveryStatus — статус доставки.
type DeliveryStatus string

const (
	StatusPending                      DeliveryStatus = "pending"
	StatusScheduled                    DeliveryStatus = "scheduled"
	StatusScheduledConfirmed           DeliveryStatus = "scheduled-confirmed"
	StatusOutForDelivery               DeliveryStatus = "out-for-delivery"
	StatusDelivered                    DeliveryStatus = "delivered"
	StatusDeliveredWithoutInstallation DeliveryStatus = "delivered-without-installation"
	StatusCancelled                    DeliveryStatus = "cancelled"
	StatusRescheduled                  DeliveryStatus = "rescheduled"
)

// AllStatuses — все известные статусы в порядке жизненного цикла.
var AllStatuses = []DeliveryStatus{
	StatusPending,
	StatusScheduled,
	StatusScheduledConfirmed,
	StatusOutForDelivery,
	StatusDelivered,
	StatusDeliveredWithoutInstallation,
	StatusCancelled,
	StatusRescheduled,
}

// Location — GPS-позиция водителя.
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Heading   float64   `json:"heading"`
	Speed     float64   `json:"speed"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracking — данные трекинга доставки или водителя.
type Tracking struct {
	DriverID   *string    `json:"driverId,omitempty"`
	Status     *string    `json:"status,omitempty"`
	ETA        *time.Time `json:"eta,omitempty"`
	Location   *Location  `json:"location,omitempty"`
	Online     *bool      `json:"online,omitempty"`
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
}

// Delivery — доставка. Владелец — backend; ядро меняет её только командами.
type Delivery struct {
	ID               string         `json:"id"`
	Status           DeliveryStatus `json:"status"`
	AssignedDriverID *string        `json:"assignedDriverId,omitempty"`
	Tracking         Tracking       `json:"tracking"`
	Customer         string         `json:"customer,omitempty"`
	Address          string         `json:"address,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// DriverID возвращает назначенного водителя: сначала tracking.driverId,
// затем assignedDriverId. Пустая строка — водитель не назначен.
func (d Delivery) DriverID() string {
	if d.Tracking.DriverID != nil && *d.Tracking.DriverID != "" {
		return *d.Tracking.DriverID
	}
	if d.AssignedDriverID != nil && *d.AssignedDriverID != "" {
		return *d.AssignedDriverID
	}
	return ""
}

// Clone возвращает глубокую копию доставки (указатели не разделяются).
func (d Delivery) Clone() Delivery {
	c := d
	c.AssignedDriverID = cloneString(d.AssignedDriverID)
	c.Tracking = d.Tracking.Clone()
	return c
}

// Clone возвращает глубокую копию данных трекинга.
func (t Tracking) Clone() Tracking {
	c := Tracking{
		DriverID:   cloneString(t.DriverID),
		Status:     cloneString(t.Status),
		ETA:        cloneTime(t.ETA),
		LastUpdate: cloneTime(t.LastUpdate),
	}
	if t.Location != nil {
		loc := *t.Location
		c.Location = &loc
	}
	if t.Online != nil {
		online := *t.Online
		c.Online = &online
	}
	return c
}

// Driver — учётная запись водителя с полями присутствия и трекинга.
type Driver struct {
	Account
	Tracking Tracking `json:"tracking"`
}

// IsOnline сообщает, отмечен ли водитель как online в трекинге.
func (d Driver) IsOnline() bool {
	return d.Tracking.Online != nil && *d.Tracking.Online
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
