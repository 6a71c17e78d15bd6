// Пакет model — доменные модели Ops Core: учётные записи, сессии, доставки,
// трекинг водителей, сообщения и оповещения.
// Источник данных — REST backend логистики; модели только читаются,
// изменения выполняются командами через backend.
package model

import "time"

// Role — роль учётной записи в системе логистики.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDriver       Role = "driver"
	RoleDeliveryTeam Role = "delivery_team"
	RoleSalesOps     Role = "sales_ops"
	RoleManager      Role = "manager"
)

// Account — учётная запись (владелец — внешний сервис пользователей).
type Account struct {
	// ID — идентификатор учётной записи
	ID string `json:"id"`
	// Role — роль (admin, driver, delivery_team, sales_ops, manager)
	Role Role `json:"role"`
	// Active — учётная запись активна
	Active bool `json:"active"`
	// LastLoginAt — время последнего входа (может отсутствовать)
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	// Name — отображаемое имя
	Name string `json:"name,omitempty"`
	// Email — электронная почта
	Email string `json:"email,omitempty"`
	// Phone — телефон
	Phone string `json:"phone,omitempty"`
}

// IsDriver сообщает, является ли учётная запись водителем.
func (a Account) IsDriver() bool {
	return a.Role == RoleDriver
}

// Session — активная сессия пользователя из backend.
// Токен непрозрачен и никогда не логируется.
type Session struct {
	UserID    string     `json:"userId"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ActiveDriverRoster возвращает множество ID активных водителей.
// Используется для проверки назначения водителя на доставку.
func ActiveDriverRoster(accounts []Account) map[string]bool {
	roster := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.Active && a.IsDriver() {
			roster[a.ID] = true
		}
	}
	return roster
}
