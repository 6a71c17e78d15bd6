// Пакет rbac — права операторов консоли по ролям системы логистики.
//
// Роли берутся из JWT оператора (claim role или realm_access.roles).
// При нескольких ролях используется роль с наибольшими привилегиями.
// Водители к консоли не допускаются.
package rbac

import "github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"

// Action — действие оператора в консоли.
type Action string

const (
	// ActionView — просмотр дашбордов, присутствия и оповещений
	ActionView Action = "view"
	// ActionDispatch — смена статуса и назначение водителя
	ActionDispatch Action = "dispatch"
	// ActionMessage — переписка с водителями
	ActionMessage Action = "message"
	// ActionManageSettings — изменение runtime-настроек
	ActionManageSettings Action = "manage_settings"
)

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[model.Role]int{
	model.RoleDriver:       1,
	model.RoleSalesOps:     2,
	model.RoleDeliveryTeam: 3,
	model.RoleManager:      4,
	model.RoleAdmin:        5,
}

// permissions — матрица допустимых действий для каждой роли.
var permissions = map[model.Role]map[Action]bool{
	model.RoleAdmin:        {ActionView: true, ActionDispatch: true, ActionMessage: true, ActionManageSettings: true},
	model.RoleManager:      {ActionView: true, ActionDispatch: true, ActionMessage: true},
	model.RoleDeliveryTeam: {ActionView: true, ActionDispatch: true, ActionMessage: true},
	model.RoleSalesOps:     {ActionView: true},
	model.RoleDriver:       {},
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[model.Role(role)]
	return ok
}

// HighestRole возвращает максимальную роль из набора.
// Неизвестные роли игнорируются; если подходящих нет — пустая строка.
func HighestRole(roles []string) model.Role {
	var highest model.Role
	for _, r := range roles {
		role := model.Role(r)
		if roleWeight[role] > roleWeight[highest] {
			highest = role
		}
	}
	return highest
}

// Can проверяет, разрешено ли действие роли.
func Can(role model.Role, action Action) bool {
	return permissions[role][action]
}

// RolesFor возвращает роли, которым разрешено действие, по убыванию привилегий.
func RolesFor(action Action) []model.Role {
	ordered := []model.Role{
		model.RoleAdmin, model.RoleManager, model.RoleDeliveryTeam,
		model.RoleSalesOps, model.RoleDriver,
	}
	result := make([]model.Role, 0, len(ordered))
	for _, r := range ordered {
		if permissions[r][action] {
			result = append(result, r)
		}
	}
	return result
}
