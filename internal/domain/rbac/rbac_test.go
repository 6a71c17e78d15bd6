package rbac

import (
	"reflect"
	"testing"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

func TestHighestRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  model.Role
	}{
		{"пустой набор", nil, ""},
		{"одна роль", []string{"sales_ops"}, model.RoleSalesOps},
		{"admin выше manager", []string{"manager", "admin"}, model.RoleAdmin},
		{"неизвестные роли игнорируются", []string{"offline_access", "delivery_team", "uma_authorization"}, model.RoleDeliveryTeam},
		{"только неизвестные", []string{"offline_access"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HighestRole(tt.roles); got != tt.want {
				t.Errorf("HighestRole(%v) = %q, хотели %q", tt.roles, got, tt.want)
			}
		})
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role   model.Role
		action Action
		want   bool
	}{
		{model.RoleAdmin, ActionManageSettings, true},
		{model.RoleManager, ActionManageSettings, false},
		{model.RoleDeliveryTeam, ActionDispatch, true},
		{model.RoleSalesOps, ActionView, true},
		{model.RoleSalesOps, ActionDispatch, false},
		{model.RoleSalesOps, ActionMessage, false},
		{model.RoleDriver, ActionView, false},
		{"", ActionView, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.action); got != tt.want {
			t.Errorf("Can(%q, %q) = %v, хотели %v", tt.role, tt.action, got, tt.want)
		}
	}
}

func TestRolesFor(t *testing.T) {
	want := []model.Role{model.RoleAdmin, model.RoleManager, model.RoleDeliveryTeam}
	if got := RolesFor(ActionDispatch); !reflect.DeepEqual(got, want) {
		t.Errorf("RolesFor(dispatch) = %v, хотели %v", got, want)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range []string{"admin", "driver", "delivery_team", "sales_ops", "manager"} {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = false", r)
		}
	}
	if IsValidRole("readonly") {
		t.Error("IsValidRole(readonly) = true")
	}
}
