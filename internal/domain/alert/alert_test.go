package alert

import (
	"reflect"
	"testing"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }
func ptrStr(s string) *string        { return &s }
func ptrBool(b bool) *bool           { return &b }

func findAlert(alerts []model.Alert, id string) (model.Alert, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return model.Alert{}, false
}

// TestGenerate_Delayed проверяет пример: ETA просрочен на 45 минут.
func TestGenerate_Delayed(t *testing.T) {
	deliveries := []model.Delivery{{
		ID:     "D1",
		Status: model.StatusOutForDelivery,
		Tracking: model.Tracking{
			DriverID: ptrStr("drv-1"),
			ETA:      ptrTime(now.Add(-45 * time.Minute)),
		},
	}}

	alerts := Generate(deliveries, nil, now)
	a, ok := findAlert(alerts, "delay-D1")
	if !ok {
		t.Fatalf("ожидалось оповещение delay-D1, получено %+v", alerts)
	}
	if a.Type != model.AlertUrgent {
		t.Errorf("Type = %q, ожидался urgent", a.Type)
	}
	if a.Message != "Delayed by 45 minutes" {
		t.Errorf("Message = %q", a.Message)
	}
	if len(alerts) != 1 {
		t.Errorf("ожидалось 1 оповещение, получено %d", len(alerts))
	}
}

// TestGenerate_DelayThreshold проверяет границу 30 минут и конечные статусы.
func TestGenerate_DelayThreshold(t *testing.T) {
	tests := []struct {
		name   string
		status model.DeliveryStatus
		late   time.Duration
		want   bool
	}{
		{"ровно 30 минут", model.StatusOutForDelivery, 30 * time.Minute, false},
		{"30 минут и секунда", model.StatusOutForDelivery, 30*time.Minute + time.Second, true},
		{"ETA в будущем", model.StatusScheduled, -10 * time.Minute, false},
		{"доставлена", model.StatusDelivered, 2 * time.Hour, false},
		{"отменена", model.StatusCancelled, 2 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := model.Delivery{
				ID:               "D1",
				Status:           tt.status,
				AssignedDriverID: ptrStr("drv-1"),
				Tracking:         model.Tracking{ETA: ptrTime(now.Add(-tt.late))},
			}
			_, got := findAlert(Generate([]model.Delivery{d}, nil, now), "delay-D1")
			if got != tt.want {
				t.Errorf("delay-D1 присутствует = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}

// TestGenerate_Unassigned проверяет доставки без водителя.
func TestGenerate_Unassigned(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "D1", Status: model.StatusPending},
		{ID: "D2", Status: model.StatusPending, AssignedDriverID: ptrStr("drv-1")},
		{ID: "D3", Status: model.StatusPending, Tracking: model.Tracking{DriverID: ptrStr("drv-2")}},
		{ID: "D4", Status: model.StatusDelivered},
	}
	alerts := Generate(deliveries, nil, now)
	if len(alerts) != 1 || alerts[0].ID != "unassigned-D1" || alerts[0].Type != model.AlertWarning {
		t.Errorf("ожидалось одно оповещение unassigned-D1, получено %+v", alerts)
	}
}

// TestGenerate_Drivers проверяет оповещения idle и nogps.
func TestGenerate_Drivers(t *testing.T) {
	drivers := []model.Driver{
		{Account: model.Account{ID: "idle"}, Tracking: model.Tracking{Online: ptrBool(true), LastUpdate: ptrTime(now.Add(-31 * time.Minute))}},
		{Account: model.Account{ID: "fresh"}, Tracking: model.Tracking{Online: ptrBool(true), LastUpdate: ptrTime(now.Add(-5 * time.Minute))}},
		{Account: model.Account{ID: "offline"}, Tracking: model.Tracking{Online: ptrBool(false), LastUpdate: ptrTime(now.Add(-3 * time.Hour))}},
		{Account: model.Account{ID: "nogps", Name: "Omar"}},
	}

	alerts := Generate(nil, drivers, now)
	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	want := []string{"idle-idle", "nogps-nogps"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ID оповещений = %v, ожидалось %v", ids, want)
	}
	if a, _ := findAlert(alerts, "nogps-nogps"); a.Message != "Driver Omar has not reported a location" {
		t.Errorf("Message = %q", a.Message)
	}
}

// TestGenerate_Deterministic проверяет детерминизм и неизменность входа.
func TestGenerate_Deterministic(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "D1", Status: model.StatusPending, Tracking: model.Tracking{ETA: ptrTime(now.Add(-time.Hour))}},
		{ID: "D1", Status: model.StatusPending},
		{ID: "D2", Status: model.StatusScheduled, AssignedDriverID: ptrStr("drv-1")},
	}
	drivers := []model.Driver{{Account: model.Account{ID: "drv-1"}}}
	before := make([]model.Delivery, len(deliveries))
	for i, d := range deliveries {
		before[i] = d.Clone()
	}

	first := Generate(deliveries, drivers, now)
	second := Generate(deliveries, drivers, now)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("повторный вызов дал другой результат:\n%+v\n%+v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("ожидалось 3 оповещения (delay-D1, nogps-drv-1, unassigned-D1), получено %d: %+v", len(first), first)
	}
	if !reflect.DeepEqual(before, deliveries) {
		t.Error("Generate изменил входные доставки")
	}
}

// TestMerge проверяет сохранение времени первого появления и дедупликацию.
func TestMerge(t *testing.T) {
	earlier := now.Add(-10 * time.Minute)
	prev := []model.Alert{
		{ID: "delay-D1", Timestamp: earlier},
		{ID: "idle-X", Timestamp: earlier},
	}
	next := []model.Alert{
		{ID: "delay-D1", Timestamp: now},
		{ID: "delay-D1", Timestamp: now},
		{ID: "unassigned-D2", Timestamp: now},
	}

	merged := Merge(prev, next)
	if len(merged) != 2 {
		t.Fatalf("ожидалось 2 оповещения, получено %d: %+v", len(merged), merged)
	}
	if a, _ := findAlert(merged, "delay-D1"); !a.Timestamp.Equal(earlier) {
		t.Errorf("delay-D1 Timestamp = %v, ожидалось %v", a.Timestamp, earlier)
	}
	if _, ok := findAlert(merged, "idle-X"); ok {
		t.Error("idle-X отсутствует в текущем тике и не должен остаться")
	}
}

// TestFilterAndCount проверяет скрытие и подсчёт оповещений.
func TestFilterAndCount(t *testing.T) {
	alerts := []model.Alert{
		{ID: "delay-D1", Type: model.AlertUrgent},
		{ID: "idle-X", Type: model.AlertWarning},
		{ID: "nogps-Y", Type: model.AlertWarning},
	}
	visible := Filter(alerts, func(id string) bool { return id == "idle-X" })
	if len(visible) != 2 {
		t.Errorf("ожидалось 2 видимых оповещения, получено %d", len(visible))
	}
	counts := CountByType(visible)
	if counts[model.AlertUrgent] != 1 || counts[model.AlertWarning] != 1 {
		t.Errorf("CountByType = %v", counts)
	}
}
