package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/backend"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

func newTestOperations(b *fakeBackend, alerts *AlertService) *OperationsService {
	return NewOperationsService(b, alerts, NewViewRegistry(testLogger()),
		poller.FixedStrategy{Period: time.Hour}, time.Second, testLogger())
}

func refreshOperations(t *testing.T, s *OperationsService) {
	t.Helper()
	snap, err := s.fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch() ошибка: %v", err)
	}
	s.apply(snap)
}

func operationsFixture(now time.Time) *fakeBackend {
	online := true
	return &fakeBackend{
		drivers: []model.Driver{
			{
				Account:  model.Account{ID: "u1", Name: "Ali", Role: model.RoleDriver, Active: true},
				Tracking: model.Tracking{Online: &online, LastUpdate: timePtr(now.Add(-time.Minute))},
			},
			{Account: model.Account{ID: "u2", Role: model.RoleDriver, Active: true}},
		},
		deliveries: []model.Delivery{
			{ID: "d1", Status: model.StatusPending},
			{
				ID: "d2", Status: model.StatusOutForDelivery, AssignedDriverID: strPtr("u1"),
				Tracking: model.Tracking{ETA: timePtr(now.Add(-45 * time.Minute))},
			},
			{ID: "d3", Status: model.StatusDelivered},
		},
	}
}

func TestOperationsService_SnapshotAndAlerts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestOperations(operationsFixture(now), nil)
	s.now = func() time.Time { return now }

	refreshOperations(t, s)

	if got := len(s.Snapshot().Deliveries); got != 3 {
		t.Errorf("Deliveries = %d, ожидали 3", got)
	}
	ids := map[string]bool{}
	for _, a := range s.Alerts() {
		ids[a.ID] = true
	}
	for _, want := range []string{"unassigned-d1", "delay-d2", "nogps-u2"} {
		if !ids[want] {
			t.Errorf("нет оповещения %s, получено %v", want, ids)
		}
	}

	d, ok := s.Delivery("d2")
	if !ok || d.DriverID() != "u1" {
		t.Errorf("Delivery(d2) = %+v, %v", d, ok)
	}
	if _, ok := s.Delivery("missing"); ok {
		t.Error("Delivery(missing) должен вернуть false")
	}
}

func TestOperationsService_AlertTimestampStableAcrossTicks(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestOperations(operationsFixture(now), nil)
	s.now = func() time.Time { return now }
	refreshOperations(t, s)

	first := map[string]time.Time{}
	for _, a := range s.Alerts() {
		first[a.ID] = a.Timestamp
	}

	s.now = func() time.Time { return now.Add(time.Minute) }
	refreshOperations(t, s)
	for _, a := range s.Alerts() {
		if ts, ok := first[a.ID]; ok && !ts.Equal(a.Timestamp) {
			t.Errorf("Timestamp %s изменился: %v → %v", a.ID, ts, a.Timestamp)
		}
	}
}

func TestOperationsService_Dashboard(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestOperations(operationsFixture(now), nil)
	s.now = func() time.Time { return now }
	refreshOperations(t, s)

	dash := s.Dashboard()
	if dash.TotalDeliveries != 3 || dash.TotalDrivers != 2 || dash.OnlineDrivers != 1 {
		t.Errorf("Dashboard = %+v", dash)
	}
	if dash.ByStatus[model.StatusPending] != 1 || dash.ByStatus[model.StatusCancelled] != 0 {
		t.Errorf("ByStatus = %v", dash.ByStatus)
	}
	if dash.AlertsByType[model.AlertUrgent] != 1 {
		t.Errorf("AlertsByType = %v, ожидали 1 urgent", dash.AlertsByType)
	}
	if dash.LastRefresh == nil || !dash.LastRefresh.Equal(now) {
		t.Errorf("LastRefresh = %v, ожидали %v", dash.LastRefresh, now)
	}
}

func TestOperationsService_DismissAlert(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	alerts := NewAlertService(newMemDismissals(), 24*time.Hour, testLogger())
	alerts.now = func() time.Time { return now }
	s := newTestOperations(operationsFixture(now), alerts)
	s.now = func() time.Time { return now }
	refreshOperations(t, s)

	before := len(s.Alerts())
	expiresAt, err := s.DismissAlert(context.Background(), "delay-d2", "op")
	if err != nil {
		t.Fatalf("DismissAlert() ошибка: %v", err)
	}
	if !expiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("expiresAt = %v, ожидали now+24h", expiresAt)
	}
	if got := len(s.Alerts()); got != before-1 {
		t.Errorf("Alerts() = %d, ожидали %d", got, before-1)
	}

	// Скрытие истекает
	alerts.now = func() time.Time { return now.Add(25 * time.Hour) }
	if got := len(s.Alerts()); got != before {
		t.Errorf("после истечения Alerts() = %d, ожидали %d", got, before)
	}

	if _, err := s.DismissAlert(context.Background(), "delay-unknown", "op"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DismissAlert(unknown) = %v, ожидали ErrNotFound", err)
	}
}

func TestOperationsService_ForbiddenDegradesToEmpty(t *testing.T) {
	b := &fakeBackend{driversErr: backend.ErrForbidden, deliveriesErr: backend.ErrForbidden}
	s := newTestOperations(b, nil)

	refreshOperations(t, s)

	snap := s.Snapshot()
	if snap.Drivers == nil || snap.Deliveries == nil || len(snap.Drivers)+len(snap.Deliveries) != 0 {
		t.Errorf("снимок = %+v, ожидали пустые списки", snap)
	}
}

func TestOperationsService_TransientErrorKeepsSnapshot(t *testing.T) {
	now := time.Now()
	b := operationsFixture(now)
	s := newTestOperations(b, nil)
	refreshOperations(t, s)

	b.set(func(f *fakeBackend) { f.deliveriesErr = &backend.StatusError{Operation: "tracking_deliveries", Code: 503} })
	if _, err := s.fetch(context.Background()); err == nil {
		t.Fatal("fetch() должен вернуть ошибку при 503")
	}
	if len(s.Snapshot().Deliveries) != 3 {
		t.Error("предыдущий снимок должен сохраниться")
	}
}

func TestOperationsService_CommandResultSurvivesEarlierRefresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := operationsFixture(now)
	s := newTestOperations(b, nil)
	s.now = func() time.Time { return now }
	refreshOperations(t, s)

	// Запрос начат до команды, применён после неё
	stale, err := s.fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch() ошибка: %v", err)
	}
	s.ApplyCommandResult(model.Delivery{ID: "d1", Status: model.StatusScheduled})
	s.apply(stale)

	if d, _ := s.Delivery("d1"); d.Status != model.StatusScheduled {
		t.Errorf("Status = %q, ожидали scheduled", d.Status)
	}

	// Обновление, начатое после команды, снова отражает backend
	b.set(func(f *fakeBackend) {
		f.deliveries = []model.Delivery{
			{ID: "d1", Status: model.StatusScheduledConfirmed},
			f.deliveries[1],
			f.deliveries[2],
		}
	})
	refreshOperations(t, s)
	if d, _ := s.Delivery("d1"); d.Status != model.StatusScheduledConfirmed {
		t.Errorf("Status = %q, ожидали scheduled-confirmed", d.Status)
	}
	if got := len(s.Snapshot().Deliveries); got != 3 {
		t.Errorf("Deliveries = %d, ожидали 3", got)
	}
}

func TestFingerprintOperations(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := operationsFixture(now)
	snap := OperationsSnapshot{Deliveries: b.deliveries, Drivers: b.drivers, FetchedAt: now}

	fp := fingerprintOperations(snap)
	snap.FetchedAt = now.Add(time.Hour)
	if fingerprintOperations(snap) != fp {
		t.Error("время опроса не должно влиять на отпечаток")
	}

	changed := snap
	changed.Deliveries = append([]model.Delivery(nil), snap.Deliveries...)
	changed.Deliveries[0].Status = model.StatusScheduled
	if fingerprintOperations(changed) == fp {
		t.Error("смена статуса должна менять отпечаток")
	}
}

func TestAlertService_LoadAndPurge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newMemDismissals()
	_ = repo.Dismiss(context.Background(), "idle-u1", "op", now.Add(time.Hour))
	_ = repo.Dismiss(context.Background(), "nogps-u2", "op", now.Add(-time.Hour))

	s := NewAlertService(repo, time.Hour, testLogger())
	s.now = func() time.Time { return now }
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() ошибка: %v", err)
	}
	if !s.IsDismissed("idle-u1") || s.IsDismissed("nogps-u2") {
		t.Error("загружены неверные скрытия")
	}

	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	s.purge(context.Background())
	if s.IsDismissed("idle-u1") {
		t.Error("истёкшее скрытие должно быть удалено")
	}
	if left, _ := repo.ListActive(context.Background(), time.Time{}); len(left) != 0 {
		t.Errorf("в репозитории осталось %d скрытий", len(left))
	}

	if _, err := s.Dismiss(context.Background(), "  ", "op"); !errors.Is(err, ErrValidation) {
		t.Errorf("Dismiss(пусто) = %v, ожидали ErrValidation", err)
	}
}

func pollerFixed(d time.Duration) poller.Strategy {
	return poller.FixedStrategy{Period: d}
}
