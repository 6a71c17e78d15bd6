package delivery

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

// TestApplyStatus_Matrix проверяет все пары статусов против матрицы переходов.
func TestApplyStatus_Matrix(t *testing.T) {
	allowed := map[model.DeliveryStatus][]model.DeliveryStatus{
		model.StatusPending:            {model.StatusScheduled, model.StatusOutForDelivery, model.StatusCancelled},
		model.StatusScheduled:          {model.StatusScheduledConfirmed, model.StatusCancelled, model.StatusRescheduled},
		model.StatusScheduledConfirmed: {model.StatusOutForDelivery, model.StatusCancelled, model.StatusRescheduled},
		model.StatusOutForDelivery:     {model.StatusDelivered, model.StatusDeliveredWithoutInstallation, model.StatusCancelled},
	}

	for _, from := range model.AllStatuses {
		want := make(map[model.DeliveryStatus]bool)
		for _, to := range allowed[from] {
			want[to] = true
		}
		for _, to := range model.AllStatuses {
			d := model.Delivery{ID: "D1", Status: from}
			got, err := ApplyStatus(d, to)
			if want[to] {
				if err != nil {
					t.Errorf("%s → %s: неожиданная ошибка: %v", from, to, err)
					continue
				}
				if got.Status != to {
					t.Errorf("%s → %s: статус %q", from, to, got.Status)
				}
				continue
			}
			var te *TransitionError
			if !errors.As(err, &te) {
				t.Errorf("%s → %s: ожидалась TransitionError, получено %v", from, to, err)
				continue
			}
			if te.Code != CodeInvalidTransition {
				t.Errorf("%s → %s: код %q, ожидался %q", from, to, te.Code, CodeInvalidTransition)
			}
			if got.Status != from {
				t.Errorf("%s → %s: при ошибке статус изменился на %q", from, to, got.Status)
			}
		}
	}
}

// TestApplyStatus_Examples проверяет примеры: pending → delivered отклоняется,
// out-for-delivery → delivered принимается.
func TestApplyStatus_Examples(t *testing.T) {
	if _, err := ApplyStatus(model.Delivery{Status: model.StatusPending}, model.StatusDelivered); err == nil {
		t.Error("pending → delivered должен быть отклонён")
	}

	d, err := ApplyStatus(model.Delivery{Status: model.StatusOutForDelivery}, model.StatusDelivered)
	if err != nil {
		t.Fatalf("out-for-delivery → delivered: неожиданная ошибка: %v", err)
	}
	if d.Status != model.StatusDelivered {
		t.Errorf("статус = %q, ожидался delivered", d.Status)
	}
}

// TestApplyStatus_InvalidStatus проверяет неизвестный целевой статус.
func TestApplyStatus_InvalidStatus(t *testing.T) {
	_, err := ApplyStatus(model.Delivery{Status: model.StatusPending}, "lost")
	var te *TransitionError
	if !errors.As(err, &te) || te.Code != CodeInvalidStatus {
		t.Fatalf("ожидалась ошибка INVALID_STATUS, получено %v", err)
	}
}

// TestApplyStatus_DoesNotMutate проверяет, что входная доставка не изменяется.
func TestApplyStatus_DoesNotMutate(t *testing.T) {
	driver := "drv-1"
	d := model.Delivery{ID: "D1", Status: model.StatusPending, AssignedDriverID: &driver}
	got, err := ApplyStatus(d, model.StatusScheduled)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if d.Status != model.StatusPending {
		t.Errorf("входная доставка изменена: %q", d.Status)
	}
	if got.AssignedDriverID == d.AssignedDriverID {
		t.Error("результат разделяет указатель AssignedDriverID с входом")
	}
}

// TestTerminalAndAllowedNext проверяет конечные статусы и порядок AllowedNext.
func TestTerminalAndAllowedNext(t *testing.T) {
	terminal := []model.DeliveryStatus{
		model.StatusDelivered, model.StatusDeliveredWithoutInstallation,
		model.StatusCancelled, model.StatusRescheduled,
	}
	for _, s := range terminal {
		if !IsTerminal(s) {
			t.Errorf("%s должен быть конечным", s)
		}
		if len(AllowedNext(s)) != 0 {
			t.Errorf("AllowedNext(%s) должен быть пуст", s)
		}
	}
	if IsTerminal("unknown") {
		t.Error("неизвестный статус не должен быть конечным")
	}

	want := []model.DeliveryStatus{model.StatusScheduled, model.StatusOutForDelivery, model.StatusCancelled}
	if got := AllowedNext(model.StatusPending); !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedNext(pending) = %v, ожидалось %v", got, want)
	}
}

// TestParseStatus проверяет разбор строки статуса.
func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("scheduled-confirmed"); err != nil || s != model.StatusScheduledConfirmed {
		t.Errorf("ParseStatus(scheduled-confirmed) = %q, %v", s, err)
	}
	if _, err := ParseStatus("Delivered"); err == nil {
		t.Error("ParseStatus чувствителен к регистру, ожидалась ошибка")
	}
}

// TestAssign проверяет назначение водителя.
func TestAssign(t *testing.T) {
	roster := map[string]bool{"drv-1": true, "drv-2": true}

	t.Run("назначение", func(t *testing.T) {
		d := model.Delivery{ID: "D1", Status: model.StatusPending}
		got, err := Assign(d, "drv-1", roster)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if got.DriverID() != "drv-1" || *got.AssignedDriverID != "drv-1" {
			t.Errorf("водитель не назначен: %+v", got)
		}
		if d.AssignedDriverID != nil {
			t.Error("входная доставка изменена")
		}
	})

	t.Run("идемпотентность", func(t *testing.T) {
		d := model.Delivery{ID: "D1", Status: model.StatusScheduled}
		first, err := Assign(d, "drv-1", roster)
		if err != nil {
			t.Fatalf("первое назначение: %v", err)
		}
		second, err := Assign(first, "drv-1", roster)
		if err != nil {
			t.Fatalf("повторное назначение: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("повторное назначение изменило доставку: %+v → %+v", first, second)
		}
		if !IsSameAssignment(second, "drv-1") {
			t.Error("IsSameAssignment должен вернуть true")
		}
	})

	t.Run("переназначение", func(t *testing.T) {
		old := "drv-1"
		d := model.Delivery{ID: "D1", Status: model.StatusOutForDelivery, AssignedDriverID: &old}
		got, err := Assign(d, "drv-2", roster)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if got.DriverID() != "drv-2" {
			t.Errorf("DriverID() = %q, ожидался drv-2", got.DriverID())
		}
	})

	t.Run("неизвестный водитель", func(t *testing.T) {
		_, err := Assign(model.Delivery{Status: model.StatusPending}, "ghost", roster)
		if !errors.Is(err, ErrInvalidDriver) {
			t.Errorf("ожидалась ErrInvalidDriver, получено %v", err)
		}
	})

	t.Run("конечный статус", func(t *testing.T) {
		_, err := Assign(model.Delivery{Status: model.StatusDelivered}, "drv-1", roster)
		if !errors.Is(err, ErrTerminal) {
			t.Errorf("ожидалась ErrTerminal, получено %v", err)
		}
	})
}
