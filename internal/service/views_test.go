package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

type fakeController struct {
	mu      sync.Mutex
	name    string
	visible bool
	stopped bool
}

func newFakeController(name string) *fakeController {
	return &fakeController{name: name, visible: true}
}

func (c *fakeController) Name() string { return c.name }

func (c *fakeController) Status() poller.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return poller.Status{Name: c.name, Running: !c.stopped, Visible: c.visible}
}

func (c *fakeController) SetVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = v
}

func (c *fakeController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

func TestViewRegistry_VisibilityAndTeardown(t *testing.T) {
	reg := NewViewRegistry(testLogger())
	a, b := newFakeController("a"), newFakeController("b")
	tornDown := false
	reg.Register("operations", func() { tornDown = true }, a, b)

	if err := reg.SetVisible("operations", "op-1", false); err != nil {
		t.Fatalf("SetVisible() ошибка: %v", err)
	}
	if a.Status().Visible || b.Status().Visible {
		t.Error("поллеры представления должны стать скрытыми")
	}

	list := reg.List()
	if len(list) != 1 || list[0].Visible || list[0].Clients != 1 || len(list[0].Pollers) != 2 {
		t.Errorf("List() = %+v", list)
	}

	if err := reg.Teardown("operations", "op-1"); err != nil {
		t.Fatalf("Teardown() ошибка: %v", err)
	}
	if a.Status().Running || !tornDown {
		t.Error("Teardown должен остановить поллеры и вызвать колбэк")
	}
	if !a.stopped || !b.stopped {
		t.Error("поллеры не остановлены")
	}
	if err := reg.Teardown("operations", "op-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Teardown() = %v, ожидали ErrNotFound", err)
	}
	if err := reg.SetVisible("operations", "op-1", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetVisible() закрытого представления = %v, ожидали ErrNotFound", err)
	}
}

func TestViewRegistry_ReRegisterKeepsVisibility(t *testing.T) {
	reg := NewViewRegistry(testLogger())
	first := newFakeController("first")
	reg.Register("presence", nil, first)
	_ = reg.SetVisible("presence", "op-1", false)

	second := newFakeController("second")
	reg.Register("presence", nil, second)

	if !first.stopped {
		t.Error("предыдущий поллер представления должен быть остановлен")
	}
	if second.Status().Visible {
		t.Error("новый поллер должен унаследовать скрытость представления")
	}
}

func TestViewRegistry_IndependentClients(t *testing.T) {
	reg := NewViewRegistry(testLogger())
	c := newFakeController("operations")
	tornDown := false
	reg.Register("operations", func() { tornDown = true }, c)

	_ = reg.SetVisible("operations", "op-1", true)
	_ = reg.SetVisible("operations", "op-2", false)
	if !c.Status().Visible {
		t.Error("скрытие у одного клиента не должно приостанавливать опрос другого")
	}

	_ = reg.SetVisible("operations", "op-1", false)
	if c.Status().Visible {
		t.Error("представление скрыто у всех клиентов, опрос должен приостановиться")
	}

	_ = reg.SetVisible("operations", "op-2", true)
	if err := reg.Teardown("operations", "op-2"); err != nil {
		t.Fatalf("Teardown(op-2) ошибка: %v", err)
	}
	if c.stopped || tornDown {
		t.Fatal("teardown одного клиента не должен останавливать представление другого")
	}
	// op-1 остался и скрыл представление
	if c.Status().Visible {
		t.Error("после ухода op-2 видимость определяется op-1")
	}

	if err := reg.Teardown("operations", "op-1"); err != nil {
		t.Fatalf("Teardown(op-1) ошибка: %v", err)
	}
	if !c.stopped || !tornDown {
		t.Error("последний клиент отпустил представление, поллеры должны остановиться")
	}
}

func TestViewRegistry_StopAll(t *testing.T) {
	reg := NewViewRegistry(testLogger())
	a, b := newFakeController("a"), newFakeController("b")
	reg.Register("x", nil, a)
	reg.Register("y", nil, b)

	reg.StopAll()

	if !a.stopped || !b.stopped {
		t.Error("StopAll должен остановить все поллеры")
	}
	if len(reg.List()) != 0 {
		t.Error("реестр должен быть пуст после StopAll")
	}
}
