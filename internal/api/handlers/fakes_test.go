package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/delivery"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/presence"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePresence — PresenceReader с фиксированным снимком.
type fakePresence struct {
	snap  presence.Snapshot
	opens int
}

func (f *fakePresence) Open() error { f.opens++; return nil }
func (f *fakePresence) Snapshot() presence.Snapshot { return f.snap }

// fakeOperations — OperationsReader.
type fakeOperations struct {
	snap      service.OperationsSnapshot
	dashboard service.Dashboard
	alerts    []model.Alert
	dismissed map[string]string
	opens     int
}

func (f *fakeOperations) Open() error { f.opens++; return nil }
func (f *fakeOperations) Snapshot() service.OperationsSnapshot { return f.snap }
func (f *fakeOperations) Dashboard() service.Dashboard { return f.dashboard }
func (f *fakeOperations) Alerts() []model.Alert { return f.alerts }
func (f *fakeOperations) DismissAlert(_ context.Context, id, by string) (time.Time, error) {
	for _, a := range f.alerts {
		if a.ID == id {
			if f.dismissed == nil {
				f.dismissed = map[string]string{}
			}
			f.dismissed[id] = by
			return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: оповещение %q", service.ErrNotFound, id)
}

// fakeDeliveries — DeliveryCommander поверх доменного автомата.
type fakeDeliveries struct {
	items   map[string]model.Delivery
	roster  map[string]bool
	history []repository.DeliveryTransition
	backend error
	actor   string
}

func (f *fakeDeliveries) get(id string) (model.Delivery, error) {
	d, ok := f.items[id]
	if !ok {
		return model.Delivery{}, fmt.Errorf("%w: доставка %q", service.ErrNotFound, id)
	}
	return d, nil
}

func (f *fakeDeliveries) Transitions(_ context.Context, id string) (*service.TransitionInfo, error) {
	d, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return &service.TransitionInfo{
		DeliveryID:  d.ID,
		Status:      d.Status,
		Terminal:    delivery.IsTerminal(d.Status),
		AllowedNext: delivery.AllowedNext(d.Status),
		Enforced:    true,
		History:     f.history,
	}, nil
}

func (f *fakeDeliveries) UpdateStatus(_ context.Context, id, raw, actor string) (model.Delivery, error) {
	target, err := delivery.ParseStatus(raw)
	if err != nil {
		return model.Delivery{}, err
	}
	d, err := f.get(id)
	if err != nil {
		return model.Delivery{}, err
	}
	next, err := delivery.ApplyStatus(d, target)
	if err != nil {
		return model.Delivery{}, err
	}
	if f.backend != nil {
		return model.Delivery{}, f.backend
	}
	f.actor = actor
	f.items[id] = next
	return next, nil
}

func (f *fakeDeliveries) Assign(_ context.Context, id, driverID, actor string) (model.Delivery, error) {
	d, err := f.get(id)
	if err != nil {
		return model.Delivery{}, err
	}
	next, err := delivery.Assign(d, driverID, f.roster)
	if err != nil {
		return model.Delivery{}, err
	}
	f.actor = actor
	f.items[id] = next
	return next, nil
}

// fakeMessenger — Messenger.
type fakeMessenger struct {
	mu          sync.Mutex
	unread      service.UnreadState
	contacts    *model.Contacts
	contactsErr error
	convs       map[string][]model.Message
	open        map[string]bool
	sent        []model.Message
	opens       int
}

func (f *fakeMessenger) OpenUnread() error { f.opens++; return nil }
func (f *fakeMessenger) Unread() service.UnreadState { return f.unread }
func (f *fakeMessenger) Contacts(context.Context) (*model.Contacts, error) {
	return f.contacts, f.contactsErr
}

func (f *fakeMessenger) OpenConversation(_ context.Context, id string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs, ok := f.convs[id]
	if !ok {
		return nil, fmt.Errorf("%w: собеседник %q", service.ErrNotFound, id)
	}
	if f.open == nil {
		f.open = map[string]bool{}
	}
	f.open[id] = true
	return msgs, nil
}

func (f *fakeMessenger) CloseConversation(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open[id] {
		return fmt.Errorf("%w: переписка %q не открыта", service.ErrNotFound, id)
	}
	delete(f.open, id)
	return nil
}

func (f *fakeMessenger) Send(_ context.Context, driverID, content string) (*model.Message, error) {
	if strings.TrimSpace(driverID) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: пустое сообщение", service.ErrValidation)
	}
	msg := model.Message{ID: fmt.Sprintf("m%d", len(f.sent)+1), DriverID: driverID, Content: content, SenderRole: model.RoleAdmin}
	f.sent = append(f.sent, msg)
	return &msg, nil
}

// fakeViews — ViewManager, запоминающий клиентов.
type fakeViews struct {
	views   map[string]bool
	clients []string
}

func (f *fakeViews) List() []service.ViewStatus {
	out := make([]service.ViewStatus, 0, len(f.views))
	for name, visible := range f.views {
		out = append(out, service.ViewStatus{Name: name, Visible: visible})
	}
	return out
}

func (f *fakeViews) SetVisible(name, client string, visible bool) error {
	if _, ok := f.views[name]; !ok {
		return fmt.Errorf("%w: представление %q", service.ErrNotFound, name)
	}
	f.views[name] = visible
	f.clients = append(f.clients, client)
	return nil
}

func (f *fakeViews) Teardown(name, client string) error {
	if _, ok := f.views[name]; !ok {
		return fmt.Errorf("%w: представление %q", service.ErrNotFound, name)
	}
	delete(f.views, name)
	f.clients = append(f.clients, client)
	return nil
}

// fakeSettings — SettingsManager с проверкой ключа.
type fakeSettings struct {
	items map[string]repository.Setting
}

func (f *fakeSettings) List(context.Context) ([]repository.Setting, error) {
	out := make([]repository.Setting, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSettings) Get(_ context.Context, key string) (*repository.Setting, error) {
	s, ok := f.items[key]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSettings) Set(_ context.Context, key, value, by string) error {
	if key != service.SettingPresenceWindow && key != service.SettingEnforceTransitions {
		return fmt.Errorf("%w: недопустимый ключ настройки %q", service.ErrValidation, key)
	}
	f.items[key] = repository.Setting{Key: key, Value: value, UpdatedBy: by, UpdatedAt: time.Now()}
	return nil
}

// testEnv — обработчик с фейковыми зависимостями и chi-роутером.
type testEnv struct {
	presence   *fakePresence
	operations *fakeOperations
	deliveries *fakeDeliveries
	messages   *fakeMessenger
	views      *fakeViews
	settings   *fakeSettings
	headers    map[string]string
	router     http.Handler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		presence:   &fakePresence{},
		operations: &fakeOperations{},
		deliveries: &fakeDeliveries{items: map[string]model.Delivery{}, roster: map[string]bool{}},
		messages:   &fakeMessenger{convs: map[string][]model.Message{}},
		views:      &fakeViews{views: map[string]bool{}},
		settings:   &fakeSettings{items: map[string]repository.Setting{}},
	}
	h := NewAPIHandler(Deps{
		Presence:   env.presence,
		Operations: env.operations,
		Deliveries: env.deliveries,
		Messages:   env.messages,
		Views:      env.views,
		Settings:   env.settings,
	}, testLogger())

	r := generated.Handler(h)
	env.router = r
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
