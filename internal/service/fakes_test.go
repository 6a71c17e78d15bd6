package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// waitFor ожидает выполнения условия не дольше 2 секунд.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("не дождались: %s", what)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// fakeBackend — управляемая подмена backend логистики.
type fakeBackend struct {
	mu sync.Mutex

	sessions    []model.Session
	sessionsErr error
	accounts    []model.Driver
	accountsErr error

	drivers       []model.Driver
	driversErr    error
	deliveries    []model.Delivery
	deliveriesErr error

	statusErr error
	assignErr error
	statusPut []string // "id=status"
	assignPut []string // "id=driver"

	contacts      *model.Contacts
	contactsErr   error
	conversations map[string][]model.Message
	convErr       error
	sent          []string
	sendReply     *model.Message
	sendErr       error
	unread        map[string]int
	unreadErr     error
	unreadCalls   int
}

func (f *fakeBackend) ListSessions(context.Context) ([]model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions, f.sessionsErr
}

func (f *fakeBackend) ListAccounts(context.Context) ([]model.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts, f.accountsErr
}

func (f *fakeBackend) TrackingDrivers(context.Context) ([]model.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drivers, f.driversErr
}

func (f *fakeBackend) TrackingDeliveries(context.Context) ([]model.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deliveries, f.deliveriesErr
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id string, status model.DeliveryStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusPut = append(f.statusPut, id+"="+string(status))
	return nil
}

func (f *fakeBackend) AssignDriver(_ context.Context, id, driverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignPut = append(f.assignPut, id+"="+driverID)
	return nil
}

func (f *fakeBackend) Contacts(context.Context) (*model.Contacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contacts, f.contactsErr
}

func (f *fakeBackend) Conversation(_ context.Context, partnerID string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.convErr != nil {
		return nil, f.convErr
	}
	src := f.conversations[partnerID]
	out := make([]model.Message, len(src))
	copy(out, src)
	return out, nil
}

func (f *fakeBackend) SendMessage(_ context.Context, driverID, content string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, driverID+":"+content)
	return f.sendReply, nil
}

func (f *fakeBackend) UnreadCounts(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreadCalls++
	return f.unread, f.unreadErr
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// --- In-memory репозитории ---

type memSettings struct {
	mu   sync.Mutex
	data map[string]repository.Setting
	err  error
}

func newMemSettings() *memSettings {
	return &memSettings{data: make(map[string]repository.Setting)}
}

func (m *memSettings) Get(_ context.Context, key string) (*repository.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memSettings) Set(_ context.Context, key, value, updatedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = repository.Setting{Key: key, Value: value, UpdatedBy: updatedBy, UpdatedAt: time.Now()}
	return nil
}

func (m *memSettings) List(context.Context) ([]repository.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.Setting, 0, len(m.data))
	for _, s := range m.data {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memSettings) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.data, key)
	return nil
}

type memDismissals struct {
	mu   sync.Mutex
	data map[string]repository.AlertDismissal
}

func newMemDismissals() *memDismissals {
	return &memDismissals{data: make(map[string]repository.AlertDismissal)}
}

func (m *memDismissals) Dismiss(_ context.Context, alertID, by string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[alertID] = repository.AlertDismissal{AlertID: alertID, DismissedBy: by, DismissedAt: time.Now(), ExpiresAt: expiresAt}
	return nil
}

func (m *memDismissals) ListActive(_ context.Context, now time.Time) ([]repository.AlertDismissal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.AlertDismissal
	for _, d := range m.data {
		if d.ExpiresAt.After(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDismissals) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, d := range m.data {
		if !d.ExpiresAt.After(now) {
			delete(m.data, id)
			n++
		}
	}
	return n, nil
}

type memTransitions struct {
	mu   sync.Mutex
	data []repository.DeliveryTransition
}

func (m *memTransitions) Create(_ context.Context, t *repository.DeliveryTransition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	m.data = append(m.data, *t)
	return nil
}

func (m *memTransitions) ListByDelivery(_ context.Context, deliveryID string, limit int) ([]repository.DeliveryTransition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.DeliveryTransition
	for i := len(m.data) - 1; i >= 0 && len(out) < limit; i-- {
		if m.data[i].DeliveryID == deliveryID {
			out = append(out, m.data[i])
		}
	}
	return out, nil
}

func (m *memTransitions) results() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for _, t := range m.data {
		out = append(out, strings.Join([]string{t.Action, t.Result}, ":"))
	}
	return out
}
