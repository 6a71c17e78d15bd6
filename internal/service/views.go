// views.go — реестр представлений консоли и их поллеров.
//
// Представление (operations, presence, messages, conversation:<id>) владеет
// одним или несколькими поллерами. Видимость и teardown задаются каждым
// клиентом отдельно: поллеры приостанавливаются, только когда представление
// скрыто у всех клиентов, и останавливаются, когда его отпустил последний клиент.
package service

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

// Имена представлений.
const (
	ViewOperations = "operations"
	ViewPresence   = "presence"
	ViewMessages   = "messages"
	// Префикс представления открытой переписки: conversation:<partnerId>
	ViewConversationPrefix = "conversation:"
)

// Controller — управляемый поллер представления.
type Controller interface {
	Name() string
	Status() poller.Status
	SetVisible(visible bool)
	Stop()
}

// ViewStatus — состояние представления для API.
type ViewStatus struct {
	Name    string          `json:"name"`
	Visible bool            `json:"visible"`
	Clients int             `json:"clients"`
	Pollers []poller.Status `json:"pollers"`
}

type viewEntry struct {
	controllers []Controller
	// clients — видимость представления у каждого клиента
	clients    map[string]bool
	visible    bool
	onTeardown func()
}

// effectiveVisible — представление видимо, пока хотя бы один клиент его
// не скрыл. Без клиентов представление видимо.
func (e *viewEntry) effectiveVisible() bool {
	if len(e.clients) == 0 {
		return true
	}
	for _, v := range e.clients {
		if v {
			return true
		}
	}
	return false
}

// ViewRegistry — реестр открытых представлений.
type ViewRegistry struct {
	mu     sync.Mutex
	views  map[string]*viewEntry
	logger *slog.Logger
}

// NewViewRegistry создаёт пустой реестр.
func NewViewRegistry(logger *slog.Logger) *ViewRegistry {
	return &ViewRegistry{
		views:  make(map[string]*viewEntry),
		logger: logger.With(slog.String("component", "views")),
	}
}

// Register добавляет представление. Уже зарегистрированное представление
// с тем же именем предварительно закрывается. Новое представление
// наследует клиентов и их видимость.
func (r *ViewRegistry) Register(name string, onTeardown func(), controllers ...Controller) {
	r.mu.Lock()
	prev := r.views[name]
	entry := &viewEntry{controllers: controllers, clients: make(map[string]bool), onTeardown: onTeardown}
	if prev != nil {
		for c, v := range prev.clients {
			entry.clients[c] = v
		}
	}
	entry.visible = true
	entry.sync()
	r.views[name] = entry
	r.mu.Unlock()

	if prev != nil {
		stopEntry(prev)
	}
	r.logger.Debug("Представление зарегистрировано", slog.String("view", name))
}

// SetVisible задаёт видимость представления для клиента.
// Поллеры приостанавливаются, когда представление скрыто у всех клиентов.
func (r *ViewRegistry) SetVisible(name, client string, visible bool) error {
	r.mu.Lock()
	entry, ok := r.views[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: представление %q", ErrNotFound, name)
	}
	entry.clients[client] = visible
	entry.sync()
	effective := entry.visible
	r.mu.Unlock()

	r.logger.Debug("Видимость представления изменена",
		slog.String("view", name),
		slog.String("client", client),
		slog.Bool("visible", visible),
		slog.Bool("effective", effective),
	)
	return nil
}

// Teardown отпускает представление клиентом. Поллеры останавливаются,
// когда представление не удерживает ни один клиент.
func (r *ViewRegistry) Teardown(name, client string) error {
	r.mu.Lock()
	entry, ok := r.views[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: представление %q", ErrNotFound, name)
	}
	delete(entry.clients, client)
	if len(entry.clients) > 0 {
		entry.sync()
		remaining := len(entry.clients)
		r.mu.Unlock()

		r.logger.Debug("Клиент отпустил представление",
			slog.String("view", name),
			slog.String("client", client),
			slog.Int("remaining", remaining),
		)
		return nil
	}
	delete(r.views, name)
	r.mu.Unlock()

	stopEntry(entry)
	r.logger.Info("Представление закрыто", slog.String("view", name))
	return nil
}

// sync пересчитывает видимость и передаёт изменение поллерам.
// Вызывается под мьютексом реестра: SetVisible поллера не блокирует.
func (e *viewEntry) sync() {
	next := e.effectiveVisible()
	if next == e.visible {
		return
	}
	e.visible = next
	for _, c := range e.controllers {
		c.SetVisible(next)
	}
}

// release удаляет представление без teardown-колбэка, если в реестре
// всё ещё тот же набор поллеров.
func (r *ViewRegistry) release(name string, c Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.views[name]; ok && len(entry.controllers) > 0 && entry.controllers[0] == c {
		delete(r.views, name)
	}
}

// List возвращает состояния представлений, отсортированные по имени.
func (r *ViewRegistry) List() []ViewStatus {
	r.mu.Lock()
	out := make([]ViewStatus, 0, len(r.views))
	for name, entry := range r.views {
		vs := ViewStatus{Name: name, Visible: entry.visible, Clients: len(entry.clients), Pollers: make([]poller.Status, 0, len(entry.controllers))}
		for _, c := range entry.controllers {
			vs.Pollers = append(vs.Pollers, c.Status())
		}
		out = append(out, vs)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StopAll закрывает все представления (завершение процесса).
func (r *ViewRegistry) StopAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*viewEntry)
	r.mu.Unlock()

	for _, entry := range views {
		stopEntry(entry)
	}
	r.logger.Info("Все представления остановлены", slog.Int("count", len(views)))
}

func stopEntry(entry *viewEntry) {
	for _, c := range entry.controllers {
		c.Stop()
	}
	if entry.onTeardown != nil {
		entry.onTeardown()
	}
}
