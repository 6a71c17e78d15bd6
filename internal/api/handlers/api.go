package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/presence"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

var _ generated.ServerInterface = (*APIHandler)(nil)

// PresenceReader — представление присутствия.
type PresenceReader interface {
	Open() error
	Snapshot() presence.Snapshot
}

// OperationsReader — представление операций и оповещения.
type OperationsReader interface {
	Open() error
	Snapshot() service.OperationsSnapshot
	Dashboard() service.Dashboard
	Alerts() []model.Alert
	DismissAlert(ctx context.Context, alertID, dismissedBy string) (time.Time, error)
}

// DeliveryCommander — команды над доставками.
type DeliveryCommander interface {
	Transitions(ctx context.Context, deliveryID string) (*service.TransitionInfo, error)
	UpdateStatus(ctx context.Context, deliveryID, rawStatus, actor string) (model.Delivery, error)
	Assign(ctx context.Context, deliveryID, driverID, actor string) (model.Delivery, error)
}

// Messenger — переписка с водителями.
type Messenger interface {
	OpenUnread() error
	Unread() service.UnreadState
	Contacts(ctx context.Context) (*model.Contacts, error)
	OpenConversation(ctx context.Context, partnerID string) ([]model.Message, error)
	CloseConversation(partnerID string) error
	Send(ctx context.Context, driverID, content string) (*model.Message, error)
}

// ViewManager — реестр представлений с учётом клиентов.
type ViewManager interface {
	List() []service.ViewStatus
	SetVisible(name, client string, visible bool) error
	Teardown(name, client string) error
}

// SettingsManager — runtime-настройки.
type SettingsManager interface {
	List(ctx context.Context) ([]repository.Setting, error)
	Get(ctx context.Context, key string) (*repository.Setting, error)
	Set(ctx context.Context, key, value, updatedBy string) error
}

// Deps — зависимости APIHandler.
type Deps struct {
	Health     *HealthHandler
	Presence   PresenceReader
	Operations OperationsReader
	Deliveries DeliveryCommander
	Messages   Messenger
	Views      ViewManager
	Settings   SettingsManager
}

// APIHandler — реализация generated.ServerInterface.
// Health и metrics делегируются в HealthHandler, /api/v1 — в сервисный слой.
type APIHandler struct {
	health     *HealthHandler
	presence   PresenceReader
	operations OperationsReader
	deliveries DeliveryCommander
	messages   Messenger
	views      ViewManager
	settings   SettingsManager
	// openers — повторное открытие представлений после teardown
	openers map[string]func() error
	logger  *slog.Logger
}

// NewAPIHandler создаёт обработчик API.
func NewAPIHandler(deps Deps, logger *slog.Logger) *APIHandler {
	health := deps.Health
	if health == nil {
		health = NewHealthHandler(nil, nil)
	}
	h := &APIHandler{
		health:     health,
		presence:   deps.Presence,
		operations: deps.Operations,
		deliveries: deps.Deliveries,
		messages:   deps.Messages,
		views:      deps.Views,
		settings:   deps.Settings,
		openers:    make(map[string]func() error),
		logger:     logger.With(slog.String("component", "api_handler")),
	}
	if deps.Presence != nil {
		h.openers[service.ViewPresence] = deps.Presence.Open
	}
	if deps.Operations != nil {
		h.openers[service.ViewOperations] = deps.Operations.Open
	}
	if deps.Messages != nil {
		h.openers[service.ViewMessages] = deps.Messages.OpenUnread
	}
	return h
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// ensureOpen открывает представление, закрытое через teardown.
// Ошибка не прерывает запрос: отдаётся последний снимок.
func (h *APIHandler) ensureOpen(view string) {
	open, ok := h.openers[view]
	if !ok {
		return
	}
	if err := open(); err != nil {
		h.logger.Warn("Не удалось открыть представление",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
	}
}
