// operations.go — адаптивный опрос водителей и доставок для панели операций.
//
// Водители и доставки запрашиваются параллельно (errgroup) и применяются
// одним снимком. По снимку вычисляются оповещения и счётчики панели.
// Интервал опроса адаптируется по отпечатку данных (xxhash).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/backend"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/alert"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

// OperationsBackend — запросы backend для панели операций.
type OperationsBackend interface {
	TrackingDrivers(ctx context.Context) ([]model.Driver, error)
	TrackingDeliveries(ctx context.Context) ([]model.Delivery, error)
}

// OperationsSnapshot — согласованный снимок водителей и доставок.
type OperationsSnapshot struct {
	Deliveries []model.Delivery `json:"deliveries"`
	Drivers    []model.Driver   `json:"drivers"`
	FetchedAt  time.Time        `json:"fetchedAt"`

	// номер последней команды на момент начала запроса
	commandSeq uint64
}

// Dashboard — сводные счётчики панели операций.
type Dashboard struct {
	TotalDeliveries int                          `json:"totalDeliveries"`
	ByStatus        map[model.DeliveryStatus]int `json:"byStatus"`
	TotalDrivers    int                          `json:"totalDrivers"`
	OnlineDrivers   int                          `json:"onlineDrivers"`
	Alerts          int                          `json:"alerts"`
	AlertsByType    map[model.AlertType]int      `json:"alertsByType"`
	PollIntervalMs  int64                        `json:"pollIntervalMs"`
	LastRefresh     *time.Time                   `json:"lastRefresh,omitempty"`
}

// OperationsService — кэш снимка операций и оповещений.
type OperationsService struct {
	backend OperationsBackend
	alerts  *AlertService
	logger  *slog.Logger
	now     func() time.Time

	view *viewPoller[OperationsSnapshot]

	mu         sync.RWMutex
	snapshot   OperationsSnapshot
	current    []model.Alert
	commandSeq uint64
	overrides  map[string]commandResult
}

// commandResult — результат команды, ещё не подтверждённый опросом.
type commandResult struct {
	delivery model.Delivery
	seq      uint64
}

// NewOperationsService создаёт сервис панели операций. alerts может быть nil.
func NewOperationsService(
	b OperationsBackend,
	alerts *AlertService,
	registry *ViewRegistry,
	strategy poller.Strategy,
	fetchTimeout time.Duration,
	logger *slog.Logger,
) *OperationsService {
	s := &OperationsService{
		backend: b,
		alerts:  alerts,
		logger:  logger.With(slog.String("component", "operations")),
		now:     time.Now,
	}
	s.view = newViewPoller(ViewOperations, registry, func() (*poller.Poller[OperationsSnapshot], error) {
		return poller.New(poller.Config[OperationsSnapshot]{
			Name:        ViewOperations,
			Fetch:       s.fetch,
			Fingerprint: fingerprintOperations,
			Apply:       s.apply,
			Strategy:    strategy,
			Timeout:     fetchTimeout,
			Logger:      logger,
		})
	})
	return s
}

// Start запускает фоновый опрос.
func (s *OperationsService) Start(ctx context.Context) error {
	return s.view.start(ctx)
}

// Stop останавливает опрос.
func (s *OperationsService) Stop() {
	s.view.stop()
}

// Open открывает представление заново после teardown.
func (s *OperationsService) Open() error {
	return s.view.open()
}

// Trigger запрашивает немедленное обновление (после команд над доставками).
func (s *OperationsService) Trigger() {
	s.view.trigger()
}

// ApplyCommandResult вносит результат успешной команды в текущий снимок.
//
// Обновление, начатое до команды, не может вернуть прежнее состояние
// доставки. Первое обновление, начатое после команды, снова берёт данные
// backend.
func (s *OperationsService) ApplyCommandResult(d model.Delivery) {
	s.mu.Lock()
	s.commandSeq++
	if s.overrides == nil {
		s.overrides = make(map[string]commandResult)
	}
	s.overrides[d.ID] = commandResult{delivery: d.Clone(), seq: s.commandSeq}

	snap := s.snapshot
	snap.Deliveries = mergeDelivery(snap.Deliveries, d)
	s.snapshot = snap
	at := snap.FetchedAt
	if at.IsZero() {
		at = s.now()
	}
	s.current = alert.Merge(s.current, alert.Generate(snap.Deliveries, snap.Drivers, at))
	s.mu.Unlock()

	s.publishAlertMetrics()
}

// Snapshot возвращает последний снимок.
func (s *OperationsService) Snapshot() OperationsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Delivery ищет доставку в последнем снимке.
func (s *OperationsService) Delivery(id string) (model.Delivery, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.snapshot.Deliveries {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return model.Delivery{}, false
}

// Alerts возвращает текущие нескрытые оповещения.
func (s *OperationsService) Alerts() []model.Alert {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if s.alerts == nil {
		out := make([]model.Alert, len(current))
		copy(out, current)
		return out
	}
	return s.alerts.Visible(current)
}

// DismissAlert скрывает текущее оповещение; неизвестный ID — ErrNotFound.
func (s *OperationsService) DismissAlert(ctx context.Context, alertID, dismissedBy string) (time.Time, error) {
	if s.alerts == nil {
		return time.Time{}, fmt.Errorf("%w: скрытие оповещений отключено", ErrValidation)
	}

	s.mu.RLock()
	found := false
	for _, a := range s.current {
		if a.ID == alertID {
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return time.Time{}, fmt.Errorf("%w: оповещение %q", ErrNotFound, alertID)
	}

	expiresAt, err := s.alerts.Dismiss(ctx, alertID, dismissedBy)
	if err != nil {
		return time.Time{}, err
	}
	s.publishAlertMetrics()
	return expiresAt, nil
}

// Dashboard вычисляет счётчики по последнему снимку.
func (s *OperationsService) Dashboard() Dashboard {
	snap := s.Snapshot()
	visible := s.Alerts()

	dash := Dashboard{
		TotalDeliveries: len(snap.Deliveries),
		ByStatus:        make(map[model.DeliveryStatus]int, len(model.AllStatuses)),
		TotalDrivers:    len(snap.Drivers),
		Alerts:          len(visible),
		AlertsByType:    alert.CountByType(visible),
	}
	for _, st := range model.AllStatuses {
		dash.ByStatus[st] = 0
	}
	for _, d := range snap.Deliveries {
		dash.ByStatus[d.Status]++
	}
	for _, d := range snap.Drivers {
		if d.IsOnline() {
			dash.OnlineDrivers++
		}
	}
	if p := s.view.poller(); p != nil {
		dash.PollIntervalMs = p.Interval().Milliseconds()
	}
	if !snap.FetchedAt.IsZero() {
		t := snap.FetchedAt
		dash.LastRefresh = &t
	}
	return dash
}

func (s *OperationsService) fetch(ctx context.Context) (OperationsSnapshot, error) {
	var snap OperationsSnapshot
	s.mu.RLock()
	snap.commandSeq = s.commandSeq
	s.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		drivers, err := s.backend.TrackingDrivers(gctx)
		if errors.Is(err, backend.ErrForbidden) {
			s.logger.Warn("Нет прав на трекинг водителей, список пуст")
			return nil
		}
		if err != nil {
			return fmt.Errorf("ошибка получения трекинга водителей: %w", err)
		}
		snap.Drivers = drivers
		return nil
	})
	g.Go(func() error {
		deliveries, err := s.backend.TrackingDeliveries(gctx)
		if errors.Is(err, backend.ErrForbidden) {
			s.logger.Warn("Нет прав на трекинг доставок, список пуст")
			return nil
		}
		if err != nil {
			return fmt.Errorf("ошибка получения трекинга доставок: %w", err)
		}
		snap.Deliveries = deliveries
		return nil
	})
	if err := g.Wait(); err != nil {
		return OperationsSnapshot{}, err
	}

	if snap.Drivers == nil {
		snap.Drivers = []model.Driver{}
	}
	if snap.Deliveries == nil {
		snap.Deliveries = []model.Delivery{}
	}
	snap.FetchedAt = s.now()
	return snap, nil
}

func (s *OperationsService) apply(snap OperationsSnapshot) {
	s.mu.Lock()
	for id, r := range s.overrides {
		if snap.commandSeq >= r.seq {
			delete(s.overrides, id)
			continue
		}
		snap.Deliveries = mergeDelivery(snap.Deliveries, r.delivery)
	}
	generated := alert.Generate(snap.Deliveries, snap.Drivers, snap.FetchedAt)
	s.snapshot = snap
	s.current = alert.Merge(s.current, generated)
	s.mu.Unlock()

	s.publishAlertMetrics()
}

func (s *OperationsService) publishAlertMetrics() {
	counts := alert.CountByType(s.Alerts())
	for _, t := range []model.AlertType{model.AlertUrgent, model.AlertWarning, model.AlertInfo} {
		alertsActive.WithLabelValues(string(t)).Set(float64(counts[t]))
	}
}

// mergeDelivery возвращает копию списка с заменённой (или добавленной) доставкой.
func mergeDelivery(list []model.Delivery, d model.Delivery) []model.Delivery {
	out := make([]model.Delivery, 0, len(list)+1)
	found := false
	for _, cur := range list {
		if cur.ID == d.ID {
			cur = d.Clone()
			found = true
		}
		out = append(out, cur)
	}
	if !found {
		out = append(out, d.Clone())
	}
	return out
}

// fingerprintOperations — отпечаток полей, влияющих на панель и оповещения.
func fingerprintOperations(snap OperationsSnapshot) uint64 {
	h := poller.NewHasher()
	h.Int(len(snap.Deliveries))
	for _, d := range snap.Deliveries {
		h.String(d.ID).String(string(d.Status)).String(d.DriverID())
		hashTime(h, d.Tracking.ETA)
		hashTime(h, &d.UpdatedAt)
	}
	h.Int(len(snap.Drivers))
	for _, d := range snap.Drivers {
		h.String(d.ID).Bool(d.IsOnline()).Bool(d.Active)
		hashTime(h, d.Tracking.LastUpdate)
		if loc := d.Tracking.Location; loc != nil {
			h.String(fmt.Sprintf("%.5f,%.5f", loc.Lat, loc.Lng))
		}
	}
	return h.Sum64()
}

func hashTime(h *poller.Hasher, t *time.Time) {
	if t == nil {
		h.Int(0)
		return
	}
	h.Int(int(t.UnixNano()))
}
