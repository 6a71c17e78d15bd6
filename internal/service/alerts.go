// alerts.go — скрытие оповещений оператором с ограниченным сроком.
//
// Скрытия хранятся в PostgreSQL (alert_dismissals) и кэшируются в памяти.
// Фоновая горутина периодически удаляет истёкшие записи.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/alert"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
)

// alertPurgeInterval — период очистки истёкших скрытий.
const alertPurgeInterval = time.Hour

// AlertService — кэш скрытых оповещений.
type AlertService struct {
	repo   repository.AlertDismissalRepository
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	dismissed map[string]time.Time // alertID → expiresAt

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAlertService создаёт сервис скрытия оповещений.
func NewAlertService(repo repository.AlertDismissalRepository, ttl time.Duration, logger *slog.Logger) *AlertService {
	return &AlertService{
		repo:      repo,
		ttl:       ttl,
		logger:    logger.With(slog.String("component", "alerts")),
		now:       time.Now,
		dismissed: make(map[string]time.Time),
	}
}

// Load загружает действующие скрытия из БД.
func (s *AlertService) Load(ctx context.Context) error {
	list, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return fmt.Errorf("ошибка загрузки скрытых оповещений: %w", err)
	}

	dismissed := make(map[string]time.Time, len(list))
	for _, d := range list {
		dismissed[d.AlertID] = d.ExpiresAt
	}
	s.mu.Lock()
	s.dismissed = dismissed
	s.mu.Unlock()

	s.logger.Debug("Скрытые оповещения загружены", slog.Int("count", len(dismissed)))
	return nil
}

// Start загружает скрытия и запускает периодическую очистку.
func (s *AlertService) Start(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.logger.Warn("Скрытия не загружены, все оповещения видимы", slog.String("error", err.Error()))
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(alertPurgeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.purge(ctx)
			}
		}
	}()
}

// Stop останавливает очистку и ожидает завершения горутины.
func (s *AlertService) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// Dismiss скрывает оповещение до now+TTL и возвращает срок.
func (s *AlertService) Dismiss(ctx context.Context, alertID, dismissedBy string) (time.Time, error) {
	alertID = strings.TrimSpace(alertID)
	if alertID == "" {
		return time.Time{}, fmt.Errorf("%w: пустой идентификатор оповещения", ErrValidation)
	}

	expiresAt := s.now().Add(s.ttl)
	if err := s.repo.Dismiss(ctx, alertID, dismissedBy, expiresAt); err != nil {
		return time.Time{}, fmt.Errorf("ошибка скрытия оповещения %s: %w", alertID, err)
	}

	s.mu.Lock()
	s.dismissed[alertID] = expiresAt
	s.mu.Unlock()

	s.logger.Info("Оповещение скрыто",
		slog.String("alert_id", alertID),
		slog.String("dismissed_by", dismissedBy),
		slog.Time("expires_at", expiresAt),
	)
	return expiresAt, nil
}

// IsDismissed сообщает, скрыто ли оповещение на текущий момент.
func (s *AlertService) IsDismissed(alertID string) bool {
	s.mu.RLock()
	expiresAt, ok := s.dismissed[alertID]
	s.mu.RUnlock()
	return ok && s.now().Before(expiresAt)
}

// Visible отбрасывает скрытые оповещения.
func (s *AlertService) Visible(alerts []model.Alert) []model.Alert {
	return alert.Filter(alerts, s.IsDismissed)
}

func (s *AlertService) purge(ctx context.Context) {
	now := s.now()
	n, err := s.repo.PurgeExpired(ctx, now)
	if err != nil {
		s.logger.Warn("Ошибка очистки истёкших скрытий", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	for id, expiresAt := range s.dismissed {
		if !now.Before(expiresAt) {
			delete(s.dismissed, id)
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.logger.Info("Истёкшие скрытия удалены", slog.Int64("count", n))
	}
}
