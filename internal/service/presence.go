// presence.go — фоновый расчёт присутствия водителей и операторов.
//
// Каждый опрос параллельно запрашивает список активных сессий и учётные
// записи. Недоступность сессий (сеть, 401/403) не считается ошибкой опроса:
// снимок строится по эвристике последнего входа.
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
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/presence"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

// PresenceBackend — запросы backend, нужные для присутствия.
type PresenceBackend interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
	ListAccounts(ctx context.Context) ([]model.Driver, error)
}

// presenceFetch — сырые данные одного опроса.
type presenceFetch struct {
	sessions          []model.Session
	sessionsAvailable bool
	accounts          []model.Account
	window            time.Duration
	fetchedAt         time.Time
}

// PresenceService — кэш снимка присутствия.
type PresenceService struct {
	backend  PresenceBackend
	settings *SettingsService
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time

	view *viewPoller[presenceFetch]

	mu       sync.RWMutex
	snapshot presence.Snapshot
	accounts []model.Account
}

// PresenceOptions — параметры опроса присутствия.
type PresenceOptions struct {
	// Окно эвристики по умолчанию (перекрывается настройкой presence.window)
	Window       time.Duration
	Interval     time.Duration
	FetchTimeout time.Duration
}

// NewPresenceService создаёт сервис присутствия. settings может быть nil.
func NewPresenceService(
	b PresenceBackend,
	settings *SettingsService,
	registry *ViewRegistry,
	opts PresenceOptions,
	logger *slog.Logger,
) *PresenceService {
	if opts.Window <= 0 {
		opts.Window = presence.DefaultWindow
	}
	s := &PresenceService{
		backend:  b,
		settings: settings,
		window:   opts.Window,
		logger:   logger.With(slog.String("component", "presence")),
		now:      time.Now,
		snapshot: presence.Snapshot{Online: map[string]bool{}, Source: presence.SourceLastLogin},
	}
	s.view = newViewPoller(ViewPresence, registry, func() (*poller.Poller[presenceFetch], error) {
		return poller.New(poller.Config[presenceFetch]{
			Name:     ViewPresence,
			Fetch:    s.fetch,
			Apply:    s.apply,
			Strategy: poller.FixedStrategy{Period: opts.Interval},
			Timeout:  opts.FetchTimeout,
			Logger:   logger,
		})
	})
	return s
}

// Start запускает фоновый опрос.
func (s *PresenceService) Start(ctx context.Context) error {
	return s.view.start(ctx)
}

// Stop останавливает опрос.
func (s *PresenceService) Stop() {
	s.view.stop()
}

// Open открывает представление заново после teardown.
func (s *PresenceService) Open() error {
	return s.view.open()
}

// Snapshot возвращает последний снимок присутствия.
func (s *PresenceService) Snapshot() presence.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// IsOnline возвращает статус пользователя по последнему снимку.
func (s *PresenceService) IsOnline(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.IsOnline(userID)
}

// Accounts возвращает учётные записи последнего опроса.
func (s *PresenceService) Accounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

func (s *PresenceService) fetch(ctx context.Context) (presenceFetch, error) {
	res := presenceFetch{window: s.window}
	if s.settings != nil {
		res.window = s.settings.PresenceWindow(ctx, s.window)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions, err := s.backend.ListSessions(gctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			// Деградация до эвристики последнего входа
			s.logger.Debug("Список сессий недоступен, используется эвристика последнего входа",
				slog.String("error", err.Error()))
			return nil
		}
		res.sessions = sessions
		res.sessionsAvailable = true
		return nil
	})
	g.Go(func() error {
		drivers, err := s.backend.ListAccounts(gctx)
		if errors.Is(err, backend.ErrForbidden) {
			s.logger.Warn("Нет прав на список учётных записей, снимок присутствия пуст")
			return nil
		}
		if err != nil {
			return fmt.Errorf("ошибка получения учётных записей: %w", err)
		}
		res.accounts = make([]model.Account, 0, len(drivers))
		for _, d := range drivers {
			res.accounts = append(res.accounts, d.Account)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return presenceFetch{}, err
	}
	res.fetchedAt = s.now()
	return res, nil
}

func (s *PresenceService) apply(res presenceFetch) {
	snap := presence.ResolveAll(res.sessions, res.sessionsAvailable, res.accounts, res.fetchedAt, res.window)

	s.mu.Lock()
	s.snapshot = snap
	s.accounts = res.accounts
	s.mu.Unlock()

	presenceOnline.Set(float64(snap.OnlineCount()))
}
