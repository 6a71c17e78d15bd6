// messages.go — счётчики непрочитанных и открытые переписки.
//
// Счётчики опрашиваются отдельным поллером представления messages.
// Каждая открытая переписка получает собственный поллер
// (conversation:<partnerId>) и кэшируется в expirable LRU.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/backend"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/unread"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

// maxMessageLength — ограничение длины исходящего сообщения.
const maxMessageLength = 4000

// MessagingBackend — запросы backend для сообщений.
type MessagingBackend interface {
	Contacts(ctx context.Context) (*model.Contacts, error)
	Conversation(ctx context.Context, partnerID string) ([]model.Message, error)
	SendMessage(ctx context.Context, driverID, content string) (*model.Message, error)
	UnreadCounts(ctx context.Context) (map[string]int, error)
}

// MessageOptions — параметры опроса и кэша сообщений.
type MessageOptions struct {
	UnreadInterval       time.Duration
	ConversationInterval time.Duration
	FetchTimeout         time.Duration
	CacheSize            int
	CacheTTL             time.Duration
}

// UnreadState — счётчики непрочитанных для API.
type UnreadState struct {
	Counts    map[string]int `json:"counts"`
	Total     int            `json:"total"`
	Available bool           `json:"available"`
}

type unreadFetch struct {
	ticket    unread.Ticket
	counts    map[string]int
	forbidden bool
}

// MessageService — сервис сообщений оператора.
type MessageService struct {
	backend  MessagingBackend
	tracker  *unread.Tracker
	registry *ViewRegistry
	opts     MessageOptions
	logger   *slog.Logger

	cache      *expirable.LRU[string, []model.Message]
	unreadView *viewPoller[unreadFetch]

	mu            sync.Mutex
	root          context.Context
	conversations map[string]*viewPoller[[]model.Message]
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(
	b MessagingBackend,
	registry *ViewRegistry,
	opts MessageOptions,
	logger *slog.Logger,
) *MessageService {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	s := &MessageService{
		backend:       b,
		tracker:       unread.NewTracker(),
		registry:      registry,
		opts:          opts,
		logger:        logger.With(slog.String("component", "messages")),
		cache:         expirable.NewLRU[string, []model.Message](opts.CacheSize, nil, opts.CacheTTL),
		conversations: make(map[string]*viewPoller[[]model.Message]),
	}
	s.unreadView = newViewPoller(ViewMessages, registry, func() (*poller.Poller[unreadFetch], error) {
		return poller.New(poller.Config[unreadFetch]{
			Name:     ViewMessages,
			Fetch:    s.fetchUnread,
			Apply:    s.applyUnread,
			Strategy: poller.FixedStrategy{Period: opts.UnreadInterval},
			Timeout:  opts.FetchTimeout,
			Logger:   logger,
		})
	})
	return s
}

// Start запускает опрос счётчиков непрочитанных.
func (s *MessageService) Start(ctx context.Context) error {
	s.mu.Lock()
	s.root = ctx
	s.mu.Unlock()
	return s.unreadView.start(ctx)
}

// Stop останавливает все поллеры сообщений.
func (s *MessageService) Stop() {
	s.unreadView.stop()

	s.mu.Lock()
	convs := s.conversations
	s.conversations = make(map[string]*viewPoller[[]model.Message])
	s.mu.Unlock()

	for _, vp := range convs {
		vp.stop()
	}
	openConversations.Set(0)
}

// OpenUnread открывает представление счётчиков заново после teardown.
func (s *MessageService) OpenUnread() error {
	return s.unreadView.open()
}

// Unread возвращает текущие счётчики.
func (s *MessageService) Unread() UnreadState {
	return UnreadState{
		Counts:    s.tracker.Counts(),
		Total:     s.tracker.Total(),
		Available: s.tracker.Available(),
	}
}

// Contacts возвращает собеседников; отказ в доступе даёт пустой список.
func (s *MessageService) Contacts(ctx context.Context) (*model.Contacts, error) {
	contacts, err := s.backend.Contacts(ctx)
	if errors.Is(err, backend.ErrForbidden) {
		s.logger.Warn("Нет прав на список собеседников, список пуст")
		return &model.Contacts{Contacts: []model.Contact{}, TeamMembers: []model.Contact{}, Drivers: []model.Contact{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения собеседников: %w", mapBackendError(err))
	}
	return contacts, nil
}

// OpenConversation загружает переписку, отмечает её прочитанной и
// запускает её поллер.
func (s *MessageService) OpenConversation(ctx context.Context, partnerID string) ([]model.Message, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, fmt.Errorf("%w: пустой идентификатор собеседника", ErrValidation)
	}

	messages, err := s.backend.Conversation(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения переписки %s: %w", partnerID, mapBackendError(err))
	}
	messages = sortMessages(messages)

	s.cache.Add(partnerID, messages)
	s.tracker.MarkRead(partnerID)
	unreadTotal.Set(float64(s.tracker.Total()))

	if err := s.watchConversation(partnerID); err != nil {
		s.logger.Warn("Не удалось запустить опрос переписки",
			slog.String("partner_id", partnerID),
			slog.String("error", err.Error()),
		)
	}
	return messages, nil
}

// CloseConversation останавливает поллер переписки.
func (s *MessageService) CloseConversation(partnerID string) error {
	s.mu.Lock()
	vp, ok := s.conversations[partnerID]
	delete(s.conversations, partnerID)
	n := len(s.conversations)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: переписка %q не открыта", ErrNotFound, partnerID)
	}

	vp.stop()
	s.cache.Remove(partnerID)
	openConversations.Set(float64(n))
	s.logger.Debug("Переписка закрыта", slog.String("partner_id", partnerID))
	return nil
}

// CachedConversation возвращает переписку из кэша.
func (s *MessageService) CachedConversation(partnerID string) ([]model.Message, bool) {
	return s.cache.Get(partnerID)
}

// Send отправляет сообщение водителю. Ответ backend добавляется в кэш
// открытой переписки.
func (s *MessageService) Send(ctx context.Context, driverID, content string) (*model.Message, error) {
	driverID = strings.TrimSpace(driverID)
	content = strings.TrimSpace(content)
	if driverID == "" {
		return nil, fmt.Errorf("%w: не указан водитель", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: пустое сообщение", ErrValidation)
	}
	if len([]rune(content)) > maxMessageLength {
		return nil, fmt.Errorf("%w: сообщение длиннее %d символов", ErrValidation, maxMessageLength)
	}

	msg, err := s.backend.SendMessage(ctx, driverID, content)
	if err != nil {
		return nil, fmt.Errorf("ошибка отправки сообщения: %w", mapBackendError(err))
	}

	if msg != nil {
		if cached, ok := s.cache.Get(driverID); ok {
			updated := make([]model.Message, 0, len(cached)+1)
			updated = append(updated, cached...)
			updated = append(updated, *msg)
			s.cache.Add(driverID, sortMessages(updated))
		}
	}

	s.mu.Lock()
	vp := s.conversations[driverID]
	s.mu.Unlock()
	if vp != nil {
		vp.trigger()
	}

	s.logger.Info("Сообщение отправлено", slog.String("driver_id", driverID))
	return msg, nil
}

func (s *MessageService) watchConversation(partnerID string) error {
	s.mu.Lock()
	root := s.root
	vp, ok := s.conversations[partnerID]
	if !ok {
		vp = newViewPoller(ViewConversationPrefix+partnerID, s.registry, func() (*poller.Poller[[]model.Message], error) {
			return poller.New(poller.Config[[]model.Message]{
				Name: ViewConversationPrefix + partnerID,
				Fetch: func(ctx context.Context) ([]model.Message, error) {
					return s.backend.Conversation(ctx, partnerID)
				},
				Apply: func(messages []model.Message) {
					s.cache.Add(partnerID, sortMessages(messages))
					s.tracker.MarkRead(partnerID)
				},
				Strategy: poller.FixedStrategy{Period: s.opts.ConversationInterval},
				Timeout:  s.opts.FetchTimeout,
				Logger:   s.logger,
			})
		})
		s.conversations[partnerID] = vp
	}
	n := len(s.conversations)
	s.mu.Unlock()

	openConversations.Set(float64(n))
	if root == nil {
		return nil
	}
	if !ok {
		return vp.start(root)
	}
	return vp.open()
}

func (s *MessageService) fetchUnread(ctx context.Context) (unreadFetch, error) {
	ticket := s.tracker.BeginRefresh()
	counts, err := s.backend.UnreadCounts(ctx)
	if errors.Is(err, backend.ErrForbidden) {
		return unreadFetch{ticket: ticket, forbidden: true}, nil
	}
	if err != nil {
		return unreadFetch{}, fmt.Errorf("ошибка получения счётчиков непрочитанных: %w", err)
	}
	return unreadFetch{ticket: ticket, counts: counts}, nil
}

func (s *MessageService) applyUnread(res unreadFetch) {
	if res.forbidden {
		s.tracker.MarkUnavailable(res.ticket)
	} else if !s.tracker.ApplyRefresh(res.ticket, res.counts) {
		s.logger.Debug("Устаревший ответ счётчиков отброшен")
	}
	unreadTotal.Set(float64(s.tracker.Total()))
}

// sortMessages упорядочивает сообщения по времени создания.
func sortMessages(messages []model.Message) []model.Message {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages
}
