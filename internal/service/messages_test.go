package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/backend"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

func newTestMessages(b *fakeBackend, reg *ViewRegistry) *MessageService {
	return NewMessageService(b, reg, MessageOptions{
		UnreadInterval:       time.Hour,
		ConversationInterval: time.Hour,
		FetchTimeout:         time.Second,
		CacheSize:            8,
		CacheTTL:             time.Minute,
	}, testLogger())
}

func refreshUnread(t *testing.T, s *MessageService) {
	t.Helper()
	res, err := s.fetchUnread(context.Background())
	if err != nil {
		t.Fatalf("fetchUnread() ошибка: %v", err)
	}
	s.applyUnread(res)
}

func TestMessageService_UnreadRefresh(t *testing.T) {
	b := &fakeBackend{unread: map[string]int{"u1": 2, "u2": 3, "u3": 0}}
	s := newTestMessages(b, NewViewRegistry(testLogger()))

	if s.Unread().Available {
		t.Error("до первого обновления данные недоступны")
	}

	refreshUnread(t, s)
	st := s.Unread()
	if !st.Available || st.Total != 5 || st.Counts["u1"] != 2 {
		t.Errorf("Unread() = %+v", st)
	}
	if _, ok := st.Counts["u3"]; ok {
		t.Error("нулевые счётчики не хранятся")
	}
}

func TestMessageService_UnreadForbidden(t *testing.T) {
	b := &fakeBackend{unread: map[string]int{"u1": 1}}
	s := newTestMessages(b, NewViewRegistry(testLogger()))
	refreshUnread(t, s)

	b.set(func(f *fakeBackend) { f.unreadErr = backend.ErrForbidden })
	refreshUnread(t, s)

	st := s.Unread()
	if st.Available || st.Total != 0 || len(st.Counts) != 0 {
		t.Errorf("Unread() после 403 = %+v, ожидали пустые недоступные данные", st)
	}
}

func TestMessageService_UnreadTransientErrorKeepsCounts(t *testing.T) {
	b := &fakeBackend{unread: map[string]int{"u1": 4}}
	s := newTestMessages(b, NewViewRegistry(testLogger()))
	refreshUnread(t, s)

	b.set(func(f *fakeBackend) { f.unreadErr = errors.New("timeout") })
	if _, err := s.fetchUnread(context.Background()); err == nil {
		t.Fatal("fetchUnread() должен вернуть ошибку")
	}
	if s.Unread().Counts["u1"] != 4 {
		t.Error("счётчики должны сохраниться после временной ошибки")
	}
}

func TestMessageService_ReadDuringRefreshStaysZero(t *testing.T) {
	b := &fakeBackend{
		unread:        map[string]int{"u1": 5},
		conversations: map[string][]model.Message{"u1": {{ID: "m1", DriverID: "u1"}}},
	}
	s := newTestMessages(b, NewViewRegistry(testLogger()))

	// Запрос счётчиков начался до открытия переписки
	res, err := s.fetchUnread(context.Background())
	if err != nil {
		t.Fatalf("fetchUnread() ошибка: %v", err)
	}
	if _, err := s.OpenConversation(context.Background(), "u1"); err != nil {
		t.Fatalf("OpenConversation() ошибка: %v", err)
	}
	s.applyUnread(res)

	if got := s.Unread().Counts["u1"]; got != 0 {
		t.Errorf("счётчик u1 = %d, ожидали 0 (прочитано после начала запроса)", got)
	}
}

func TestMessageService_OpenAndCloseConversation(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := &fakeBackend{
		unread: map[string]int{"u1": 2},
		conversations: map[string][]model.Message{"u1": {
			{ID: "m2", DriverID: "u1", CreatedAt: t0.Add(time.Minute)},
			{ID: "m1", DriverID: "u1", CreatedAt: t0},
		}},
	}
	reg := NewViewRegistry(testLogger())
	s := newTestMessages(b, reg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() ошибка: %v", err)
	}
	defer s.Stop()
	waitFor(t, "первое обновление счётчиков", func() bool { return s.Unread().Available })

	msgs, err := s.OpenConversation(ctx, "u1")
	if err != nil {
		t.Fatalf("OpenConversation() ошибка: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "m1" {
		t.Errorf("сообщения = %+v, ожидали сортировку по времени", msgs)
	}
	if s.Unread().Counts["u1"] != 0 {
		t.Error("открытие переписки должно обнулить счётчик")
	}
	if _, ok := s.CachedConversation("u1"); !ok {
		t.Error("переписка должна быть в кэше")
	}

	names := map[string]bool{}
	for _, v := range reg.List() {
		names[v.Name] = true
	}
	if !names[ViewMessages] || !names[ViewConversationPrefix+"u1"] {
		t.Errorf("представления = %v", names)
	}

	if err := s.CloseConversation("u1"); err != nil {
		t.Fatalf("CloseConversation() ошибка: %v", err)
	}
	if _, ok := s.CachedConversation("u1"); ok {
		t.Error("закрытая переписка не должна оставаться в кэше")
	}
	if err := s.CloseConversation("u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный CloseConversation() = %v, ожидали ErrNotFound", err)
	}
	for _, v := range reg.List() {
		if v.Name == ViewConversationPrefix+"u1" {
			t.Error("представление переписки должно быть закрыто")
		}
	}
}

func TestMessageService_OpenConversationErrors(t *testing.T) {
	b := &fakeBackend{convErr: backend.ErrForbidden}
	s := newTestMessages(b, NewViewRegistry(testLogger()))

	if _, err := s.OpenConversation(context.Background(), " "); !errors.Is(err, ErrValidation) {
		t.Errorf("пустой ID = %v, ожидали ErrValidation", err)
	}
	if _, err := s.OpenConversation(context.Background(), "u1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("403 = %v, ожидали ErrForbidden", err)
	}
}

func TestMessageService_Send(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := &fakeBackend{
		conversations: map[string][]model.Message{"u1": {{ID: "m1", DriverID: "u1", CreatedAt: t0}}},
		sendReply:     &model.Message{ID: "m2", DriverID: "u1", Content: "ok", CreatedAt: t0.Add(time.Minute)},
	}
	s := newTestMessages(b, NewViewRegistry(testLogger()))
	if _, err := s.OpenConversation(context.Background(), "u1"); err != nil {
		t.Fatalf("OpenConversation() ошибка: %v", err)
	}

	msg, err := s.Send(context.Background(), "u1", "  ok  ")
	if err != nil {
		t.Fatalf("Send() ошибка: %v", err)
	}
	if msg == nil || msg.ID != "m2" {
		t.Errorf("Send() = %+v", msg)
	}
	if len(b.sent) != 1 || b.sent[0] != "u1:ok" {
		t.Errorf("отправлено = %v, ожидали обрезку пробелов", b.sent)
	}
	cached, _ := s.CachedConversation("u1")
	if len(cached) != 2 || cached[1].ID != "m2" {
		t.Errorf("кэш = %+v, ожидали добавленное сообщение", cached)
	}
}

func TestMessageService_SendValidation(t *testing.T) {
	s := newTestMessages(&fakeBackend{}, NewViewRegistry(testLogger()))

	tests := []struct {
		name    string
		driver  string
		content string
	}{
		{"без водителя", "", "hi"},
		{"пустой текст", "u1", "   "},
		{"слишком длинный", "u1", strings.Repeat("x", maxMessageLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Send(context.Background(), tt.driver, tt.content); !errors.Is(err, ErrValidation) {
				t.Errorf("Send() = %v, ожидали ErrValidation", err)
			}
		})
	}
}

func TestMessageService_ContactsForbidden(t *testing.T) {
	s := newTestMessages(&fakeBackend{contactsErr: backend.ErrForbidden}, NewViewRegistry(testLogger()))

	contacts, err := s.Contacts(context.Background())
	if err != nil {
		t.Fatalf("Contacts() ошибка: %v", err)
	}
	if contacts == nil || len(contacts.Drivers) != 0 {
		t.Errorf("Contacts() = %+v, ожидали пустой список", contacts)
	}
}
