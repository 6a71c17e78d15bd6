// Пакет unread — счётчики непрочитанных сообщений по собеседникам.
//
// Авторитетный источник — backend (GET /messages/unread); локально счётчик
// собеседника оптимистично обнуляется при открытии переписки.
//
// Порядок определяется логическими часами: обновление, запрос которого
// начался до MarkRead(p), не может вернуть счётчик p выше нуля.
// Побеждает последний по логическому времени, а не по времени завершения.
package unread

import "sync"

// Ticket — логическая метка начала запроса счётчиков.
type Ticket uint64

// Tracker — потокобезопасный трекер непрочитанных сообщений.
type Tracker struct {
	mu        sync.RWMutex
	clock     uint64
	counts    map[string]int
	readAt    map[string]uint64 // собеседник → логическое время последнего прочтения
	available bool
	applied   uint64 // логическое время последнего применённого обновления
}

// NewTracker создаёт пустой трекер. До первого обновления данные недоступны.
func NewTracker() *Tracker {
	return &Tracker{
		counts: make(map[string]int),
		readAt: make(map[string]uint64),
	}
}

// BeginRefresh фиксирует логическое время начала запроса счётчиков.
func (t *Tracker) BeginRefresh() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock++
	return Ticket(t.clock)
}

// ApplyRefresh заменяет счётчики целиком ответом backend.
//
// Собеседники, прочитанные после выдачи ticket, остаются равными нулю.
// Ответ, запрос которого начался раньше уже применённого, отбрасывается.
// Возвращает false, если ответ отброшен.
func (t *Tracker) ApplyRefresh(ticket Ticket, serverCounts map[string]int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if uint64(ticket) < t.applied {
		return false
	}

	counts := make(map[string]int, len(serverCounts))
	for partner, n := range serverCounts {
		if partner == "" || n <= 0 {
			continue
		}
		if t.readAt[partner] > uint64(ticket) {
			continue
		}
		counts[partner] = n
	}

	t.counts = counts
	t.available = true
	t.applied = uint64(ticket)
	t.pruneReads()
	return true
}

// MarkUnavailable обрабатывает отказ в доступе (403): данных нет,
// это не ошибка для пользователя.
func (t *Tracker) MarkUnavailable(ticket Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if uint64(ticket) < t.applied {
		return
	}
	t.counts = make(map[string]int)
	t.available = false
	t.applied = uint64(ticket)
}

// MarkRead оптимистично обнуляет счётчик собеседника
// и продвигает логические часы.
func (t *Tracker) MarkRead(partner string) {
	if partner == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clock++
	t.readAt[partner] = t.clock
	delete(t.counts, partner)
}

// Count возвращает счётчик собеседника.
func (t *Tracker) Count(partner string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[partner]
}

// Counts возвращает копию счётчиков.
func (t *Tracker) Counts() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]int, len(t.counts))
	for partner, n := range t.counts {
		result[partner] = n
	}
	return result
}

// Total возвращает сумму непрочитанных сообщений.
func (t *Tracker) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Available сообщает, есть ли у оператора доступ к счётчикам.
func (t *Tracker) Available() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.available
}

// pruneReads удаляет отметки прочтения, которые уже не могут повлиять
// на будущие обновления (все новые билеты выдаются позже applied).
// Вызывается под блокировкой.
func (t *Tracker) pruneReads() {
	for partner, at := range t.readAt {
		if at <= t.applied {
			delete(t.readAt, partner)
		}
	}
}
