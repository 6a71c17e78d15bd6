// Пакет presence — определение статуса присутствия (online/offline)
// водителей и операторов.
//
// Двухуровневая стратегия:
//   - список активных сессий доступен → online тогда и только тогда, когда
//     пользователь есть в списке (окно времени не применяется)
//   - список сессий недоступен (сеть, 401/403) → online, если
//     now - lastLoginAt <= window
//
// Все функции чистые: без кэширования и побочных эффектов,
// отсутствие данных означает offline.
package presence

import (
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

// DefaultWindow — окно эвристики последнего входа по умолчанию.
const DefaultWindow = 5 * time.Minute

// Source — источник, по которому вычислен снимок присутствия.
type Source string

const (
	// SourceSessions — список активных сессий (авторитетный источник)
	SourceSessions Source = "sessions"
	// SourceLastLogin — эвристика по времени последнего входа
	SourceLastLogin Source = "last_login"
)

// Snapshot — снимок присутствия, создаётся на каждом опросе и
// заменяется целиком.
type Snapshot struct {
	// Online — userID → online
	Online map[string]bool `json:"online"`
	// Source — использованный источник
	Source Source `json:"source"`
	// ComputedAt — момент вычисления
	ComputedAt time.Time `json:"computedAt"`
}

// IsOnline возвращает статус пользователя; неизвестный пользователь — offline.
func (s Snapshot) IsOnline(userID string) bool {
	return s.Online[userID]
}

// OnlineCount возвращает количество пользователей в статусе online.
func (s Snapshot) OnlineCount() int {
	n := 0
	for _, online := range s.Online {
		if online {
			n++
		}
	}
	return n
}

// Resolve определяет, находится ли пользователь в сети.
//
// sessionsAvailable=false означает, что запрос сессий завершился ошибкой,
// и тогда используется эвристика по accounts и window.
func Resolve(
	userID string,
	sessions []model.Session,
	sessionsAvailable bool,
	accounts []model.Account,
	now time.Time,
	window time.Duration,
) bool {
	if userID == "" {
		return false
	}
	if sessionsAvailable {
		for _, s := range sessions {
			if s.UserID == userID {
				return true
			}
		}
		return false
	}
	for _, a := range accounts {
		if a.ID == userID {
			return recentLogin(a, now, window)
		}
	}
	return false
}

// ResolveAll вычисляет снимок присутствия для всех учётных записей
// и всех пользователей из списка сессий.
func ResolveAll(
	sessions []model.Session,
	sessionsAvailable bool,
	accounts []model.Account,
	now time.Time,
	window time.Duration,
) Snapshot {
	snap := Snapshot{
		Online:     make(map[string]bool, len(accounts)),
		Source:     SourceLastLogin,
		ComputedAt: now,
	}

	if sessionsAvailable {
		snap.Source = SourceSessions
		active := make(map[string]bool, len(sessions))
		for _, s := range sessions {
			if s.UserID != "" {
				active[s.UserID] = true
			}
		}
		for _, a := range accounts {
			if a.ID != "" {
				snap.Online[a.ID] = active[a.ID]
			}
		}
		for id := range active {
			snap.Online[id] = true
		}
		return snap
	}

	for _, a := range accounts {
		if a.ID == "" {
			continue
		}
		snap.Online[a.ID] = recentLogin(a, now, window)
	}
	return snap
}

// recentLogin — эвристика второго уровня.
// Вход «из будущего» (рассинхрон часов) считается недавним.
func recentLogin(a model.Account, now time.Time, window time.Duration) bool {
	if a.LastLoginAt == nil || window <= 0 {
		return false
	}
	return now.Sub(*a.LastLoginAt) <= window
}
