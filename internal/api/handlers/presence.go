package handlers

import (
	"net/http"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/presence"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

type presenceResponse struct {
	Online      map[string]bool `json:"online"`
	OnlineCount int             `json:"onlineCount"`
	Source      presence.Source `json:"source"`
	ComputedAt  *time.Time      `json:"computedAt,omitempty"`
}

type userPresenceResponse struct {
	UserID string          `json:"userId"`
	Online bool            `json:"online"`
	Source presence.Source `json:"source"`
}

// GetPresence — GET /api/v1/presence.
func (h *APIHandler) GetPresence(w http.ResponseWriter, _ *http.Request) {
	h.ensureOpen(service.ViewPresence)
	snap := h.presence.Snapshot()

	resp := presenceResponse{
		Online:      snap.Online,
		OnlineCount: snap.OnlineCount(),
		Source:      snap.Source,
	}
	if resp.Online == nil {
		resp.Online = map[string]bool{}
	}
	if !snap.ComputedAt.IsZero() {
		at := snap.ComputedAt
		resp.ComputedAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUserPresence — GET /api/v1/presence/{userId}.
// Неизвестный пользователь считается offline.
func (h *APIHandler) GetUserPresence(w http.ResponseWriter, _ *http.Request, userId string) { //nolint:revive // имя из сгенерированного интерфейса oapi-codegen
	userID, ok := requireParam(w, userId, "userId")
	if !ok {
		return
	}
	h.ensureOpen(service.ViewPresence)
	snap := h.presence.Snapshot()
	writeJSON(w, http.StatusOK, userPresenceResponse{
		UserID: userID,
		Online: snap.IsOnline(userID),
		Source: snap.Source,
	})
}
