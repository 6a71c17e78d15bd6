package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/errors"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/middleware"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
)

type settingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

type settingsListResponse struct {
	Settings []settingResponse `json:"settings"`
}

func toSettingResponse(s repository.Setting) settingResponse {
	return settingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt, UpdatedBy: s.UpdatedBy}
}

// ListSettings — GET /api/v1/settings.
func (h *APIHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	items, err := h.settings.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	resp := settingsListResponse{Settings: make([]settingResponse, 0, len(items))}
	for _, s := range items {
		resp.Settings = append(resp.Settings, toSettingResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSetting — GET /api/v1/settings/{key}.
func (h *APIHandler) GetSetting(w http.ResponseWriter, r *http.Request, settingKey generated.SettingKey) {
	key, ok := requireParam(w, settingKey, "key")
	if !ok {
		return
	}
	s, err := h.settings.Get(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingResponse(*s))
}

// SetSetting — PUT /api/v1/settings/{key}.
func (h *APIHandler) SetSetting(w http.ResponseWriter, r *http.Request, settingKey generated.SettingKey) {
	key, ok := requireParam(w, settingKey, "key")
	if !ok {
		return
	}
	var req generated.SetSettingJSONRequestBody
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.settings.Set(r.Context(), key, req.Value, actor); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	s, err := h.settings.Get(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingResponse(*s))
}
