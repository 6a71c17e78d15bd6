package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/errors"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/middleware"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/repository"
)

type transitionRecord struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	DriverID   string    `json:"driverId,omitempty"`
	Actor      string    `json:"actor"`
	Result     string    `json:"result"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type transitionsResponse struct {
	DeliveryID  string                 `json:"deliveryId"`
	Status      model.DeliveryStatus   `json:"status"`
	Terminal    bool                   `json:"terminal"`
	AllowedNext []model.DeliveryStatus `json:"allowedNext"`
	Enforced    bool                   `json:"enforced"`
	History     []transitionRecord     `json:"history"`
}

func toTransitionRecords(items []repository.DeliveryTransition) []transitionRecord {
	out := make([]transitionRecord, 0, len(items))
	for _, t := range items {
		out = append(out, transitionRecord{
			ID:         t.ID,
			Action:     t.Action,
			FromStatus: t.FromStatus,
			ToStatus:   t.ToStatus,
			DriverID:   t.DriverID,
			Actor:      t.Actor,
			Result:     t.Result,
			Error:      t.Error,
			CreatedAt:  t.CreatedAt,
		})
	}
	return out
}

// GetTransitions — GET /api/v1/deliveries/{id}/transitions.
func (h *APIHandler) GetTransitions(w http.ResponseWriter, r *http.Request, deliveryID generated.Id) {
	id, ok := requireParam(w, deliveryID, "id")
	if !ok {
		return
	}
	info, err := h.deliveries.Transitions(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	allowed := info.AllowedNext
	if allowed == nil {
		allowed = []model.DeliveryStatus{}
	}
	writeJSON(w, http.StatusOK, transitionsResponse{
		DeliveryID:  info.DeliveryID,
		Status:      info.Status,
		Terminal:    info.Terminal,
		AllowedNext: allowed,
		Enforced:    info.Enforced,
		History:     toTransitionRecords(info.History),
	})
}

// UpdateDeliveryStatus — PUT /api/v1/deliveries/{id}/status.
func (h *APIHandler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request, deliveryID generated.Id) {
	id, ok := requireParam(w, deliveryID, "id")
	if !ok {
		return
	}
	var req generated.UpdateDeliveryStatusJSONRequestBody
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	d, err := h.deliveries.UpdateStatus(r.Context(), id, req.Status, middleware.ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// AssignDriver — PUT /api/v1/deliveries/{id}/assign.
func (h *APIHandler) AssignDriver(w http.ResponseWriter, r *http.Request, deliveryID generated.Id) {
	id, ok := requireParam(w, deliveryID, "id")
	if !ok {
		return
	}
	var req generated.AssignDriverJSONRequestBody
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if req.DriverId == "" {
		apierrors.ValidationError(w, "Не указан driverId")
		return
	}

	d, err := h.deliveries.Assign(r.Context(), id, req.DriverId, middleware.ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
