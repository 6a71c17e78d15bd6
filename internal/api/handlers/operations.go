package handlers

import (
	"net/http"
	"time"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/middleware"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

type deliveriesResponse struct {
	Deliveries []model.Delivery `json:"deliveries"`
	Total      int              `json:"total"`
	FetchedAt  *time.Time       `json:"fetchedAt,omitempty"`
}

type driversResponse struct {
	Drivers   []model.Driver `json:"drivers"`
	Total     int            `json:"total"`
	FetchedAt *time.Time     `json:"fetchedAt,omitempty"`
}

type alertsResponse struct {
	Alerts []model.Alert `json:"alerts"`
	Total  int           `json:"total"`
}

type dismissResponse struct {
	AlertID        string    `json:"alertId"`
	DismissedUntil time.Time `json:"dismissedUntil"`
}

func fetchedAt(snap service.OperationsSnapshot) *time.Time {
	if snap.FetchedAt.IsZero() {
		return nil
	}
	at := snap.FetchedAt
	return &at
}

// GetDashboard — GET /api/v1/operations/dashboard.
func (h *APIHandler) GetDashboard(w http.ResponseWriter, _ *http.Request) {
	h.ensureOpen(service.ViewOperations)
	writeJSON(w, http.StatusOK, h.operations.Dashboard())
}

// ListDeliveries — GET /api/v1/operations/deliveries.
func (h *APIHandler) ListDeliveries(w http.ResponseWriter, _ *http.Request) {
	h.ensureOpen(service.ViewOperations)
	snap := h.operations.Snapshot()
	items := snap.Deliveries
	if items == nil {
		items = []model.Delivery{}
	}
	writeJSON(w, http.StatusOK, deliveriesResponse{Deliveries: items, Total: len(items), FetchedAt: fetchedAt(snap)})
}

// ListDrivers — GET /api/v1/operations/drivers.
func (h *APIHandler) ListDrivers(w http.ResponseWriter, _ *http.Request) {
	h.ensureOpen(service.ViewOperations)
	snap := h.operations.Snapshot()
	items := snap.Drivers
	if items == nil {
		items = []model.Driver{}
	}
	writeJSON(w, http.StatusOK, driversResponse{Drivers: items, Total: len(items), FetchedAt: fetchedAt(snap)})
}

// ListAlerts — GET /api/v1/alerts.
func (h *APIHandler) ListAlerts(w http.ResponseWriter, _ *http.Request) {
	h.ensureOpen(service.ViewOperations)
	alerts := h.operations.Alerts()
	if alerts == nil {
		alerts = []model.Alert{}
	}
	writeJSON(w, http.StatusOK, alertsResponse{Alerts: alerts, Total: len(alerts)})
}

// DismissAlert — POST /api/v1/alerts/{id}/dismiss.
func (h *APIHandler) DismissAlert(w http.ResponseWriter, r *http.Request, id generated.Id) {
	alertID, ok := requireParam(w, id, "id")
	if !ok {
		return
	}
	until, err := h.operations.DismissAlert(r.Context(), alertID, middleware.ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dismissResponse{AlertID: alertID, DismissedUntil: until})
}
