package handlers

import (
	"net/http"

	apierrors "github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/errors"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/middleware"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

type viewsResponse struct {
	Views []service.ViewStatus `json:"views"`
}

// viewClient — клиент представления: оператор (sub) и, при наличии,
// его вкладка из X-Client-Id.
func viewClient(r *http.Request, clientID *generated.ClientId) string {
	client := middleware.SubjectFromContext(r.Context())
	if clientID != nil && *clientID != "" {
		client += "/" + *clientID
	}
	return client
}

// ListViews — GET /api/v1/views.
func (h *APIHandler) ListViews(w http.ResponseWriter, _ *http.Request) {
	views := h.views.List()
	if views == nil {
		views = []service.ViewStatus{}
	}
	writeJSON(w, http.StatusOK, viewsResponse{Views: views})
}

// SetViewVisibility — PUT /api/v1/views/{name}/visibility.
// Видимость задаётся для клиента; закрытое основное представление
// открывается заново.
func (h *APIHandler) SetViewVisibility(w http.ResponseWriter, r *http.Request, viewName generated.ViewName, params generated.SetViewVisibilityParams) {
	name, ok := requireParam(w, viewName, "name")
	if !ok {
		return
	}
	var req generated.SetViewVisibilityJSONRequestBody
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	h.ensureOpen(name)
	if err := h.views.SetVisible(name, viewClient(r, params.XClientId), req.Visible); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TeardownView — DELETE /api/v1/views/{name}.
// Поллеры останавливаются, когда представление отпустил последний клиент.
func (h *APIHandler) TeardownView(w http.ResponseWriter, r *http.Request, viewName generated.ViewName, params generated.TeardownViewParams) {
	name, ok := requireParam(w, viewName, "name")
	if !ok {
		return
	}
	if err := h.views.Teardown(name, viewClient(r, params.XClientId)); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
