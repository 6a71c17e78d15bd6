package handlers

import (
	"net/http"

	apierrors "github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/errors"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/service"
)

type conversationResponse struct {
	PartnerID string          `json:"partnerId"`
	Messages  []model.Message `json:"messages"`
}

// GetContacts — GET /api/v1/messages/contacts.
func (h *APIHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.messages.Contacts(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// GetUnread — GET /api/v1/messages/unread.
// available=false означает, что счётчики ещё не загружены или недоступны.
func (h *APIHandler) GetUnread(w http.ResponseWriter, _ *http.Request) {
	h.ensureOpen(service.ViewMessages)
	state := h.messages.Unread()
	if state.Counts == nil {
		state.Counts = map[string]int{}
	}
	writeJSON(w, http.StatusOK, state)
}

// OpenConversation — GET /api/v1/messages/conversations/{id}.
// Загружает переписку, отмечает её прочитанной и запускает её опрос.
func (h *APIHandler) OpenConversation(w http.ResponseWriter, r *http.Request, id generated.Id) {
	partnerID, ok := requireParam(w, id, "id")
	if !ok {
		return
	}
	messages, err := h.messages.OpenConversation(r.Context(), partnerID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	writeJSON(w, http.StatusOK, conversationResponse{PartnerID: partnerID, Messages: messages})
}

// CloseConversation — DELETE /api/v1/messages/conversations/{id}.
func (h *APIHandler) CloseConversation(w http.ResponseWriter, r *http.Request, id generated.Id) {
	partnerID, ok := requireParam(w, id, "id")
	if !ok {
		return
	}
	if err := h.messages.CloseConversation(partnerID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage — POST /api/v1/messages/send.
func (h *APIHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req generated.SendMessageJSONRequestBody
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	msg, err := h.messages.Send(r.Context(), req.DriverId, req.Content)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
