package backend

import "github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"

// sessionsResponse — GET /admin/drivers/sessions.
type sessionsResponse struct {
	Sessions *[]model.Session `json:"sessions"`
}

// accountsResponse — GET /admin/drivers.
type accountsResponse struct {
	Data *[]model.Driver `json:"data"`
}

// trackingDriversResponse — GET /admin/tracking/drivers.
type trackingDriversResponse struct {
	Drivers *[]model.Driver `json:"drivers"`
}

// trackingDeliveriesResponse — GET /admin/tracking/deliveries.
type trackingDeliveriesResponse struct {
	Deliveries *[]model.Delivery `json:"deliveries"`
}

// conversationResponse — GET /messages/conversations/{id}.
type conversationResponse struct {
	Messages *[]model.Message `json:"messages"`
}

// sendResponse — POST /messages/send. Backend может вернуть
// сообщение в поле message или пустое тело.
type sendResponse struct {
	Message *model.Message `json:"message"`
}

// statusRequest — тело PUT /deliveries/admin/{id}/status.
type statusRequest struct {
	Status model.DeliveryStatus `json:"status"`
}

// assignRequest — тело PUT /deliveries/admin/{id}/assign.
type assignRequest struct {
	DriverID string `json:"driverId"`
}

// sendRequest — тело POST /messages/send.
type sendRequest struct {
	DriverID string `json:"driverId"`
	Content  string `json:"content"`
}
