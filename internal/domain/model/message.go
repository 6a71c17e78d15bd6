package model

import "time"

// Message — сообщение переписки оператора с водителем.
// Только добавляется, упорядочено по CreatedAt.
type Message struct {
	ID         string    `json:"id"`
	SenderRole Role      `json:"senderRole"`
	AdminID    string    `json:"adminId"`
	DriverID   string    `json:"driverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Contact — собеседник из списка контактов.
type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Contacts — ответ backend на GET /messages/contacts.
type Contacts struct {
	Contacts    []Contact `json:"contacts"`
	TeamMembers []Contact `json:"teamMembers"`
	Drivers     []Contact `json:"drivers"`
}
