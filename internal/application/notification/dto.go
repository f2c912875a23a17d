package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/lerp/backend/internal/domain/notification"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToNotificationResponse converts a notification to its response DTO
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Source:    n.Source,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
