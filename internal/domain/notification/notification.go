package notification

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// Notification is a back-office message raised by the system, such as a
// low-stock alert.
type Notification struct {
	shared.BaseEntity
	Message string `gorm:"not null;size:512"`
	Source  string `gorm:"not null;size:64;index"`
	Read    bool   `gorm:"not null;default:false;index"`
}

// TableName specifies the database table name
func (Notification) TableName() string {
	return "notifications"
}

// New creates a notification with validation
func New(message, source string) (*Notification, error) {
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewInvalidInputError("notification message cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Message:    strings.TrimSpace(message),
		Source:     strings.TrimSpace(source),
	}, nil
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	n.Read = true
}

// Repository defines the interface for notification persistence
type Repository interface {
	// FindByID finds a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindUnread lists unread notifications, newest first
	FindUnread(ctx context.Context, filter shared.Filter) ([]Notification, error)

	// Save creates or updates a notification
	Save(ctx context.Context, n *Notification) error
}
