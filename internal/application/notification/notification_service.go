package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/lerp/backend/internal/domain/notification"
	"github.com/lerp/backend/internal/domain/shared"
)

// NotificationService exposes back-office notifications
type NotificationService struct {
	repo notification.Repository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListUnread lists unread notifications, newest first
func (s *NotificationService) ListUnread(ctx context.Context, filter shared.Filter) ([]NotificationResponse, error) {
	items, err := s.repo.FindUnread(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses, nil
}

// MarkRead flags a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n.MarkRead()
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}
