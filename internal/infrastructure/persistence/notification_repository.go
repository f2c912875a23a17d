package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/notification"
	"github.com/lerp/backend/internal/domain/shared"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindUnread lists unread notifications, newest first
func (r *GormNotificationRepository) FindUnread(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	query := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("read = ?", false)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var notifications []notification.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// Ensure GormNotificationRepository implements Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
