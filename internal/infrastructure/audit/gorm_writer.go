package audit

import (
	"context"

	"gorm.io/gorm"
)

// GormWriter persists audit entries with GORM
type GormWriter struct {
	db *gorm.DB
}

// NewGormWriter creates a new GormWriter
func NewGormWriter(db *gorm.DB) *GormWriter {
	return &GormWriter{db: db}
}

// Write implements Writer
func (w *GormWriter) Write(ctx context.Context, entry *Entry) error {
	return w.db.WithContext(ctx).Create(entry).Error
}

// Ensure GormWriter implements Writer
var _ Writer = (*GormWriter)(nil)
