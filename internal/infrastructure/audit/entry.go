package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded action in the audit trail
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID  string    `gorm:"size:64;index"`
	Action     string    `gorm:"not null;size:128"`
	Method     string    `gorm:"not null;size:8"`
	Path       string    `gorm:"not null;size:256"`
	Status     int       `gorm:"not null"`
	ClientIP   string    `gorm:"size:64"`
	RecordedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name
func (Entry) TableName() string {
	return "audit_entries"
}

// NewEntry creates an audit entry for a handled request
func NewEntry(sessionID, action, method, path string, status int, clientIP string) Entry {
	return Entry{
		ID:         uuid.New(),
		SessionID:  sessionID,
		Action:     action,
		Method:     method,
		Path:       path,
		Status:     status,
		ClientIP:   clientIP,
		RecordedAt: time.Now(),
	}
}
