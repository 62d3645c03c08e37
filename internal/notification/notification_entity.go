package notification

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

type Notification struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID   uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index"`
	Title         string     `gorm:"column:title;type:varchar(200);not null"`
	Message       string     `gorm:"column:message;type:text;not null"`
	Severity      Severity   `gorm:"column:severity;type:varchar(20);not null;default:'info'"`
	RelatedEntity *string    `gorm:"column:related_entity;type:varchar(50)"`
	RelatedID     *string    `gorm:"column:related_id;type:varchar(64)"`
	ReadAt        *time.Time `gorm:"column:read_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
