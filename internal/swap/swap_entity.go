package swap

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
)

// Forward-only state graph; REJECTED and COMPLETED are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ShiftSwapRequest asks a colleague to take over a shift. When the
// recipient also names one of their own shifts, completion exchanges the
// two assignments; otherwise the requester's shift simply moves to the
// recipient.
type ShiftSwapRequest struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterEmployeeID uuid.UUID      `gorm:"column:requester_employee_id;type:uuid;not null;index"`
	RecipientEmployeeID uuid.UUID      `gorm:"column:recipient_employee_id;type:uuid;not null;index"`
	RequesterScheduleID uuid.UUID      `gorm:"column:requester_schedule_id;type:uuid;not null"`
	RecipientScheduleID *uuid.UUID     `gorm:"column:recipient_schedule_id;type:uuid"`
	Status              Status         `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`
	Note                *string        `gorm:"column:note;type:text"`
	DecidedByUserID     *uuid.UUID     `gorm:"column:decided_by_user_id;type:uuid"`
	DecidedAt           *time.Time     `gorm:"column:decided_at;type:timestamptz"`
	CompletedByUserID   *uuid.UUID     `gorm:"column:completed_by_user_id;type:uuid"`
	CompletedAt         *time.Time     `gorm:"column:completed_at;type:timestamptz"`
	CreatedAt           time.Time      `gorm:"column:created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ShiftSwapRequest) TableName() string {
	return "shift_swap_requests"
}
