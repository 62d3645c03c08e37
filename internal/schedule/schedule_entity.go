package schedule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusConfirmed        Status = "confirmed"
	StatusEmployeeAccepted Status = "employee_accepted"
	StatusEmployeeRejected Status = "employee_rejected"
	StatusCompleted        Status = "completed"
	StatusRejected         Status = "rejected"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceRota   Source = "rota"
)

// ScheduleInstance is one concrete dated shift assigned to an employee,
// produced either by the recurrence generator (rota) or by manual
// assignment.
type ScheduleInstance struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index:idx_schedule_employee_window"`
	StartTime  time.Time      `gorm:"column:start_time;type:timestamptz;not null;index:idx_schedule_employee_window"`
	EndTime    time.Time      `gorm:"column:end_time;type:timestamptz;not null"`
	Status     Status         `gorm:"column:status;type:varchar(20);not null;default:'pending'"`
	Source     Source         `gorm:"column:source;type:varchar(10);not null;default:'manual'"`
	Title      string         `gorm:"column:title;type:varchar(150);not null"`
	Location   *string        `gorm:"column:location;type:varchar(150)"`
	Notes      *string        `gorm:"column:notes;type:text"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ScheduleInstance) TableName() string {
	return "schedule_instances"
}
