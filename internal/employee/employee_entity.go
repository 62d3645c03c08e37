package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Employee struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex"`
	FullName        string     `gorm:"column:full_name;type:varchar(150);not null"`
	JobTitle        string     `gorm:"column:job_title;type:varchar(100);not null"`
	Department      string     `gorm:"column:department;type:varchar(100)"`
	BaseSalary      float64    `gorm:"column:base_salary;type:numeric(12,2);not null;default:0"`
	HourlyRate      *float64   `gorm:"column:hourly_rate;type:numeric(10,2)"`
	AnnualLeaveDays int        `gorm:"column:annual_leave_days;not null;default:25"`
	SickLeaveDays   int        `gorm:"column:sick_leave_days;not null;default:10"`
	Status          Status     `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`
	// ManagerCode is a weak MGR-NNNNN reference, not a foreign key. It may
	// be persisted unverified and reconciled later.
	ManagerCode *string        `gorm:"column:manager_code;type:varchar(20);index"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Employee) TableName() string {
	return "employees"
}
