package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusOnLeave Status = "ON_LEAVE"
)

// AttendanceRecord is the single row per (employee, date). The composite
// unique index is what makes clock-in an atomic insert-or-fail instead of
// a racy check-then-write.
type AttendanceRecord struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID      uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	WorkDate        time.Time  `gorm:"column:work_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	CheckIn         *time.Time `gorm:"column:check_in;type:timestamptz"`
	CheckOut        *time.Time `gorm:"column:check_out;type:timestamptz"`
	ActiveSession   bool       `gorm:"column:active_session;not null;default:false"`
	WorkingMinutes  int        `gorm:"column:working_minutes;not null;default:0"`
	OvertimeMinutes int        `gorm:"column:overtime_minutes;not null;default:0"`
	Status          Status     `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`
	DeviceInfo      *string    `gorm:"column:device_info;type:varchar(200)"`
	Location        *string    `gorm:"column:location;type:varchar(150)"`
	Latitude        *float64   `gorm:"column:latitude"`
	Longitude       *float64   `gorm:"column:longitude"`
	// LockVersion guards activeSession transitions against concurrent
	// clock-out attempts from two clients.
	LockVersion int            `gorm:"column:lock_version;not null;default:0"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
