package leave

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType string

const (
	TypeHoliday  LeaveType = "HOLIDAY"
	TypeSickness LeaveType = "SICKNESS"
	TypePersonal LeaveType = "PERSONAL"
	TypeParental LeaveType = "PARENTAL"
	TypeUnpaid   LeaveType = "UNPAID"
	TypeOther    LeaveType = "OTHER"
)

func (t LeaveType) Valid() bool {
	switch t {
	case TypeHoliday, TypeSickness, TypePersonal, TypeParental, TypeUnpaid, TypeOther:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Audit actions recorded on a request. CascadeSalaryAdjusted doubles as
// the idempotency marker for the unpaid-leave deduction: its presence
// means the deduction has already been applied.
const (
	AuditRequestCreated  = "REQUEST_CREATED"
	AuditRequestApproved = "REQUEST_APPROVED"
	AuditRequestRejected = "REQUEST_REJECTED"
	AuditShiftsCancelled = "SHIFTS_CANCELLED"
	AuditSalaryAdjusted  = "SALARY_ADJUSTED"
)

type AuditEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// AuditLog is an append-only JSONB column.
type AuditLog []AuditEntry

func (a AuditLog) Value() (driver.Value, error) {
	if a == nil {
		a = AuditLog{}
	}
	return json.Marshal(a)
}

func (a *AuditLog) Scan(value interface{}) error {
	if value == nil {
		*a = AuditLog{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit log: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, a)
}

func (a AuditLog) Has(action string) bool {
	for _, e := range a {
		if e.Action == action {
			return true
		}
	}
	return false
}

func (a AuditLog) Append(action, details string) AuditLog {
	return append(a, AuditEntry{
		Action:    action,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
}

type LeaveRequest struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index"`
	Type         LeaveType      `gorm:"column:type;type:varchar(20);not null"`
	Status       Status         `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`
	StartDate    time.Time      `gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time      `gorm:"column:end_date;type:date;not null"`
	BusinessDays int            `gorm:"column:business_days;not null;default:0"`
	Reason       *string        `gorm:"column:reason;type:text"`
	DecidedBy    *uuid.UUID     `gorm:"column:decided_by;type:uuid"`
	DecidedAt    *time.Time     `gorm:"column:decided_at;type:timestamptz"`
	AuditLog     AuditLog       `gorm:"column:audit_log;type:jsonb;not null;default:'[]'"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// DepartmentProject is a read model consulted during conflict detection.
// Rows are maintained by an external project tool; this service never
// writes them.
type DepartmentProject struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Department string    `gorm:"column:department;type:varchar(100);not null;index"`
	Name       string    `gorm:"column:name;type:varchar(150);not null"`
	// Priority is 1 (highest) to 5 (lowest).
	Priority int       `gorm:"column:priority;not null;default:3"`
	Deadline time.Time `gorm:"column:deadline;type:date;not null"`
}

func (DepartmentProject) TableName() string {
	return "department_projects"
}
