package payroll

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentDraft     PaymentStatus = "DRAFT"
	PaymentProcessed PaymentStatus = "PROCESSED"
	PaymentPaid      PaymentStatus = "PAID"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentDraft || p == PaymentProcessed || p == PaymentPaid
}

// SalaryStatistics is the computed salary sheet for one employee and one
// calendar month. Month is stored as "2006-01"; the composite unique
// index makes recomputation an overwrite, never a second row.
type SalaryStatistics struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_salary_employee_month"`
	Month      string    `gorm:"column:month;type:varchar(7);not null;uniqueIndex:uq_salary_employee_month"`

	PresentDays     int `gorm:"column:present_days;not null;default:0"`
	AbsentDays      int `gorm:"column:absent_days;not null;default:0"`
	LeaveDays       int `gorm:"column:leave_days;not null;default:0"`
	OvertimeMinutes int `gorm:"column:overtime_minutes;not null;default:0"`

	BaseSalary       float64 `gorm:"column:base_salary;type:numeric(12,2);not null;default:0"`
	AbsenceDeduction float64 `gorm:"column:absence_deduction;type:numeric(12,2);not null;default:0"`
	// Deductions accumulates adjustments applied outside recomputation,
	// such as unpaid leave. Recomputing a month preserves it.
	Deductions  float64 `gorm:"column:deductions;type:numeric(12,2);not null;default:0"`
	Bonus       float64 `gorm:"column:bonus;type:numeric(12,2);not null;default:0"`
	OvertimePay float64 `gorm:"column:overtime_pay;type:numeric(12,2);not null;default:0"`
	NetSalary   float64 `gorm:"column:net_salary;type:numeric(12,2);not null;default:0"`

	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'DRAFT'"`
	ComputedAt    time.Time     `gorm:"column:computed_at;type:timestamptz"`
	CreatedAt     time.Time     `gorm:"column:created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at"`
}

func (SalaryStatistics) TableName() string {
	return "salary_statistics"
}
