package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-workforce/internal/attendance"
	"go-workforce/internal/employee"
	"go-workforce/internal/payroll"
	"go-workforce/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CascadeResult reports each reconciliation step separately so a partial
// failure is visible instead of collapsing into a single error.
type CascadeResult struct {
	AttendanceDaysMarked int      `json:"attendance_days_marked"`
	ShiftsCancelled      int      `json:"shifts_cancelled"`
	SalaryDeduction      float64  `json:"salary_deduction"`
	StepErrors           []string `json:"step_errors,omitempty"`
}

// Cascade applies the downstream effects of an approved leave request:
// attendance rows flip to on-leave, overlapping shifts are cancelled, and
// unpaid leave is deducted from the month's salary sheet. Every step is
// idempotent, so the cascade may run again off the durable approval event
// after a crash or a redelivery.
type Cascade struct {
	leaves      Repository
	attendances attendance.Repository
	schedules   schedule.Repository
	payrolls    payroll.Repository
	employees   employee.Repository
	logger      *zap.Logger
}

func NewCascade(
	leaves Repository,
	attendances attendance.Repository,
	schedules schedule.Repository,
	payrolls payroll.Repository,
	employees employee.Repository,
	logger ...*zap.Logger,
) *Cascade {
	l := zap.L().Named("leave.cascade")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.cascade")
	}
	return &Cascade{
		leaves:      leaves,
		attendances: attendances,
		schedules:   schedules,
		payrolls:    payrolls,
		employees:   employees,
		logger:      l,
	}
}

// Run executes the three steps all-settle: one step failing is recorded
// and the rest still run. Audit entries written here also serve as replay
// guards, so the request is persisted after the steps finish.
func (c *Cascade) Run(ctx context.Context, req *LeaveRequest) CascadeResult {
	var result CascadeResult
	auditChanged := false

	marked, err := c.applyAttendance(ctx, req)
	result.AttendanceDaysMarked = marked
	if err != nil {
		result.StepErrors = append(result.StepErrors, "attendance: "+err.Error())
		c.logger.Error("cascade attendance step failed",
			zap.String("leave_id", req.ID.String()), zap.Error(err))
	}

	cancelled, err := c.cancelShifts(ctx, req)
	result.ShiftsCancelled = cancelled
	if err != nil {
		result.StepErrors = append(result.StepErrors, "schedule: "+err.Error())
		c.logger.Error("cascade shift step failed",
			zap.String("leave_id", req.ID.String()), zap.Error(err))
	}
	if cancelled > 0 {
		req.AuditLog = req.AuditLog.Append(AuditShiftsCancelled,
			fmt.Sprintf("%d overlapping shift(s) cancelled", cancelled))
		auditChanged = true
	}

	deduction, err := c.applyDeduction(ctx, req)
	result.SalaryDeduction = deduction
	if err != nil {
		result.StepErrors = append(result.StepErrors, "payroll: "+err.Error())
		c.logger.Error("cascade salary step failed",
			zap.String("leave_id", req.ID.String()), zap.Error(err))
	}
	if deduction > 0 {
		req.AuditLog = req.AuditLog.Append(AuditSalaryAdjusted,
			fmt.Sprintf("unpaid leave deduction %.2f for %d business day(s)", deduction, req.BusinessDays))
		auditChanged = true
	}

	if auditChanged {
		if err := c.leaves.Update(ctx, req); err != nil {
			result.StepErrors = append(result.StepErrors, "audit: "+err.Error())
			c.logger.Error("cascade audit persist failed",
				zap.String("leave_id", req.ID.String()), zap.Error(err))
		}
	}
	return result
}

func (c *Cascade) applyAttendance(ctx context.Context, req *LeaveRequest) (int, error) {
	marked := 0
	for d := dateOnly(req.StartDate); !d.After(dateOnly(req.EndDate)); d = d.AddDate(0, 0, 1) {
		// The upsert only overwrites PENDING rows, so a day the employee
		// actually worked keeps its PRESENT status.
		if err := c.attendances.UpsertOnLeave(ctx, req.EmployeeID.String(), d); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

func (c *Cascade) cancelShifts(ctx context.Context, req *LeaveRequest) (int, error) {
	windowStart := dateOnly(req.StartDate)
	windowEnd := dateOnly(req.EndDate).AddDate(0, 0, 1)

	instances, err := c.schedules.ListOverlapping(ctx, req.EmployeeID.String(), windowStart, windowEnd)
	if err != nil {
		return 0, err
	}

	note := fmt.Sprintf("Cancelled: approved leave %s to %s",
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))

	cancelled := 0
	for i := range instances {
		inst := &instances[i]
		// Already terminal instances are left alone, which is what makes
		// a replayed cascade a no-op here.
		if !schedule.CanTransition(inst.Status, schedule.StatusRejected) {
			continue
		}
		if err := schedule.Transition(inst, schedule.StatusRejected, note); err != nil {
			return cancelled, err
		}
		if err := c.schedules.Update(ctx, inst); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

func (c *Cascade) applyDeduction(ctx context.Context, req *LeaveRequest) (float64, error) {
	if req.Type != TypeUnpaid || req.BusinessDays == 0 {
		return 0, nil
	}
	// The audit entry is the replay guard: once the deduction is recorded
	// there, a re-run must not apply it twice.
	if req.AuditLog.Has(AuditSalaryAdjusted) {
		return 0, nil
	}

	emp, err := c.employees.FindByID(ctx, req.EmployeeID.String())
	if err != nil {
		return 0, err
	}

	amount := payroll.UnpaidLeaveDeduction(emp.BaseSalary, req.BusinessDays)
	month := req.StartDate.Format("2006-01")

	_, err = c.payrolls.FindByEmployeeAndMonth(ctx, req.EmployeeID.String(), month)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		// No sheet yet for the month; seed a draft so the deduction has a
		// row to land on. A later full computation overwrites the derived
		// figures but keeps accumulated deductions.
		seed := &payroll.SalaryStatistics{
			ID:            uuid.New(),
			EmployeeID:    req.EmployeeID,
			Month:         month,
			BaseSalary:    emp.BaseSalary,
			NetSalary:     emp.BaseSalary,
			PaymentStatus: payroll.PaymentDraft,
			ComputedAt:    time.Now().UTC(),
		}
		if err := c.payrolls.Save(ctx, seed); err != nil {
			return 0, err
		}
	}

	if err := c.payrolls.AddDeduction(ctx, req.EmployeeID.String(), month, amount); err != nil {
		return 0, err
	}
	return amount, nil
}
