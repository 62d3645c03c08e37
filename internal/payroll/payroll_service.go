package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-workforce/internal/attendance"
	"go-workforce/internal/employee"
	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/notification"
	payrollerrors "go-workforce/internal/payroll/errors"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// ComputeMonthlySalary derives the month's sheet from attendance and
	// the employee's pay settings. Recomputing overwrites the previous
	// figures but preserves accumulated deductions and bonus.
	ComputeMonthlySalary(ctx context.Context, req ComputeSalaryRequest) (SalaryResponse, error)
	GetSalary(ctx context.Context, employeeID, month string) (SalaryResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	employees   employee.Repository
	attendances attendance.Repository
	outbox      kafka.OutboxRepository
	notifier    notification.Dispatcher
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendances attendance.Repository,
	outbox kafka.OutboxRepository,
	notifier notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		employees:   employees,
		attendances: attendances,
		outbox:      outbox,
		notifier:    notifier,
		logger:      l,
	}
}

func (s *service) ComputeMonthlySalary(ctx context.Context, req ComputeSalaryRequest) (SalaryResponse, error) {
	monthStart, err := time.ParseInLocation("2006-01", req.Month, time.UTC)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidMonth
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	emp, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return SalaryResponse{}, err
	}

	existing, err := s.repo.FindByEmployeeAndMonth(ctx, req.EmployeeID, req.Month)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SalaryResponse{}, err
	}
	if existing != nil && existing.PaymentStatus == PaymentPaid {
		return SalaryResponse{}, payrollerrors.ErrMonthAlreadyPaid
	}

	presentDays, err := s.attendances.CountByStatusInRange(ctx, req.EmployeeID, attendance.StatusPresent, monthStart, monthEnd)
	if err != nil {
		return SalaryResponse{}, err
	}
	absentDays, err := s.attendances.CountByStatusInRange(ctx, req.EmployeeID, attendance.StatusAbsent, monthStart, monthEnd)
	if err != nil {
		return SalaryResponse{}, err
	}
	leaveDays, err := s.attendances.CountByStatusInRange(ctx, req.EmployeeID, attendance.StatusOnLeave, monthStart, monthEnd)
	if err != nil {
		return SalaryResponse{}, err
	}
	overtimeMinutes, err := s.attendances.SumOvertimeInRange(ctx, req.EmployeeID, monthStart, monthEnd)
	if err != nil {
		return SalaryResponse{}, err
	}

	in := CalcInput{
		BaseSalary:         emp.BaseSalary,
		HourlyRateOverride: emp.HourlyRate,
		AbsentDays:         int(absentDays),
		OvertimeMinutes:    int(overtimeMinutes),
		Bonus:              0,
	}
	if existing != nil {
		in.Deductions = existing.Deductions
		in.Bonus = existing.Bonus
	}
	out := Calculate(in)

	stats := &SalaryStatistics{
		ID:               uuid.New(),
		EmployeeID:       emp.ID,
		Month:            req.Month,
		PresentDays:      int(presentDays),
		AbsentDays:       int(absentDays),
		LeaveDays:        int(leaveDays),
		OvertimeMinutes:  int(overtimeMinutes),
		BaseSalary:       emp.BaseSalary,
		AbsenceDeduction: out.AbsenceDeduction,
		OvertimePay:      out.OvertimePay,
		NetSalary:        out.NetSalary,
		PaymentStatus:    PaymentDraft,
		ComputedAt:       time.Now().UTC(),
	}
	if existing != nil {
		stats.ID = existing.ID
		stats.Deductions = existing.Deductions
		stats.Bonus = existing.Bonus
	}

	payload, err := json.Marshal(events.SalaryRecomputedEvent{
		EventType:  "payroll.salary.recomputed",
		EmployeeID: emp.ID.String(),
		Month:      req.Month,
		NetSalary:  stats.NetSalary,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return SalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Save(ctx, stats); err != nil {
		s.logger.Error("persist salary statistics failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "salary_statistics",
		AggregateID:   stats.ID.String(),
		EventType:     "payroll.salary.recomputed",
		Topic:         events.SalaryRecomputedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return SalaryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}

	s.logger.Info("monthly salary computed",
		zap.String("employee_id", emp.ID.String()),
		zap.String("month", req.Month),
		zap.Float64("net_salary", stats.NetSalary),
	)

	if notifyErr := s.notifier.Notify(ctx, []string{emp.ID.String()}, notification.Message{
		Title:         "Salary statement updated",
		Body:          fmt.Sprintf("Your salary for %s has been computed.", req.Month),
		Severity:      notification.SeverityInfo,
		RelatedEntity: "salary_statistics",
		RelatedID:     stats.ID.String(),
	}); notifyErr != nil {
		s.logger.Warn("salary notification failed", zap.Error(notifyErr))
	}

	return mapToResponse(*stats), nil
}

func (s *service) GetSalary(ctx context.Context, employeeID, month string) (SalaryResponse, error) {
	if _, err := time.ParseInLocation("2006-01", month, time.UTC); err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidMonth
	}
	stats, err := s.repo.FindByEmployeeAndMonth(ctx, employeeID, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryResponse{}, payrollerrors.ErrStatisticsNotFound
		}
		return SalaryResponse{}, err
	}
	return mapToResponse(*stats), nil
}
