package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-workforce/internal/employee"
	"go-workforce/internal/events"
	leaveerrors "go-workforce/internal/leave/errors"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/notification"
	"go-workforce/internal/rbac"
	"go-workforce/internal/schedule"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	// Submit validates, detects conflicts and persists the request. The
	// request is stored even when conflicts are found; they are returned
	// for the approver to weigh.
	Submit(ctx context.Context, employeeID string, req CreateLeaveRequest) (SubmitResult, error)
	Approve(ctx context.Context, leaveID, deciderUserID string) (ApproveResult, error)
	Reject(ctx context.Context, leaveID, deciderUserID string, req RejectLeaveRequest) (LeaveResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	ListPending(ctx context.Context) ([]LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	schedules schedule.Repository
	roles     rbac.Repository
	outbox    kafka.OutboxRepository
	cascade   *Cascade
	notifier  notification.Dispatcher
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	schedules schedule.Repository,
	roles rbac.Repository,
	outbox kafka.OutboxRepository,
	cascade *Cascade,
	notifier notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		schedules: schedules,
		roles:     roles,
		outbox:    outbox,
		cascade:   cascade,
		notifier:  notifier,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, employeeID string, req CreateLeaveRequest) (SubmitResult, error) {
	leaveType := LeaveType(req.Type)
	if !leaveType.Valid() {
		return SubmitResult{}, leaveerrors.ErrInvalidLeaveType
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return SubmitResult{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return SubmitResult{}, leaveerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return SubmitResult{}, leaveerrors.ErrInvalidDateRange
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitResult{}, leaveerrors.ErrEmployeeNotFound
		}
		return SubmitResult{}, err
	}

	businessDays := CalculateBusinessDays(start, end)
	if businessDays == 0 {
		// Weekend-only ranges are stored as requested; the approver sees
		// the zero and decides.
		s.logger.Warn("leave request spans zero business days",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
	}

	conflicts := s.detectConflicts(ctx, emp, start, end)

	leave := &LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   emp.ID,
		Type:         leaveType,
		Status:       StatusPending,
		StartDate:    start,
		EndDate:      end,
		BusinessDays: businessDays,
		Reason:       req.Reason,
		AuditLog: AuditLog{}.Append(AuditRequestCreated,
			fmt.Sprintf("%d business day(s), %d conflict(s) detected", businessDays, len(conflicts))),
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		s.logger.Error("persist leave request failed", zap.Error(err))
		return SubmitResult{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_id", leave.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("type", string(leaveType)),
		zap.Int("business_days", businessDays),
		zap.Int("conflicts", len(conflicts)),
	)

	recipients := s.managerUserIDs(ctx)
	recipients = append(recipients, emp.ID.String())
	s.notify(ctx, recipients, notification.Message{
		Title:         "Leave request submitted",
		Body:          fmt.Sprintf("%s requested %s leave from %s to %s.", emp.FullName, leaveType, req.StartDate, req.EndDate),
		Severity:      notification.SeverityInfo,
		RelatedEntity: "leave_request",
		RelatedID:     leave.ID.String(),
	})

	return SubmitResult{
		Request:      mapToResponse(*leave),
		BusinessDays: businessDays,
		Conflicts:    conflicts,
	}, nil
}

// detectConflicts is advisory: a lookup failure degrades to fewer
// conflicts rather than failing the submission.
func (s *service) detectConflicts(ctx context.Context, emp *employee.Employee, start, end time.Time) []Conflict {
	conflicts := []Conflict{}

	if emp.Department != "" {
		projects, err := s.repo.ListProjectsByDepartment(ctx, emp.Department)
		if err != nil {
			s.logger.Warn("project conflict lookup failed", zap.Error(err))
		} else {
			conflicts = append(conflicts, projectConflicts(projects, start, end)...)
		}
	}

	instances, err := s.schedules.ListOverlapping(ctx, emp.ID.String(), start, end.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Warn("shift conflict lookup failed", zap.Error(err))
	} else {
		conflicts = append(conflicts, shiftConflicts(instances)...)
	}
	return conflicts
}

func (s *service) Approve(ctx context.Context, leaveID, deciderUserID string) (ApproveResult, error) {
	leave, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApproveResult{}, leaveerrors.ErrLeaveNotFound
		}
		return ApproveResult{}, err
	}
	// Decisions are one-way; an approved or rejected request never moves
	// again.
	if leave.Status != StatusPending {
		return ApproveResult{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	leave.Status = StatusApproved
	leave.DecidedAt = &now
	if deciderUUID, err := uuid.Parse(deciderUserID); err == nil {
		leave.DecidedBy = &deciderUUID
	}
	leave.AuditLog = leave.AuditLog.Append(AuditRequestApproved, "approved by "+deciderUserID)

	payload, err := json.Marshal(events.LeaveApprovedEvent{
		EventType:    "leave.approved",
		LeaveID:      leave.ID.String(),
		EmployeeID:   leave.EmployeeID.String(),
		LeaveType:    string(leave.Type),
		StartDate:    leave.StartDate.Format("2006-01-02"),
		EndDate:      leave.EndDate.Format("2006-01-02"),
		BusinessDays: leave.BusinessDays,
		OccurredAt:   now,
	})
	if err != nil {
		return ApproveResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ApproveResult{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Update(ctx, leave); err != nil {
		s.logger.Error("persist leave approval failed", zap.Error(err))
		return ApproveResult{}, err
	}
	// The approval event commits with the status flip, so the cascade can
	// be replayed from the log even if this process dies on the next line.
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   leave.ID.String(),
		EventType:     "leave.approved",
		Topic:         events.LeaveApprovedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return ApproveResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ApproveResult{}, err
	}

	cascadeResult := s.cascade.Run(ctx, leave)

	s.logger.Info("leave request approved",
		zap.String("leave_id", leave.ID.String()),
		zap.Int("attendance_days_marked", cascadeResult.AttendanceDaysMarked),
		zap.Int("shifts_cancelled", cascadeResult.ShiftsCancelled),
		zap.Float64("salary_deduction", cascadeResult.SalaryDeduction),
		zap.Strings("step_errors", cascadeResult.StepErrors),
	)

	s.notify(ctx, []string{leave.EmployeeID.String()}, notification.Message{
		Title:         "Leave request approved",
		Body:          fmt.Sprintf("Your %s leave from %s to %s has been approved.", leave.Type, leave.StartDate.Format("2006-01-02"), leave.EndDate.Format("2006-01-02")),
		Severity:      notification.SeverityInfo,
		RelatedEntity: "leave_request",
		RelatedID:     leave.ID.String(),
	})
	if cascadeResult.ShiftsCancelled > 0 {
		s.notify(ctx, s.managerUserIDs(ctx), notification.Message{
			Title:         "Shifts cancelled by approved leave",
			Body:          fmt.Sprintf("%d shift(s) were cancelled by an approved leave request and may need cover.", cascadeResult.ShiftsCancelled),
			Severity:      notification.SeverityWarning,
			RelatedEntity: "leave_request",
			RelatedID:     leave.ID.String(),
		})
	}

	return ApproveResult{Request: mapToResponse(*leave), Cascade: cascadeResult}, nil
}

func (s *service) Reject(ctx context.Context, leaveID, deciderUserID string, req RejectLeaveRequest) (LeaveResponse, error) {
	leave, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if leave.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	leave.Status = StatusRejected
	leave.DecidedAt = &now
	if deciderUUID, err := uuid.Parse(deciderUserID); err == nil {
		leave.DecidedBy = &deciderUUID
	}
	details := "rejected by " + deciderUserID
	if req.Note != nil && *req.Note != "" {
		details += ": " + *req.Note
	}
	leave.AuditLog = leave.AuditLog.Append(AuditRequestRejected, details)

	if err := s.repo.Update(ctx, leave); err != nil {
		s.logger.Error("persist leave rejection failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request rejected", zap.String("leave_id", leave.ID.String()))

	s.notify(ctx, []string{leave.EmployeeID.String()}, notification.Message{
		Title:         "Leave request rejected",
		Body:          fmt.Sprintf("Your %s leave from %s to %s has been rejected.", leave.Type, leave.StartDate.Format("2006-01-02"), leave.EndDate.Format("2006-01-02")),
		Severity:      notification.SeverityWarning,
		RelatedEntity: "leave_request",
		RelatedID:     leave.ID.String(),
	})

	return mapToResponse(*leave), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out, nil
}

func (s *service) ListPending(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out, nil
}

func (s *service) managerUserIDs(ctx context.Context) []string {
	ids, err := s.roles.ListUserIDsWithRole(ctx, rbac.RoleManager)
	if err != nil {
		s.logger.Warn("manager recipient lookup failed", zap.Error(err))
		return nil
	}
	return ids
}

func (s *service) notify(ctx context.Context, recipients []string, msg notification.Message) {
	if err := s.notifier.Notify(ctx, recipients, msg); err != nil {
		s.logger.Warn("leave notification failed", zap.Error(err))
	}
}
