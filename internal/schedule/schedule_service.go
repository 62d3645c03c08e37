package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-workforce/internal/notification"
	"go-workforce/internal/platform/metrics"
	scheduleerrors "go-workforce/internal/schedule/errors"
	"go-workforce/internal/shiftpattern"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	GenerateRecurringShifts(ctx context.Context, req GenerateRotaRequest) (GenerateResult, error)
	BatchApproveAllPendingRotas(ctx context.Context) (BatchApproveResult, error)
	AssignManualShift(ctx context.Context, req AssignShiftRequest) (ScheduleResponse, error)
	AcknowledgeShift(ctx context.Context, scheduleID, actorEmployeeID string, accept bool) (ScheduleResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]ScheduleResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	patterns shiftpattern.Repository
	notifier notification.Dispatcher
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	patterns shiftpattern.Repository,
	notifier notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{db: db, repo: repo, patterns: patterns, notifier: notifier, logger: l}
}

// GenerateRecurringShifts expands a pattern into concrete instances over a
// rolling horizon. Re-runs are idempotent: an instance whose exact window
// already exists for the employee is skipped, so a UI "sync" retry never
// duplicates rows. Each employee settles independently; there is no outer
// transaction on purpose.
func (s *service) GenerateRecurringShifts(ctx context.Context, req GenerateRotaRequest) (GenerateResult, error) {
	if req.Weeks < 1 || req.Weeks > 52 {
		return GenerateResult{}, scheduleerrors.ErrInvalidWeeks
	}
	if len(req.EmployeeIDs) == 0 {
		return GenerateResult{}, scheduleerrors.ErrNoEmployees
	}

	pattern, err := s.patterns.FindByID(ctx, req.PatternID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GenerateResult{}, scheduleerrors.ErrPatternNotFound
		}
		return GenerateResult{}, err
	}

	startClock, err := parseClock(pattern.StartTime)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("pattern start time: %w", err)
	}
	endClock, err := parseClock(pattern.EndTime)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("pattern end time: %w", err)
	}

	days := pattern.DaysOfWeek()
	now := time.Now().UTC()
	weekStart := startOfWeek(now)

	var result GenerateResult
	for _, employeeID := range req.EmployeeIDs {
		created, skipped, err := s.generateForEmployee(ctx, pattern, employeeID, days, weekStart, startClock, endClock, req.Weeks)
		result.Created += created
		result.SkippedDuplicates += skipped
		if err != nil {
			s.logger.Warn("rota generation failed for employee",
				zap.String("pattern_id", req.PatternID),
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			result.PerEmployeeErrors = append(result.PerEmployeeErrors, EmployeeError{
				EmployeeID: employeeID,
				Error:      err.Error(),
			})
		}
	}

	metrics.ShiftsGeneratedTotal.Add(float64(result.Created))
	metrics.ShiftsSkippedTotal.Add(float64(result.SkippedDuplicates))
	s.logger.Info("rota generation finished",
		zap.String("pattern_id", req.PatternID),
		zap.Int("created", result.Created),
		zap.Int("skipped_duplicates", result.SkippedDuplicates),
		zap.Int("failed_employees", len(result.PerEmployeeErrors)),
	)
	return result, nil
}

func (s *service) generateForEmployee(
	ctx context.Context,
	pattern *shiftpattern.ShiftPattern,
	employeeID string,
	days []int,
	weekStart time.Time,
	startClock, endClock time.Duration,
	weeks int,
) (created, skipped int, err error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return 0, 0, err
	}

	for w := 0; w < weeks; w++ {
		for _, day := range days {
			date := weekStart.AddDate(0, 0, w*7+day)
			start := date.Add(startClock)
			end := date.Add(endClock)
			if !end.After(start) {
				// Overnight window rolls into the next day.
				end = end.AddDate(0, 0, 1)
			}

			exists, err := s.repo.ExistsForWindow(ctx, employeeID, start, end)
			if err != nil {
				return created, skipped, err
			}
			if exists {
				skipped++
				continue
			}

			inst := &ScheduleInstance{
				ID:         uuid.New(),
				EmployeeID: employeeUUID,
				StartTime:  start,
				EndTime:    end,
				Status:     StatusConfirmed, // rota shifts bypass acknowledgment
				Source:     SourceRota,
				Title:      pattern.Name,
			}
			if err := s.repo.Create(ctx, inst); err != nil {
				return created, skipped, err
			}
			created++
		}
	}
	return created, skipped, nil
}

// BatchApproveAllPendingRotas confirms rota instances left pending by older
// generation paths. Each affected employee is notified once.
func (s *service) BatchApproveAllPendingRotas(ctx context.Context) (BatchApproveResult, error) {
	pending, err := s.repo.ListByStatusAndSource(ctx, StatusPending, SourceRota)
	if err != nil {
		return BatchApproveResult{}, err
	}

	approved := 0
	affected := make(map[string]struct{})
	for i := range pending {
		inst := pending[i]
		if err := Transition(&inst, StatusConfirmed, ""); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, &inst); err != nil {
			s.logger.Error("batch approve update failed",
				zap.String("schedule_id", inst.ID.String()),
				zap.Error(err),
			)
			continue
		}
		approved++
		affected[inst.EmployeeID.String()] = struct{}{}
	}

	for employeeID := range affected {
		s.notify(ctx, []string{employeeID}, notification.Message{
			Title:         "Shifts confirmed",
			Body:          "Your pending rota shifts have been confirmed.",
			Severity:      notification.SeverityInfo,
			RelatedEntity: "schedule",
		})
	}

	s.logger.Info("batch approve pending rotas finished", zap.Int("approved", approved))
	return BatchApproveResult{Success: true, Count: approved}, nil
}

// AssignManualShift creates a pending instance that the employee must
// acknowledge, unlike rota shifts which are auto-confirmed.
func (s *service) AssignManualShift(ctx context.Context, req AssignShiftRequest) (ScheduleResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ScheduleResponse{}, err
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidDateRange
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidDateRange
	}
	if !end.After(start) {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ScheduleResponse{}, err
	}
	defer tx.Rollback()

	inst := &ScheduleInstance{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Status:     StatusPending,
		Source:     SourceManual,
		Title:      req.Title,
		Location:   req.Location,
		Notes:      req.Notes,
	}
	if err := s.repo.WithTx(tx).Create(ctx, inst); err != nil {
		return ScheduleResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ScheduleResponse{}, err
	}

	s.notify(ctx, []string{req.EmployeeID}, notification.Message{
		Title:         "New shift assigned",
		Body:          fmt.Sprintf("You have been assigned %q on %s. Please confirm or decline.", req.Title, start.Format("2006-01-02")),
		Severity:      notification.SeverityInfo,
		RelatedEntity: "schedule",
		RelatedID:     inst.ID.String(),
	})

	return mapToResponse(*inst), nil
}

func (s *service) AcknowledgeShift(ctx context.Context, scheduleID, actorEmployeeID string, accept bool) (ScheduleResponse, error) {
	inst, err := s.repo.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrShiftNotFound
		}
		return ScheduleResponse{}, err
	}
	if inst.EmployeeID.String() != actorEmployeeID {
		return ScheduleResponse{}, scheduleerrors.ErrNotShiftAssignee
	}

	next := StatusEmployeeAccepted
	if !accept {
		next = StatusEmployeeRejected
	}
	if err := Transition(inst, next, ""); err != nil {
		return ScheduleResponse{}, err
	}
	if err := s.repo.Update(ctx, inst); err != nil {
		return ScheduleResponse{}, err
	}

	return mapToResponse(*inst), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]ScheduleResponse, error) {
	rows, err := s.repo.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	res := make([]ScheduleResponse, len(rows))
	for i, inst := range rows {
		res[i] = mapToResponse(inst)
	}
	return res, nil
}

// notify is fire-and-forget: delivery problems are logged, never returned.
func (s *service) notify(ctx context.Context, recipients []string, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, recipients, msg); err != nil {
		s.logger.Warn("notification dispatch failed", zap.Error(err))
	}
}

func parseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// startOfWeek truncates to the preceding Sunday (weekday 0) at midnight UTC.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
