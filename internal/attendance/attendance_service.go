package attendance

import (
	"context"
	"errors"
	"strings"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"
	"go-workforce/internal/platform/metrics"
	"go-workforce/internal/shiftpattern"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	// ReplayPendingClockOut closes a session left open by an abrupt client
	// termination, using the timestamp the client persisted locally. It is
	// a no-op when no session is open, so clients may always call it
	// before clocking in.
	ReplayPendingClockOut(ctx context.Context, employeeID string, markedAt time.Time) (*AttendanceResponse, error)
}

type service struct {
	repo     Repository
	patterns shiftpattern.Repository
	logger   *zap.Logger
}

func NewService(repo Repository, patterns shiftpattern.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, patterns: patterns, logger: l}
}

func (s *service) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	now := time.Now().UTC()
	today := dateOnly(now)

	rec := &AttendanceRecord{
		ID:            uuid.New(),
		EmployeeID:    employeeUUID,
		WorkDate:      today,
		CheckIn:       &now,
		ActiveSession: true,
		Status:        StatusPresent,
		DeviceInfo:    req.DeviceInfo,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}

	// The unique (employee_id, work_date) constraint is the arbiter: a
	// second clock-in loses the insert race instead of silently creating
	// a duplicate row.
	if err := s.repo.Create(ctx, rec); err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("duplicate clock-in rejected",
				zap.String("employee_id", employeeID),
				zap.String("work_date", today.Format("2006-01-02")),
			)
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}
		s.logger.Error("clock-in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	metrics.ClockInsTotal.Inc()
	s.logger.Info("clock-in accepted",
		zap.String("employee_id", employeeID),
		zap.String("work_date", today.Format("2006-01-02")),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	return s.clockOutAt(ctx, employeeID, time.Now().UTC())
}

func (s *service) ReplayPendingClockOut(ctx context.Context, employeeID string, markedAt time.Time) (*AttendanceResponse, error) {
	resp, err := s.clockOutAt(ctx, employeeID, markedAt.UTC())
	if err != nil {
		if errors.Is(err, attendanceerrors.ErrNoActiveSession) {
			// Nothing to replay; the marker was stale.
			return nil, nil
		}
		return nil, err
	}
	s.logger.Info("pending clock-out replayed",
		zap.String("employee_id", employeeID),
		zap.Time("marked_at", markedAt),
	)
	return &resp, nil
}

func (s *service) clockOutAt(ctx context.Context, employeeID string, at time.Time) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	rec, err := s.repo.FindActiveSession(ctx, employeeID, dateOnly(at))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoActiveSession
		}
		return AttendanceResponse{}, err
	}
	if rec.CheckIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoActiveSession
	}

	totalMinutes := int(at.Sub(*rec.CheckIn).Minutes())
	if totalMinutes < 0 {
		totalMinutes = 0
	}

	threshold := shiftpattern.DefaultOvertimeThresholdMinutes
	pattern, err := s.patterns.FindForEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Warn("pattern lookup failed, using default overtime threshold",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	} else if pattern != nil {
		threshold = pattern.OvertimeThreshold()
	}

	overtime := totalMinutes - threshold
	if overtime < 0 {
		overtime = 0
	}

	rec.CheckOut = &at
	rec.ActiveSession = false
	rec.WorkingMinutes = totalMinutes - overtime
	rec.OvertimeMinutes = overtime

	applied, err := s.repo.UpdateWithVersion(ctx, rec)
	if err != nil {
		s.logger.Error("clock-out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !applied {
		return AttendanceResponse{}, attendanceerrors.ErrConcurrentUpdate
	}

	s.logger.Info("clock-out accepted",
		zap.String("employee_id", employeeID),
		zap.Int("working_minutes", rec.WorkingMinutes),
		zap.Int("overtime_minutes", rec.OvertimeMinutes),
	)
	return mapToResponse(*rec), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
