package attendance

import (
	"context"
	"errors"
	"time"

	"go-workforce/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovedLeaveSource reports whether an employee has an approved leave
// request covering the given date. The leave package's repository
// satisfies it.
type ApprovedLeaveSource interface {
	HasApprovedLeaveCovering(ctx context.Context, employeeID string, date time.Time) (bool, error)
}

// Sweeper resolves the attendance status of every employee scheduled on a
// day who never clocked in. It is intended to run after the last shift of
// the day has ended, typically from a cron entrypoint.
type Sweeper struct {
	repo      Repository
	schedules schedule.Repository
	leaves    ApprovedLeaveSource
	logger    *zap.Logger
}

func NewSweeper(repo Repository, schedules schedule.Repository, leaves ApprovedLeaveSource, logger ...*zap.Logger) *Sweeper {
	l := zap.L().Named("attendance.sweeper")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.sweeper")
	}
	return &Sweeper{repo: repo, schedules: schedules, leaves: leaves, logger: l}
}

// Run sweeps one calendar day. Each scheduled employee is handled
// independently; one failure is logged and counted without aborting the
// rest of the sweep.
func (s *Sweeper) Run(ctx context.Context, day time.Time) (SweepResult, error) {
	day = dateOnly(day.UTC())

	instances, err := s.schedules.ListForDay(ctx, day)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	seen := make(map[uuid.UUID]struct{}, len(instances))
	for _, inst := range instances {
		if _, dup := seen[inst.EmployeeID]; dup {
			continue
		}
		seen[inst.EmployeeID] = struct{}{}

		created, updated, err := s.sweepEmployee(ctx, inst.EmployeeID, day)
		if err != nil {
			result.Errors++
			s.logger.Error("sweep failed for employee",
				zap.String("employee_id", inst.EmployeeID.String()),
				zap.String("work_date", day.Format("2006-01-02")),
				zap.Error(err),
			)
			continue
		}
		result.RecordsCreated += created
		result.RecordsUpdated += updated
	}

	s.logger.Info("absence sweep finished",
		zap.String("work_date", day.Format("2006-01-02")),
		zap.Int("created", result.RecordsCreated),
		zap.Int("updated", result.RecordsUpdated),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}

func (s *Sweeper) sweepEmployee(ctx context.Context, employeeID uuid.UUID, day time.Time) (created, updated int, err error) {
	status := StatusAbsent
	onLeave, err := s.leaves.HasApprovedLeaveCovering(ctx, employeeID.String(), day)
	if err != nil {
		return 0, 0, err
	}
	if onLeave {
		status = StatusOnLeave
	}

	rec, err := s.repo.FindByEmployeeAndDate(ctx, employeeID.String(), day)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, err
		}
		rec = nil
	}

	switch {
	case rec == nil:
		err = s.repo.Create(ctx, &AttendanceRecord{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			WorkDate:   day,
			Status:     status,
		})
		if err != nil {
			// Lost a race against a concurrent sweep or a late
			// clock-in; the other writer owns the row now.
			if isUniqueViolation(err) {
				return 0, 0, nil
			}
			return 0, 0, err
		}
		return 1, 0, nil
	case rec.Status == StatusPending:
		// UpsertOnLeave only flips PENDING rows, so a clock-in that
		// commits between our read and this write wins.
		if status == StatusOnLeave {
			if err := s.repo.UpsertOnLeave(ctx, employeeID.String(), day); err != nil {
				return 0, 0, err
			}
			return 0, 1, nil
		}
		rec.Status = StatusAbsent
		applied, err := s.repo.UpdateWithVersion(ctx, rec)
		if err != nil {
			return 0, 0, err
		}
		if !applied {
			return 0, 0, nil
		}
		return 0, 1, nil
	default:
		// Already resolved (PRESENT, ABSENT or ON_LEAVE); sweeps never
		// downgrade a resolved status.
		return 0, 0, nil
	}
}
