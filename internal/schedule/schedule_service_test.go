package schedule_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-workforce/internal/notification"
	"go-workforce/internal/schedule"
	scheduleerrors "go-workforce/internal/schedule/errors"
	"go-workforce/internal/shiftpattern"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeScheduleRepository struct {
	withTxFn                func(tx *sql.Tx) schedule.Repository
	createFn                func(ctx context.Context, inst *schedule.ScheduleInstance) error
	updateFn                func(ctx context.Context, inst *schedule.ScheduleInstance) error
	findByIDFn              func(ctx context.Context, id string) (*schedule.ScheduleInstance, error)
	existsForWindowFn       func(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	listByStatusAndSourceFn func(ctx context.Context, status schedule.Status, source schedule.Source) ([]schedule.ScheduleInstance, error)
	listOverlappingFn       func(ctx context.Context, employeeID string, start, end time.Time) ([]schedule.ScheduleInstance, error)
	listForDayFn            func(ctx context.Context, day time.Time) ([]schedule.ScheduleInstance, error)
	listForEmployeeFn       func(ctx context.Context, employeeID string) ([]schedule.ScheduleInstance, error)
}

func (f *fakeScheduleRepository) WithTx(tx *sql.Tx) schedule.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeScheduleRepository) Create(ctx context.Context, inst *schedule.ScheduleInstance) error {
	if f.createFn != nil {
		return f.createFn(ctx, inst)
	}
	return nil
}

func (f *fakeScheduleRepository) Update(ctx context.Context, inst *schedule.ScheduleInstance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, inst)
	}
	return nil
}

func (f *fakeScheduleRepository) FindByID(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScheduleRepository) ExistsForWindow(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	if f.existsForWindowFn != nil {
		return f.existsForWindowFn(ctx, employeeID, start, end)
	}
	return false, nil
}

func (f *fakeScheduleRepository) ListByStatusAndSource(ctx context.Context, status schedule.Status, source schedule.Source) ([]schedule.ScheduleInstance, error) {
	if f.listByStatusAndSourceFn != nil {
		return f.listByStatusAndSourceFn(ctx, status, source)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) ListOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]schedule.ScheduleInstance, error) {
	if f.listOverlappingFn != nil {
		return f.listOverlappingFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) ListForDay(ctx context.Context, day time.Time) ([]schedule.ScheduleInstance, error) {
	if f.listForDayFn != nil {
		return f.listForDayFn(ctx, day)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) ListForEmployee(ctx context.Context, employeeID string) ([]schedule.ScheduleInstance, error) {
	if f.listForEmployeeFn != nil {
		return f.listForEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

type fakePatternRepository struct {
	findByIDFn        func(ctx context.Context, id string) (*shiftpattern.ShiftPattern, error)
	findForEmployeeFn func(ctx context.Context, employeeID string) (*shiftpattern.ShiftPattern, error)
}

func (f *fakePatternRepository) Create(ctx context.Context, p *shiftpattern.ShiftPattern) error {
	return nil
}

func (f *fakePatternRepository) FindByID(ctx context.Context, id string) (*shiftpattern.ShiftPattern, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePatternRepository) Assign(ctx context.Context, patternID, employeeID string) error {
	return nil
}

func (f *fakePatternRepository) ListAssignedEmployeeIDs(ctx context.Context, patternID string) ([]string, error) {
	return nil, nil
}

func (f *fakePatternRepository) FindForEmployee(ctx context.Context, employeeID string) (*shiftpattern.ShiftPattern, error) {
	if f.findForEmployeeFn != nil {
		return f.findForEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

type fakeDispatcher struct {
	notifyFn func(ctx context.Context, recipients []string, msg notification.Message) error
}

func (f *fakeDispatcher) Notify(ctx context.Context, recipients []string, msg notification.Message) error {
	if f.notifyFn != nil {
		return f.notifyFn(ctx, recipients, msg)
	}
	return nil
}

type scheduleServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  schedule.Service
	repo     *fakeScheduleRepository
	patterns *fakePatternRepository
	notifier *fakeDispatcher
}

func setupScheduleServiceTest(t *testing.T) *scheduleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeScheduleRepository{}
	patterns := &fakePatternRepository{}
	notifier := &fakeDispatcher{}
	svc := schedule.NewService(db, repo, patterns, notifier)

	return &scheduleServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		patterns: patterns,
		notifier: notifier,
	}
}

func weekdayPattern() *shiftpattern.ShiftPattern {
	return &shiftpattern.ShiftPattern{
		ID:            uuid.New(),
		Name:          "Day shift",
		StartTime:     "09:00",
		EndTime:       "17:00",
		DaysOfWeekCSV: "1,2,3,4,5",
	}
}

func TestScheduleService_GenerateRecurringShifts(t *testing.T) {
	ctx := context.Background()
	patternID := uuid.New().String()
	employeeA := uuid.New().String()
	employeeB := uuid.New().String()

	t.Run("creates weeks times days instances per employee", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.patterns.findByIDFn = func(ctx context.Context, id string) (*shiftpattern.ShiftPattern, error) {
			assert.Equal(t, patternID, id)
			return weekdayPattern(), nil
		}

		created := 0
		deps.repo.createFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			assert.Equal(t, schedule.StatusConfirmed, inst.Status)
			assert.Equal(t, schedule.SourceRota, inst.Source)
			assert.Equal(t, "Day shift", inst.Title)
			assert.True(t, inst.EndTime.After(inst.StartTime))
			created++
			return nil
		}

		result, err := deps.service.GenerateRecurringShifts(ctx, schedule.GenerateRotaRequest{
			PatternID:   patternID,
			EmployeeIDs: []string{employeeA, employeeB},
			Weeks:       2,
		})

		assert.NoError(t, err)
		// 2 employees x 2 weeks x 5 weekdays
		assert.Equal(t, 20, result.Created)
		assert.Equal(t, 20, created)
		assert.Zero(t, result.SkippedDuplicates)
		assert.Empty(t, result.PerEmployeeErrors)
	})

	t.Run("second run skips every existing window", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.patterns.findByIDFn = func(ctx context.Context, id string) (*shiftpattern.ShiftPattern, error) {
			return weekdayPattern(), nil
		}
		deps.repo.existsForWindowFn = func(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
			return true, nil
		}
		deps.repo.createFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			t.Fatal("no instance should be created on a re-run")
			return nil
		}

		result, err := deps.service.GenerateRecurringShifts(ctx, schedule.GenerateRotaRequest{
			PatternID:   patternID,
			EmployeeIDs: []string{employeeA},
			Weeks:       3,
		})

		assert.NoError(t, err)
		assert.Zero(t, result.Created)
		assert.Equal(t, 15, result.SkippedDuplicates)
	})

	t.Run("one failing employee does not abort the rest", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.patterns.findByIDFn = func(ctx context.Context, id string) (*shiftpattern.ShiftPattern, error) {
			return weekdayPattern(), nil
		}

		result, err := deps.service.GenerateRecurringShifts(ctx, schedule.GenerateRotaRequest{
			PatternID:   patternID,
			EmployeeIDs: []string{"not-a-uuid", employeeB},
			Weeks:       1,
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, result.Created)
		assert.Len(t, result.PerEmployeeErrors, 1)
		assert.Equal(t, "not-a-uuid", result.PerEmployeeErrors[0].EmployeeID)
	})

	t.Run("rejects out of range weeks", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GenerateRecurringShifts(ctx, schedule.GenerateRotaRequest{
			PatternID:   patternID,
			EmployeeIDs: []string{employeeA},
			Weeks:       53,
		})

		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidWeeks)
	})

	t.Run("unknown pattern", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GenerateRecurringShifts(ctx, schedule.GenerateRotaRequest{
			PatternID:   patternID,
			EmployeeIDs: []string{employeeA},
			Weeks:       1,
		})

		assert.ErrorIs(t, err, scheduleerrors.ErrPatternNotFound)
	})
}

func TestScheduleService_BatchApproveAllPendingRotas(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms pending rota shifts and notifies each employee once", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		pending := []schedule.ScheduleInstance{
			{ID: uuid.New(), EmployeeID: employeeID, Status: schedule.StatusPending, Source: schedule.SourceRota},
			{ID: uuid.New(), EmployeeID: employeeID, Status: schedule.StatusPending, Source: schedule.SourceRota},
		}
		deps.repo.listByStatusAndSourceFn = func(ctx context.Context, status schedule.Status, source schedule.Source) ([]schedule.ScheduleInstance, error) {
			assert.Equal(t, schedule.StatusPending, status)
			assert.Equal(t, schedule.SourceRota, source)
			return pending, nil
		}

		updated := 0
		deps.repo.updateFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			assert.Equal(t, schedule.StatusConfirmed, inst.Status)
			updated++
			return nil
		}

		var notified [][]string
		deps.notifier.notifyFn = func(ctx context.Context, recipients []string, msg notification.Message) error {
			notified = append(notified, recipients)
			return nil
		}

		result, err := deps.service.BatchApproveAllPendingRotas(ctx)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 2, result.Count)
		assert.Equal(t, 2, updated)
		assert.Len(t, notified, 1)
		assert.Equal(t, []string{employeeID.String()}, notified[0])
	})
}

func TestScheduleService_AcknowledgeShift(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	shiftID := uuid.New()

	t.Run("assignee accepts a pending shift", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			return &schedule.ScheduleInstance{
				ID:         shiftID,
				EmployeeID: employeeID,
				Status:     schedule.StatusPending,
			}, nil
		}

		resp, err := deps.service.AcknowledgeShift(ctx, shiftID.String(), employeeID.String(), true)

		assert.NoError(t, err)
		assert.Equal(t, string(schedule.StatusEmployeeAccepted), resp.Status)
	})

	t.Run("non-assignee is rejected", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			return &schedule.ScheduleInstance{
				ID:         shiftID,
				EmployeeID: employeeID,
				Status:     schedule.StatusPending,
			}, nil
		}

		_, err := deps.service.AcknowledgeShift(ctx, shiftID.String(), uuid.New().String(), true)

		assert.ErrorIs(t, err, scheduleerrors.ErrNotShiftAssignee)
	})

	t.Run("completed shift cannot be acknowledged", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			return &schedule.ScheduleInstance{
				ID:         shiftID,
				EmployeeID: employeeID,
				Status:     schedule.StatusCompleted,
			}, nil
		}

		_, err := deps.service.AcknowledgeShift(ctx, shiftID.String(), employeeID.String(), true)

		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidTransition)
	})
}

func TestScheduleService_AssignManualShift(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("creates a pending manual shift and asks for acknowledgment", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		var created *schedule.ScheduleInstance
		deps.repo.createFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			created = inst
			return nil
		}
		var notified []string
		deps.notifier.notifyFn = func(ctx context.Context, recipients []string, msg notification.Message) error {
			notified = recipients
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		location := "Ward B"
		resp, err := deps.service.AssignManualShift(ctx, schedule.AssignShiftRequest{
			EmployeeID: employeeID.String(),
			StartTime:  "2026-03-09T09:00:00Z",
			EndTime:    "2026-03-09T17:00:00Z",
			Title:      "Cover shift",
			Location:   &location,
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, schedule.StatusPending, created.Status)
		assert.Equal(t, schedule.SourceManual, created.Source)
		assert.Equal(t, employeeID, created.EmployeeID)
		assert.Equal(t, string(schedule.StatusPending), resp.Status)
		assert.Equal(t, "Cover shift", resp.Title)
		assert.Equal(t, []string{employeeID.String()}, notified)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			t.Fatal("an invalid window must not be persisted")
			return nil
		}

		_, err := deps.service.AssignManualShift(ctx, schedule.AssignShiftRequest{
			EmployeeID: employeeID.String(),
			StartTime:  "2026-03-09T17:00:00Z",
			EndTime:    "2026-03-09T09:00:00Z",
			Title:      "Cover shift",
		})

		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidDateRange)
	})

	t.Run("negative unparseable timestamps", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.AssignManualShift(ctx, schedule.AssignShiftRequest{
			EmployeeID: employeeID.String(),
			StartTime:  "next monday",
			EndTime:    "2026-03-09T17:00:00Z",
			Title:      "Cover shift",
		})

		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidDateRange)
	})
}
