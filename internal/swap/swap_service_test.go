package swap_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-workforce/internal/employee"
	"go-workforce/internal/notification"
	"go-workforce/internal/rbac"
	"go-workforce/internal/schedule"
	"go-workforce/internal/swap"
	swaperrors "go-workforce/internal/swap/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSwapRepository struct {
	createFn        func(ctx context.Context, req *swap.ShiftSwapRequest) error
	updateFn        func(ctx context.Context, req *swap.ShiftSwapRequest) error
	findByIDFn      func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error)
	listInvolvingFn func(ctx context.Context, employeeID string) ([]swap.ShiftSwapRequest, error)
}

func (f *fakeSwapRepository) WithTx(tx *sql.Tx) swap.Repository { return f }

func (f *fakeSwapRepository) Create(ctx context.Context, req *swap.ShiftSwapRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return nil
}

func (f *fakeSwapRepository) Update(ctx context.Context, req *swap.ShiftSwapRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, req)
	}
	return nil
}

func (f *fakeSwapRepository) FindByID(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSwapRepository) ListInvolving(ctx context.Context, employeeID string) ([]swap.ShiftSwapRequest, error) {
	if f.listInvolvingFn != nil {
		return f.listInvolvingFn(ctx, employeeID)
	}
	return nil, nil
}

type fakeScheduleRepo struct {
	schedule.Repository
	findByIDFn func(ctx context.Context, id string) (*schedule.ScheduleInstance, error)
	updateFn   func(ctx context.Context, inst *schedule.ScheduleInstance) error
}

func (f *fakeScheduleRepo) WithTx(tx *sql.Tx) schedule.Repository { return f }

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScheduleRepo) Update(ctx context.Context, inst *schedule.ScheduleInstance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, inst)
	}
	return nil
}

type fakeEmployeeRepo struct {
	employee.Repository
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRBACService struct {
	hasAnyRoleFn func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error)
}

func (f *fakeRBACService) AssignRole(ctx context.Context, userID string, role rbac.Role) (bool, error) {
	return false, nil
}

func (f *fakeRBACService) HasAnyRole(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
	if f.hasAnyRoleFn != nil {
		return f.hasAnyRoleFn(ctx, userID, roles...)
	}
	return false, nil
}

func (f *fakeRBACService) Enforce(ctx context.Context, req rbac.EnforceRequest) (bool, error) {
	return false, nil
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

type swapServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   swap.Service
	repo      *fakeSwapRepository
	schedules *fakeScheduleRepo
	employees *fakeEmployeeRepo
	rbac      *fakeRBACService
	notifier  *fakeDispatcher
}

func setupSwapServiceTest(t *testing.T) *swapServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &swapServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      &fakeSwapRepository{},
		schedules: &fakeScheduleRepo{},
		employees: &fakeEmployeeRepo{},
		rbac:      &fakeRBACService{},
		notifier:  &fakeDispatcher{},
	}
	deps.service = swap.NewService(db, deps.repo, deps.schedules, deps.employees, deps.rbac, deps.notifier)
	return deps
}

func TestSwapService_Create(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	recipientID := uuid.New()
	recipientUserID := uuid.New()
	shiftID := uuid.New()

	activeRecipient := func() *employee.Employee {
		return &employee.Employee{
			ID:     recipientID,
			UserID: &recipientUserID,
			Status: employee.StatusActive,
		}
	}

	ownedShift := func() *schedule.ScheduleInstance {
		return &schedule.ScheduleInstance{
			ID:         shiftID,
			EmployeeID: requesterID,
			Status:     schedule.StatusConfirmed,
			Title:      "Evening shift",
			StartTime:  time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC),
		}
	}

	t.Run("creates a pending swap and notifies the recipient", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return activeRecipient(), nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			return ownedShift(), nil
		}

		var created *swap.ShiftSwapRequest
		deps.repo.createFn = func(ctx context.Context, req *swap.ShiftSwapRequest) error {
			created = req
			return nil
		}
		var notifiedRecipient []string
		deps.notifier.notifyFn = func(ctx context.Context, recipients []string, msg notification.Message) error {
			notifiedRecipient = recipients
			return nil
		}

		resp, err := deps.service.Create(ctx, requesterID.String(), swap.CreateSwapRequest{
			RecipientEmployeeID: recipientID.String(),
			RequesterScheduleID: shiftID.String(),
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, swap.StatusPending, created.Status)
		assert.Equal(t, string(swap.StatusPending), resp.Status)
		assert.Equal(t, []string{recipientID.String()}, notifiedRecipient)
	})

	t.Run("negative swapping with yourself", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, requesterID.String(), swap.CreateSwapRequest{
			RecipientEmployeeID: requesterID.String(),
			RequesterScheduleID: shiftID.String(),
		})

		assert.ErrorIs(t, err, swaperrors.ErrSelfSwap)
	})

	t.Run("negative inactive recipient", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			emp := activeRecipient()
			emp.Status = employee.StatusInactive
			return emp, nil
		}

		_, err := deps.service.Create(ctx, requesterID.String(), swap.CreateSwapRequest{
			RecipientEmployeeID: recipientID.String(),
			RequesterScheduleID: shiftID.String(),
		})

		assert.ErrorIs(t, err, swaperrors.ErrRecipientNotEligible)
	})

	t.Run("negative shift owned by someone else", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return activeRecipient(), nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			inst := ownedShift()
			inst.EmployeeID = uuid.New()
			return inst, nil
		}

		_, err := deps.service.Create(ctx, requesterID.String(), swap.CreateSwapRequest{
			RecipientEmployeeID: recipientID.String(),
			RequesterScheduleID: shiftID.String(),
		})

		assert.ErrorIs(t, err, swaperrors.ErrNotShiftOwner)
	})

	t.Run("negative completed shift cannot change hands", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return activeRecipient(), nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			inst := ownedShift()
			inst.Status = schedule.StatusCompleted
			return inst, nil
		}

		_, err := deps.service.Create(ctx, requesterID.String(), swap.CreateSwapRequest{
			RecipientEmployeeID: recipientID.String(),
			RequesterScheduleID: shiftID.String(),
		})

		assert.ErrorIs(t, err, swaperrors.ErrShiftNotSwappable)
	})
}

func TestSwapService_Respond(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	recipientID := uuid.New()
	actorUserID := uuid.New().String()

	pendingSwap := func() *swap.ShiftSwapRequest {
		return &swap.ShiftSwapRequest{
			ID:                  uuid.New(),
			RequesterEmployeeID: requesterID,
			RecipientEmployeeID: recipientID,
			RequesterScheduleID: uuid.New(),
			Status:              swap.StatusPending,
		}
	}

	t.Run("recipient approves their own swap", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw := pendingSwap()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			t.Fatal("the recipient does not need a managerial role")
			return false, nil
		}

		resp, err := deps.service.Respond(ctx, sw.ID.String(), actorUserID, recipientID.String(), true)

		assert.NoError(t, err)
		assert.Equal(t, string(swap.StatusApproved), resp.Status)
		assert.NotNil(t, sw.DecidedAt)
	})

	t.Run("manager responds on the recipient's behalf", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw := pendingSwap()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}

		resp, err := deps.service.Respond(ctx, sw.ID.String(), actorUserID, uuid.New().String(), false)

		assert.NoError(t, err)
		assert.Equal(t, string(swap.StatusRejected), resp.Status)
	})

	t.Run("negative bystander cannot respond", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw := pendingSwap()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}

		_, err := deps.service.Respond(ctx, sw.ID.String(), actorUserID, uuid.New().String(), true)

		assert.ErrorIs(t, err, swaperrors.ErrNotAllowedToRespond)
	})

	t.Run("negative rejected swap cannot be approved later", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw := pendingSwap()
		sw.Status = swap.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}

		_, err := deps.service.Respond(ctx, sw.ID.String(), actorUserID, recipientID.String(), true)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapTransition)
	})
}

func TestSwapService_Complete(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	recipientID := uuid.New()
	actorUserID := uuid.New().String()

	approvedExchange := func() (*swap.ShiftSwapRequest, *schedule.ScheduleInstance, *schedule.ScheduleInstance) {
		requesterShift := &schedule.ScheduleInstance{
			ID:         uuid.New(),
			EmployeeID: requesterID,
			Status:     schedule.StatusConfirmed,
		}
		recipientShift := &schedule.ScheduleInstance{
			ID:         uuid.New(),
			EmployeeID: recipientID,
			Status:     schedule.StatusConfirmed,
		}
		recipientShiftID := recipientShift.ID
		sw := &swap.ShiftSwapRequest{
			ID:                  uuid.New(),
			RequesterEmployeeID: requesterID,
			RecipientEmployeeID: recipientID,
			RequesterScheduleID: requesterShift.ID,
			RecipientScheduleID: &recipientShiftID,
			Status:              swap.StatusApproved,
		}
		return sw, requesterShift, recipientShift
	}

	t.Run("exchanges both shift assignments in one transaction", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw, requesterShift, recipientShift := approvedExchange()
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			if id == requesterShift.ID.String() {
				return requesterShift, nil
			}
			return recipientShift, nil
		}

		var reassigned []uuid.UUID
		deps.schedules.updateFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			reassigned = append(reassigned, inst.EmployeeID)
			assert.NotNil(t, inst.Notes)
			assert.Contains(t, *inst.Notes, "Reassigned via shift swap")
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Complete(ctx, sw.ID.String(), actorUserID)

		assert.NoError(t, err)
		assert.Equal(t, string(swap.StatusCompleted), resp.Status)
		assert.Equal(t, []uuid.UUID{recipientID, requesterID}, reassigned)
		assert.NotNil(t, sw.CompletedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("one-sided swap moves the requester's shift only", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw, requesterShift, _ := approvedExchange()
		sw.RecipientScheduleID = nil
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			return requesterShift, nil
		}

		updates := 0
		deps.schedules.updateFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			updates++
			assert.Equal(t, recipientID, inst.EmployeeID)
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Complete(ctx, sw.ID.String(), actorUserID)

		assert.NoError(t, err)
		assert.Equal(t, 1, updates)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative completion is managerial only", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Complete(ctx, uuid.New().String(), actorUserID)

		assert.ErrorIs(t, err, swaperrors.ErrNotAllowedToComplete)
	})

	t.Run("negative pending swap cannot complete", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw, _, _ := approvedExchange()
		sw.Status = swap.StatusPending
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}

		_, err := deps.service.Complete(ctx, sw.ID.String(), actorUserID)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapTransition)
	})

	t.Run("negative shift went terminal after approval", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw, requesterShift, _ := approvedExchange()
		requesterShift.Status = schedule.StatusCompleted
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			return requesterShift, nil
		}

		_, err := deps.service.Complete(ctx, sw.ID.String(), actorUserID)

		assert.ErrorIs(t, err, swaperrors.ErrShiftNotSwappable)
	})

	t.Run("negative requester shift changed hands after approval", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw, requesterShift, recipientShift := approvedExchange()
		requesterShift.EmployeeID = uuid.New()
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			if id == requesterShift.ID.String() {
				return requesterShift, nil
			}
			return recipientShift, nil
		}
		deps.schedules.updateFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			t.Fatal("a shift the requester no longer owns must not move")
			return nil
		}

		_, err := deps.service.Complete(ctx, sw.ID.String(), actorUserID)

		assert.ErrorIs(t, err, swaperrors.ErrNotShiftOwner)
	})

	t.Run("negative recipient shift changed hands after approval", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		defer deps.db.Close()

		sw, requesterShift, recipientShift := approvedExchange()
		recipientShift.EmployeeID = uuid.New()
		deps.rbac.hasAnyRoleFn = func(ctx context.Context, userID string, roles ...rbac.Role) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return sw, nil
		}
		deps.schedules.findByIDFn = func(ctx context.Context, id string) (*schedule.ScheduleInstance, error) {
			if id == requesterShift.ID.String() {
				return requesterShift, nil
			}
			return recipientShift, nil
		}
		deps.schedules.updateFn = func(ctx context.Context, inst *schedule.ScheduleInstance) error {
			t.Fatal("a shift the recipient no longer owns must not move")
			return nil
		}

		_, err := deps.service.Complete(ctx, sw.ID.String(), actorUserID)

		assert.ErrorIs(t, err, swaperrors.ErrNotShiftOwner)
	})
}
