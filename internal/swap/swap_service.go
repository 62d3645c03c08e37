package swap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-workforce/internal/employee"
	"go-workforce/internal/notification"
	"go-workforce/internal/rbac"
	"go-workforce/internal/schedule"
	scheduleerrors "go-workforce/internal/schedule/errors"
	swaperrors "go-workforce/internal/swap/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=swap_service.go -destination=mock/swap_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, requesterEmployeeID string, req CreateSwapRequest) (SwapResponse, error)
	// Respond approves or rejects a pending swap. The recipient may
	// respond; so may a managerial role acting on their behalf.
	Respond(ctx context.Context, swapID, actorUserID, actorEmployeeID string, accept bool) (SwapResponse, error)
	// Complete executes an approved swap by moving the shift assignments.
	Complete(ctx context.Context, swapID, actorUserID string) (SwapResponse, error)
	ListInvolving(ctx context.Context, employeeID string) ([]SwapResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	schedules schedule.Repository
	employees employee.Repository
	rbac      rbac.Service
	notifier  notification.Dispatcher
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	schedules schedule.Repository,
	employees employee.Repository,
	rbacService rbac.Service,
	notifier notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("swap.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("swap.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		schedules: schedules,
		employees: employees,
		rbac:      rbacService,
		notifier:  notifier,
		logger:    l,
	}
}

// swappable statuses are the non-terminal ones; a completed or cancelled
// shift cannot change hands.
func swappable(status schedule.Status) bool {
	switch status {
	case schedule.StatusPending, schedule.StatusConfirmed, schedule.StatusEmployeeAccepted:
		return true
	}
	return false
}

func (s *service) Create(ctx context.Context, requesterEmployeeID string, req CreateSwapRequest) (SwapResponse, error) {
	requesterUUID, err := uuid.Parse(requesterEmployeeID)
	if err != nil {
		return SwapResponse{}, err
	}
	recipientUUID, err := uuid.Parse(req.RecipientEmployeeID)
	if err != nil {
		return SwapResponse{}, err
	}
	if requesterUUID == recipientUUID {
		return SwapResponse{}, swaperrors.ErrSelfSwap
	}

	recipient, err := s.employees.FindByID(ctx, req.RecipientEmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrRecipientNotEligible
		}
		return SwapResponse{}, err
	}
	if recipient.Status != employee.StatusActive || recipient.UserID == nil {
		return SwapResponse{}, swaperrors.ErrRecipientNotEligible
	}

	requesterShift, err := s.loadOwnedShift(ctx, req.RequesterScheduleID, requesterUUID)
	if err != nil {
		return SwapResponse{}, err
	}

	swap := &ShiftSwapRequest{
		ID:                  uuid.New(),
		RequesterEmployeeID: requesterUUID,
		RecipientEmployeeID: recipientUUID,
		RequesterScheduleID: requesterShift.ID,
		Status:              StatusPending,
		Note:                req.Note,
	}
	if req.RecipientScheduleID != nil {
		recipientShift, err := s.loadOwnedShift(ctx, *req.RecipientScheduleID, recipientUUID)
		if err != nil {
			return SwapResponse{}, err
		}
		swap.RecipientScheduleID = &recipientShift.ID
	}

	if err := s.repo.Create(ctx, swap); err != nil {
		s.logger.Error("persist swap request failed", zap.Error(err))
		return SwapResponse{}, err
	}

	s.logger.Info("swap request created",
		zap.String("swap_id", swap.ID.String()),
		zap.String("requester_employee_id", requesterEmployeeID),
		zap.String("recipient_employee_id", req.RecipientEmployeeID),
	)

	s.notify(ctx, []string{recipientUUID.String()}, notification.Message{
		Title:         "Shift swap requested",
		Body:          fmt.Sprintf("A colleague asked you to take their shift %q on %s.", requesterShift.Title, requesterShift.StartTime.Format("2006-01-02")),
		Severity:      notification.SeverityInfo,
		RelatedEntity: "shift_swap",
		RelatedID:     swap.ID.String(),
	})

	return mapToResponse(*swap), nil
}

func (s *service) loadOwnedShift(ctx context.Context, scheduleID string, ownerID uuid.UUID) (*schedule.ScheduleInstance, error) {
	inst, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduleerrors.ErrShiftNotFound
		}
		return nil, err
	}
	if inst.EmployeeID != ownerID {
		return nil, swaperrors.ErrNotShiftOwner
	}
	if !swappable(inst.Status) {
		return nil, swaperrors.ErrShiftNotSwappable
	}
	return inst, nil
}

func (s *service) Respond(ctx context.Context, swapID, actorUserID, actorEmployeeID string, accept bool) (SwapResponse, error) {
	swap, err := s.repo.FindByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrSwapNotFound
		}
		return SwapResponse{}, err
	}

	if swap.RecipientEmployeeID.String() != actorEmployeeID {
		managerial, err := s.rbac.HasAnyRole(ctx, actorUserID, rbac.ManagerialRoles...)
		if err != nil {
			return SwapResponse{}, err
		}
		if !managerial {
			return SwapResponse{}, swaperrors.ErrNotAllowedToRespond
		}
	}

	next := StatusApproved
	if !accept {
		next = StatusRejected
	}
	if !CanTransition(swap.Status, next) {
		return SwapResponse{}, swaperrors.ErrInvalidSwapTransition
	}

	now := time.Now().UTC()
	swap.Status = next
	swap.DecidedAt = &now
	if actorUUID, err := uuid.Parse(actorUserID); err == nil {
		swap.DecidedByUserID = &actorUUID
	}

	if err := s.repo.Update(ctx, swap); err != nil {
		s.logger.Error("persist swap decision failed", zap.Error(err))
		return SwapResponse{}, err
	}

	s.logger.Info("swap request decided",
		zap.String("swap_id", swap.ID.String()),
		zap.String("status", string(next)),
	)

	verb := "approved"
	severity := notification.SeverityInfo
	if next == StatusRejected {
		verb = "rejected"
		severity = notification.SeverityWarning
	}
	s.notify(ctx, []string{swap.RequesterEmployeeID.String(), swap.RecipientEmployeeID.String()}, notification.Message{
		Title:         "Shift swap " + verb,
		Body:          fmt.Sprintf("The shift swap request has been %s.", verb),
		Severity:      severity,
		RelatedEntity: "shift_swap",
		RelatedID:     swap.ID.String(),
	})

	return mapToResponse(*swap), nil
}

func (s *service) Complete(ctx context.Context, swapID, actorUserID string) (SwapResponse, error) {
	managerial, err := s.rbac.HasAnyRole(ctx, actorUserID, rbac.ManagerialRoles...)
	if err != nil {
		return SwapResponse{}, err
	}
	if !managerial {
		return SwapResponse{}, swaperrors.ErrNotAllowedToComplete
	}

	swap, err := s.repo.FindByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrSwapNotFound
		}
		return SwapResponse{}, err
	}
	if !CanTransition(swap.Status, StatusCompleted) {
		return SwapResponse{}, swaperrors.ErrInvalidSwapTransition
	}

	requesterShift, err := s.schedules.FindByID(ctx, swap.RequesterScheduleID.String())
	if err != nil {
		return SwapResponse{}, err
	}
	// Ownership can change between approval and completion when another
	// swap touches the same shift; reverify before moving it.
	if requesterShift.EmployeeID != swap.RequesterEmployeeID {
		return SwapResponse{}, swaperrors.ErrNotShiftOwner
	}
	if !swappable(requesterShift.Status) {
		return SwapResponse{}, swaperrors.ErrShiftNotSwappable
	}

	var recipientShift *schedule.ScheduleInstance
	if swap.RecipientScheduleID != nil {
		recipientShift, err = s.schedules.FindByID(ctx, swap.RecipientScheduleID.String())
		if err != nil {
			return SwapResponse{}, err
		}
		if recipientShift.EmployeeID != swap.RecipientEmployeeID {
			return SwapResponse{}, swaperrors.ErrNotShiftOwner
		}
		if !swappable(recipientShift.Status) {
			return SwapResponse{}, swaperrors.ErrShiftNotSwappable
		}
	}

	note := fmt.Sprintf("Reassigned via shift swap %s", swap.ID.String())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SwapResponse{}, err
	}
	defer tx.Rollback()

	txSchedules := s.schedules.WithTx(tx)

	// With two shifts the assignments exchange; with one, the requester's
	// shift moves to the recipient.
	requesterShift.EmployeeID = swap.RecipientEmployeeID
	appendShiftNote(requesterShift, note)
	if err := txSchedules.Update(ctx, requesterShift); err != nil {
		return SwapResponse{}, err
	}
	if recipientShift != nil {
		recipientShift.EmployeeID = swap.RequesterEmployeeID
		appendShiftNote(recipientShift, note)
		if err := txSchedules.Update(ctx, recipientShift); err != nil {
			return SwapResponse{}, err
		}
	}

	now := time.Now().UTC()
	swap.Status = StatusCompleted
	swap.CompletedAt = &now
	if actorUUID, err := uuid.Parse(actorUserID); err == nil {
		swap.CompletedByUserID = &actorUUID
	}
	if err := s.repo.WithTx(tx).Update(ctx, swap); err != nil {
		return SwapResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SwapResponse{}, err
	}

	s.logger.Info("swap request completed",
		zap.String("swap_id", swap.ID.String()),
		zap.Bool("exchanged", recipientShift != nil),
	)

	s.notify(ctx, []string{swap.RequesterEmployeeID.String(), swap.RecipientEmployeeID.String()}, notification.Message{
		Title:         "Shift swap completed",
		Body:          "Your shift assignments have been updated following an approved swap.",
		Severity:      notification.SeverityInfo,
		RelatedEntity: "shift_swap",
		RelatedID:     swap.ID.String(),
	})

	return mapToResponse(*swap), nil
}

func (s *service) ListInvolving(ctx context.Context, employeeID string) ([]SwapResponse, error) {
	swaps, err := s.repo.ListInvolving(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]SwapResponse, 0, len(swaps))
	for _, sw := range swaps {
		out = append(out, mapToResponse(sw))
	}
	return out, nil
}

func appendShiftNote(inst *schedule.ScheduleInstance, note string) {
	if inst.Notes == nil || *inst.Notes == "" {
		inst.Notes = &note
		return
	}
	joined := *inst.Notes + "\n" + note
	inst.Notes = &joined
}

func (s *service) notify(ctx context.Context, recipients []string, msg notification.Message) {
	if err := s.notifier.Notify(ctx, recipients, msg); err != nil {
		s.logger.Warn("swap notification failed", zap.Error(err))
	}
}
