package manager

import (
	"context"
	"errors"
	"fmt"

	"go-workforce/internal/employee"
	managererrors "go-workforce/internal/manager/errors"
	"go-workforce/internal/notification"
	"go-workforce/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=manager_service.go -destination=mock/manager_service_mock.go -package=mock
type Service interface {
	// ValidateManagerID resolves an MGR code to the manager it names.
	// Malformed codes fail before any store access.
	ValidateManagerID(ctx context.Context, code string) (ValidateCodeResponse, error)
	// LinkEmployee is the idempotent account-to-employee linkage: it
	// upserts the employee record keyed by user id, assigns the role
	// additively, and notifies the resolved manager.
	LinkEmployee(ctx context.Context, req LinkEmployeeRequest) (LinkEmployeeResult, error)
}

type service struct {
	employees   employee.Repository
	rbacService rbac.Service
	roles       rbac.Repository
	notifier    notification.Dispatcher
	logger      *zap.Logger
}

func NewService(
	employees employee.Repository,
	rbacService rbac.Service,
	roles rbac.Repository,
	notifier notification.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("manager.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("manager.service")
	}
	return &service{
		employees:   employees,
		rbacService: rbacService,
		roles:       roles,
		notifier:    notifier,
		logger:      l,
	}
}

func (s *service) ValidateManagerID(ctx context.Context, code string) (ValidateCodeResponse, error) {
	if !CodeFormatValid(code) {
		return ValidateCodeResponse{}, managererrors.ErrInvalidManagerCode
	}

	mgr, err := s.employees.FindManagerByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Diagnostic only: distinguishes "wrong code" from "no
			// managers onboarded yet" in the logs.
			if count, countErr := s.roles.CountUsersWithRole(ctx, rbac.RoleManager); countErr == nil && count == 0 {
				s.logger.Warn("manager code lookup failed and no manager roles exist",
					zap.String("code", code),
				)
			}
			return ValidateCodeResponse{}, managererrors.ErrManagerNotFound
		}
		return ValidateCodeResponse{}, err
	}

	return ValidateCodeResponse{
		Code:              code,
		ManagerEmployeeID: mgr.ID.String(),
		ManagerName:       mgr.FullName,
	}, nil
}

func (s *service) LinkEmployee(ctx context.Context, req LinkEmployeeRequest) (LinkEmployeeResult, error) {
	role := rbac.Role(req.Role)
	if !role.Valid() {
		return LinkEmployeeResult{}, rbac.ErrUnknownRole
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return LinkEmployeeResult{}, err
	}

	existing, err := s.employees.FindByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return LinkEmployeeResult{}, err
	}

	var result LinkEmployeeResult
	var directManagerID string

	emp := existing
	if emp == nil {
		emp = &employee.Employee{
			ID:     uuid.New(),
			UserID: &userUUID,
			Status: employee.StatusActive,
		}
		result.Created = true
	}
	emp.FullName = req.FullName
	if req.JobTitle != nil {
		emp.JobTitle = *req.JobTitle
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}

	if role == rbac.RoleManager {
		// Managers are addressable by code, so one is issued on first
		// linkage and kept stable afterwards.
		emp.JobTitle = "Manager"
		if emp.ManagerCode == nil {
			code, err := generateManagerCode(ctx, s.employees)
			if err != nil {
				return LinkEmployeeResult{}, err
			}
			emp.ManagerCode = &code
		}
		result.CodeVerified = true
	} else if req.ManagerCode != nil && *req.ManagerCode != "" {
		validated, err := s.ValidateManagerID(ctx, *req.ManagerCode)
		switch {
		case err == nil:
			result.CodeVerified = true
			directManagerID = validated.ManagerEmployeeID
		case errors.Is(err, managererrors.ErrInvalidManagerCode),
			errors.Is(err, managererrors.ErrManagerNotFound):
			// Stored unverified; a later linkage of the manager account
			// makes the code resolvable.
			result.Warning = "manager code could not be verified and was stored as supplied"
			s.logger.Warn("unverified manager code persisted",
				zap.String("user_id", req.UserID),
				zap.String("manager_code", *req.ManagerCode),
			)
		default:
			return LinkEmployeeResult{}, err
		}
		emp.ManagerCode = req.ManagerCode
	}

	if result.Created {
		err = s.employees.Create(ctx, emp)
	} else {
		err = s.employees.Update(ctx, emp)
	}
	if err != nil {
		s.logger.Error("persist employee linkage failed", zap.Error(err))
		return LinkEmployeeResult{}, err
	}

	assigned, err := s.rbacService.AssignRole(ctx, req.UserID, role)
	if err != nil {
		return LinkEmployeeResult{}, err
	}
	result.RoleAssigned = assigned
	result.EmployeeID = emp.ID.String()
	result.ManagerCode = emp.ManagerCode

	s.logger.Info("employee linked",
		zap.String("employee_id", emp.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("role", string(role)),
		zap.Bool("created", result.Created),
		zap.Bool("role_assigned", assigned),
	)

	s.notifyManagers(ctx, directManagerID, emp)
	return result, nil
}

// notifyManagers tells the direct manager about the linkage; only when no
// direct manager resolves does it broadcast to everyone with the manager
// role.
func (s *service) notifyManagers(ctx context.Context, directManagerID string, emp *employee.Employee) {
	msg := notification.Message{
		Title:         "Team member linked",
		Body:          fmt.Sprintf("%s has been linked to an account and added to the workforce.", emp.FullName),
		Severity:      notification.SeverityInfo,
		RelatedEntity: "employee",
		RelatedID:     emp.ID.String(),
	}

	if directManagerID != "" {
		if err := s.notifier.Notify(ctx, []string{directManagerID}, msg); err != nil {
			s.logger.Warn("manager notification failed", zap.Error(err))
		}
		return
	}

	managerUserIDs, err := s.roles.ListUserIDsWithRole(ctx, rbac.RoleManager)
	if err != nil {
		s.logger.Warn("manager broadcast lookup failed", zap.Error(err))
		return
	}
	if len(managerUserIDs) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, managerUserIDs, msg); err != nil {
		s.logger.Warn("manager broadcast failed", zap.Error(err))
	}
}
