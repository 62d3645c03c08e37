package rbac

import (
	"context"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type EnforceRequest struct {
	UserID   string
	Resource string
	Action   string
}

// Static resource policy: which role may do what. Grouping policies come
// from the user_roles table on every enforce, so new assignments take
// effect without a restart.
var rolePolicies = [][3]string{
	{string(RoleEmployee), "schedule", "read"},
	{string(RoleEmployee), "schedule", "acknowledge"},
	{string(RoleEmployee), "attendance", "clock"},
	{string(RoleEmployee), "leave", "create"},
	{string(RoleEmployee), "leave", "read"},
	{string(RoleEmployee), "swap", "create"},
	{string(RoleEmployee), "swap", "respond"},
	{string(RoleEmployee), "employee", "read"},

	{string(RoleManager), "schedule", "manage"},
	{string(RoleManager), "leave", "approve"},
	{string(RoleManager), "swap", "respond"},
	{string(RoleManager), "swap", "complete"},
	{string(RoleManager), "attendance", "sweep"},
	{string(RoleManager), "linkage", "manage"},

	{string(RoleHR), "leave", "approve"},
	{string(RoleHR), "swap", "respond"},
	{string(RoleHR), "swap", "complete"},
	{string(RoleHR), "linkage", "manage"},

	{string(RolePayroll), "payroll", "compute"},
	{string(RolePayroll), "payroll", "read"},

	{string(RoleAdmin), "schedule", "manage"},
	{string(RoleAdmin), "leave", "approve"},
	{string(RoleAdmin), "swap", "respond"},
	{string(RoleAdmin), "swap", "complete"},
	{string(RoleAdmin), "attendance", "sweep"},
	{string(RoleAdmin), "payroll", "compute"},
	{string(RoleAdmin), "payroll", "read"},
	{string(RoleAdmin), "linkage", "manage"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	AssignRole(ctx context.Context, userID string, role Role) (bool, error)
	HasAnyRole(ctx context.Context, userID string, roles ...Role) (bool, error)
	Enforce(ctx context.Context, req EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

func (s *service) AssignRole(ctx context.Context, userID string, role Role) (bool, error) {
	if !role.Valid() {
		return false, ErrUnknownRole
	}

	inserted, err := s.repo.Insert(ctx, userID, role)
	if err != nil {
		s.logger.Error("assign role failed",
			zap.String("user_id", userID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return false, err
	}
	if !inserted {
		s.logger.Debug("role already assigned",
			zap.String("user_id", userID),
			zap.String("role", string(role)),
		)
	}
	return inserted, nil
}

func (s *service) HasAnyRole(ctx context.Context, userID string, roles ...Role) (bool, error) {
	for _, role := range roles {
		ok, err := s.repo.HasRole(ctx, userID, role)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) Enforce(ctx context.Context, req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	assignments, err := s.repo.ListAll(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range assignments {
		if _, err := s.enforcer.AddGroupingPolicy(a.UserID.String(), string(a.Role)); err != nil {
			return false, err
		}
	}

	for _, p := range rolePolicies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return false, err
		}
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("user_id", req.UserID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
