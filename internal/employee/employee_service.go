package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const optionsCacheKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

// GetOptions serves the dropdown-sized employee list. Cached in redis with
// singleflight so a cold cache triggers one store read, not one per caller.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, optionsCacheKey).Result(); err == nil {
			var opts []EmployeeOption
			if err := json.Unmarshal([]byte(cached), &opts); err == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(optionsCacheKey, func() (any, error) {
		rows, err := s.repo.FindAllActive(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]EmployeeOption, len(rows))
		for i, e := range rows {
			opts[i] = EmployeeOption{
				ID:       e.ID.String(),
				FullName: e.FullName,
				JobTitle: e.JobTitle,
			}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(opts); err == nil {
				if err := s.rdb.Set(ctx, optionsCacheKey, payload, 5*time.Minute).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeOption), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              e.ID.String(),
		FullName:        e.FullName,
		JobTitle:        e.JobTitle,
		Department:      e.Department,
		BaseSalary:      e.BaseSalary,
		HourlyRate:      e.HourlyRate,
		AnnualLeaveDays: e.AnnualLeaveDays,
		SickLeaveDays:   e.SickLeaveDays,
		Status:          string(e.Status),
		ManagerCode:     e.ManagerCode,
	}
	if e.UserID != nil {
		v := e.UserID.String()
		resp.UserID = &v
	}
	return resp
}
