package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-workforce/internal/employee"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const optionsCacheKey = "employees:options"

type fakeEmployeeRepository struct {
	createFn            func(ctx context.Context, e *employee.Employee) error
	updateFn            func(ctx context.Context, e *employee.Employee) error
	findByIDFn          func(ctx context.Context, id string) (*employee.Employee, error)
	findByUserIDFn      func(ctx context.Context, userID string) (*employee.Employee, error)
	findManagerByCodeFn func(ctx context.Context, code string) (*employee.Employee, error)
	managerCodeExistsFn func(ctx context.Context, code string) (bool, error)
	findAllActiveFn     func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	if f.findByUserIDFn != nil {
		return f.findByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindManagerByCode(ctx context.Context, code string) (*employee.Employee, error) {
	if f.findManagerByCodeFn != nil {
		return f.findManagerByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) ManagerCodeExists(ctx context.Context, code string) (bool, error) {
	if f.managerCodeExistsFn != nil {
		return f.managerCodeExistsFn(ctx, code)
	}
	return false, nil
}

func (f *fakeEmployeeRepository) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}

type employeeServiceDeps struct {
	service   employee.Service
	repo      *fakeEmployeeRepository
	redismock redismock.ClientMock
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	dbRedis, redisMock := redismock.NewClientMock()
	repo := &fakeEmployeeRepository{}

	svc := employee.NewService(repo, dbRedis)

	return &employeeServiceDeps{
		service:   svc,
		repo:      repo,
		redismock: redisMock,
	}
}

func TestEmployeeService_GetAll(t *testing.T) {
	deps := setupEmployeeServiceTest(t)
	ctx := context.Background()

	t.Run("success - maps entities to responses", func(t *testing.T) {
		rate := 13.75
		code := "MGR-00042"
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{
					ID:          uuid.New(),
					FullName:    "Dana Whitfield",
					JobTitle:    "Nurse",
					Department:  "Ward B",
					BaseSalary:  2200,
					HourlyRate:  &rate,
					Status:      employee.StatusActive,
					ManagerCode: &code,
				},
				{
					ID:       uuid.New(),
					FullName: "Omar Haddad",
					JobTitle: "Porter",
					Status:   employee.StatusActive,
				},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Dana Whitfield", resp[0].FullName)
		assert.Equal(t, "ACTIVE", resp[0].Status)
		if assert.NotNil(t, resp[0].HourlyRate) {
			assert.Equal(t, 13.75, *resp[0].HourlyRate)
		}
		if assert.NotNil(t, resp[0].ManagerCode) {
			assert.Equal(t, "MGR-00042", *resp[0].ManagerCode)
		}
		assert.Nil(t, resp[1].ManagerCode)
	})

	t.Run("negative - repository error", func(t *testing.T) {
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupEmployeeServiceTest(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		userID := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*employee.Employee, error) {
			assert.Equal(t, id.String(), got)
			return &employee.Employee{
				ID:       id,
				UserID:   &userID,
				FullName: "Dana Whitfield",
				JobTitle: "Nurse",
				Status:   employee.StatusActive,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		if assert.NotNil(t, resp.UserID) {
			assert.Equal(t, userID.String(), *resp.UserID)
		}
	})

	t.Run("negative - not found", func(t *testing.T) {
		deps.repo.findByIDFn = nil

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit - served from redis without a store read", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		cached := []employee.EmployeeOption{
			{ID: uuid.New().String(), FullName: "Dana Whitfield", JobTitle: "Nurse"},
		}
		payload, _ := json.Marshal(cached)

		deps.redismock.ExpectGet(optionsCacheKey).SetVal(string(payload))
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			t.Fatal("store must not be read on a cache hit")
			return nil, nil
		}

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Dana Whitfield", resp[0].FullName)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss - reads the store and backfills redis", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		id := uuid.New()
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: id, FullName: "Omar Haddad", JobTitle: "Porter"},
			}, nil
		}
		payload, _ := json.Marshal([]employee.EmployeeOption{
			{ID: id.String(), FullName: "Omar Haddad", JobTitle: "Porter"},
		})

		deps.redismock.ExpectGet(optionsCacheKey).RedisNil()
		deps.redismock.ExpectSet(optionsCacheKey, payload, 5*time.Minute).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Omar Haddad", resp[0].FullName)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("corrupt cache entry falls through to the store", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		id := uuid.New()
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: id, FullName: "Omar Haddad", JobTitle: "Porter"},
			}, nil
		}
		payload, _ := json.Marshal([]employee.EmployeeOption{
			{ID: id.String(), FullName: "Omar Haddad", JobTitle: "Porter"},
		})

		deps.redismock.ExpectGet(optionsCacheKey).SetVal("{not json")
		deps.redismock.ExpectSet(optionsCacheKey, payload, 5*time.Minute).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache write failure does not fail the read", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		id := uuid.New()
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: id, FullName: "Omar Haddad", JobTitle: "Porter"},
			}, nil
		}
		payload, _ := json.Marshal([]employee.EmployeeOption{
			{ID: id.String(), FullName: "Omar Haddad", JobTitle: "Porter"},
		})

		deps.redismock.ExpectGet(optionsCacheKey).RedisNil()
		deps.redismock.ExpectSet(optionsCacheKey, payload, 5*time.Minute).SetErr(errors.New("redis down"))

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("negative - store error on a cache miss", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		deps.redismock.ExpectGet(optionsCacheKey).RedisNil()
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return nil, errors.New("database connection lost")
		}

		resp, err := deps.service.GetOptions(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
