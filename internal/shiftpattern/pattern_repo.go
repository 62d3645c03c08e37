package shiftpattern

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=pattern_repo.go -destination=mock/pattern_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *ShiftPattern) error
	FindByID(ctx context.Context, id string) (*ShiftPattern, error)
	Assign(ctx context.Context, patternID, employeeID string) error
	ListAssignedEmployeeIDs(ctx context.Context, patternID string) ([]string, error)
	// FindForEmployee returns the employee's assigned pattern, or nil when
	// none is assigned (callers fall back to defaults).
	FindForEmployee(ctx context.Context, employeeID string) (*ShiftPattern, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *ShiftPattern) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ShiftPattern, error) {
	var p ShiftPattern
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) Assign(ctx context.Context, patternID, employeeID string) error {
	pid, err := uuid.Parse(patternID)
	if err != nil {
		return err
	}
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&PatternAssignment{PatternID: pid, EmployeeID: eid}).Error
}

func (r *repository) ListAssignedEmployeeIDs(ctx context.Context, patternID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&PatternAssignment{}).
		Where("pattern_id = ?", patternID).
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *repository) FindForEmployee(ctx context.Context, employeeID string) (*ShiftPattern, error) {
	var p ShiftPattern
	err := r.db.WithContext(ctx).
		Joins("JOIN pattern_assignments ON pattern_assignments.pattern_id = shift_patterns.id").
		Where("pattern_assignments.employee_id = ?", employeeID).
		Order("pattern_assignments.created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
