package schedule

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, inst *ScheduleInstance) error
	Update(ctx context.Context, inst *ScheduleInstance) error
	FindByID(ctx context.Context, id string) (*ScheduleInstance, error)
	// ExistsForWindow reports whether the employee already has an instance
	// with exactly this start/end window. The recurrence generator keys its
	// idempotency on it.
	ExistsForWindow(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	ListByStatusAndSource(ctx context.Context, status Status, source Source) ([]ScheduleInstance, error)
	ListOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]ScheduleInstance, error)
	ListForDay(ctx context.Context, day time.Time) ([]ScheduleInstance, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]ScheduleInstance, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, inst *ScheduleInstance) error {
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *repository) Update(ctx context.Context, inst *ScheduleInstance) error {
	return r.db.WithContext(ctx).Save(inst).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ScheduleInstance, error) {
	var inst ScheduleInstance
	err := r.db.WithContext(ctx).First(&inst, "id = ?", id).Error
	return &inst, err
}

func (r *repository) ExistsForWindow(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ScheduleInstance{}).
		Where("employee_id = ?", employeeID).
		Where("start_time = ?", start).
		Where("end_time = ?", end).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByStatusAndSource(ctx context.Context, status Status, source Source) ([]ScheduleInstance, error) {
	var rows []ScheduleInstance
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where("source = ?", source).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]ScheduleInstance, error) {
	var rows []ScheduleInstance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("NOT (end_time <= ? OR start_time >= ?)", start, end).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListForDay(ctx context.Context, day time.Time) ([]ScheduleInstance, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var rows []ScheduleInstance
	err := r.db.WithContext(ctx).
		Where("start_time >= ?", dayStart).
		Where("start_time < ?", dayEnd).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListForEmployee(ctx context.Context, employeeID string) ([]ScheduleInstance, error) {
	var rows []ScheduleInstance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_time DESC").
		Find(&rows).Error
	return rows, err
}
