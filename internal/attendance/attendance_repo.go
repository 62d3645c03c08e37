package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindActiveSession(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	Update(ctx context.Context, rec *AttendanceRecord) error
	// UpdateWithVersion applies the record only if lock_version still
	// matches; reports false when another writer got there first.
	UpdateWithVersion(ctx context.Context, rec *AttendanceRecord) (bool, error)
	// UpsertOnLeave marks the employee's day as on leave: inserts the row,
	// or resolves an existing one only while it is still PENDING. Safe to
	// replay.
	UpsertOnLeave(ctx context.Context, employeeID string, date time.Time) error
	CountByStatusInRange(ctx context.Context, employeeID string, status Status, from, to time.Time) (int64, error)
	SumOvertimeInRange(ctx context.Context, employeeID string, from, to time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindActiveSession(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		Where("active_session = ?", true).
		First(&rec).Error
	return &rec, err
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) UpdateWithVersion(ctx context.Context, rec *AttendanceRecord) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("id = ?", rec.ID).
		Where("lock_version = ?", rec.LockVersion).
		Updates(map[string]any{
			"check_out":        rec.CheckOut,
			"active_session":   rec.ActiveSession,
			"working_minutes":  rec.WorkingMinutes,
			"overtime_minutes": rec.OvertimeMinutes,
			"status":           rec.Status,
			"lock_version":     rec.LockVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpsertOnLeave(ctx context.Context, employeeID string, date time.Time) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO attendance_records (id, employee_id, work_date, status, created_at, updated_at)
		VALUES (gen_random_uuid(), ?, ?, ?, now(), now())
		ON CONFLICT (employee_id, work_date) DO UPDATE
		SET status = EXCLUDED.status, updated_at = now()
		WHERE attendance_records.status = ?
	`, employeeID, date.Format("2006-01-02"), StatusOnLeave, StatusPending).Error
}

func (r *repository) CountByStatusInRange(ctx context.Context, employeeID string, status Status, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", status).
		Where("work_date >= ? AND work_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *repository) SumOvertimeInRange(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Select("COALESCE(SUM(overtime_minutes), 0)").
		Where("employee_id = ?", employeeID).
		Where("work_date >= ? AND work_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Scan(&total).Error
	return total.Int64, err
}
