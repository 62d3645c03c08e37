package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*SalaryStatistics, error)
	// Save upserts on (employee_id, month); a recomputation overwrites the
	// existing row in place.
	Save(ctx context.Context, stats *SalaryStatistics) error
	// AddDeduction atomically increments a month's accumulated deductions
	// and lowers its net salary by the same amount. The row must already
	// exist; callers create it with Save first when needed.
	AddDeduction(ctx context.Context, employeeID, month string, amount float64) error
	MarkPaymentStatus(ctx context.Context, employeeID, month string, status PaymentStatus) error
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

func (r *repository) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*SalaryStatistics, error) {
	var stats SalaryStatistics
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND month = ?", employeeID, month).
		First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) Save(ctx context.Context, stats *SalaryStatistics) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"present_days", "absent_days", "leave_days", "overtime_minutes",
				"base_salary", "absence_deduction", "overtime_pay", "net_salary",
				"payment_status", "computed_at", "updated_at",
			}),
		}).
		Create(stats).Error
}

func (r *repository) AddDeduction(ctx context.Context, employeeID, month string, amount float64) error {
	return r.db.WithContext(ctx).Exec(`
        UPDATE salary_statistics
        SET deductions = deductions + ?,
            net_salary = net_salary - ?,
            updated_at = NOW()
        WHERE employee_id = ? AND month = ?
    `, amount, amount, employeeID, month).Error
}

func (r *repository) MarkPaymentStatus(ctx context.Context, employeeID, month string, status PaymentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&SalaryStatistics{}).
		Where("employee_id = ? AND month = ?", employeeID, month).
		Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
