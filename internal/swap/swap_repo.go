package swap

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=swap_repo.go -destination=mock/swap_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *ShiftSwapRequest) error
	Update(ctx context.Context, req *ShiftSwapRequest) error
	FindByID(ctx context.Context, id string) (*ShiftSwapRequest, error)
	ListInvolving(ctx context.Context, employeeID string) ([]ShiftSwapRequest, error)
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

func (r *repository) Create(ctx context.Context, req *ShiftSwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) Update(ctx context.Context, req *ShiftSwapRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ShiftSwapRequest, error) {
	var req ShiftSwapRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListInvolving(ctx context.Context, employeeID string) ([]ShiftSwapRequest, error) {
	var reqs []ShiftSwapRequest
	err := r.db.WithContext(ctx).
		Where("requester_employee_id = ? OR recipient_employee_id = ?", employeeID, employeeID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}
