package rbac

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	// Insert is additive and duplicate-safe: inserting an existing
	// (user, role) pair is a no-op and reports inserted=false.
	Insert(ctx context.Context, userID string, role Role) (inserted bool, err error)
	ListRolesForUser(ctx context.Context, userID string) ([]Role, error)
	HasRole(ctx context.Context, userID string, role Role) (bool, error)
	ListUserIDsWithRole(ctx context.Context, role Role) ([]string, error)
	CountUsersWithRole(ctx context.Context, role Role) (int64, error)
	ListAll(ctx context.Context) ([]UserRole, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, userID string, role Role) (bool, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}

	row := UserRole{ID: uuid.New(), UserID: uid, Role: role}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListRolesForUser(ctx context.Context, userID string) ([]Role, error) {
	var roles []Role
	err := r.db.WithContext(ctx).
		Model(&UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	return roles, err
}

func (r *repository) HasRole(ctx context.Context, userID string, role Role) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserRole{}).
		Where("user_id = ?", userID).
		Where("role = ?", role).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListUserIDsWithRole(ctx context.Context, role Role) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&UserRole{}).
		Where("role = ?", role).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *repository) CountUsersWithRole(ctx context.Context, role Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserRole{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (r *repository) ListAll(ctx context.Context) ([]UserRole, error) {
	var rows []UserRole
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}
