package rbac

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of workforce roles. Assignments are additive set
// membership: one user may hold several roles at once.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RolePayroll  Role = "payroll"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin, RoleHR, RolePayroll:
		return true
	}
	return false
}

// ManagerialRoles may approve swaps, complete swaps and act on leave.
var ManagerialRoles = []Role{RoleManager, RoleAdmin, RoleHR}

type UserRole struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_roles_user_role"`
	Role      Role      `gorm:"column:role;type:varchar(20);not null;uniqueIndex:uq_user_roles_user_role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
