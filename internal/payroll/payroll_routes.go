package payroll

import (
	"go-workforce/internal/middleware"
	"go-workforce/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("/compute", middleware.RBACAuthorize(rbacService, "payroll", "compute"), handler.Compute)
		payrolls.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Get)
	}
}
