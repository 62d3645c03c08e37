package manager

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
	managers := r.Group("/managers")
	managers.Use(middleware.AuthMiddleware())
	{
		managers.GET("/codes/:code", middleware.RBACAuthorize(rbacService, "linkage", "manage"), handler.ValidateCode)
		managers.POST("/link", middleware.RBACAuthorize(rbacService, "linkage", "manage"), handler.LinkEmployee)
	}
}
