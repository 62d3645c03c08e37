package schedule

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
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware())
	{
		schedules.GET("/mine", middleware.RBACAuthorize(rbacService, "schedule", "read"), handler.ListMine)
		schedules.POST("/rota/generate", middleware.RBACAuthorize(rbacService, "schedule", "manage"), handler.GenerateRota)
		schedules.POST("/rota/batch-approve", middleware.RBACAuthorize(rbacService, "schedule", "manage"), handler.BatchApprove)
		schedules.POST("", middleware.RBACAuthorize(rbacService, "schedule", "manage"), handler.AssignShift)
		schedules.POST("/:id/acknowledge", middleware.RBACAuthorize(rbacService, "schedule", "acknowledge"), handler.Acknowledge)
	}
}
