package swap

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
	swaps := r.Group("/swaps")
	swaps.Use(middleware.AuthMiddleware())
	{
		swaps.POST("", middleware.RBACAuthorize(rbacService, "swap", "create"), handler.Create)
		swaps.GET("/mine", middleware.RBACAuthorize(rbacService, "swap", "create"), handler.ListMine)
		swaps.POST("/:id/respond", middleware.RBACAuthorize(rbacService, "swap", "respond"), handler.Respond)
		swaps.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "swap", "complete"), handler.Complete)
	}
}
