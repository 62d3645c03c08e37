package attendance

import (
	"go-workforce/internal/middleware"
	"go-workforce/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/clock-in",
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			middleware.Idempotency(redisClient),
			handler.ClockIn,
		)
		attendances.POST("/clock-out", middleware.RBACAuthorize(rbacService, "attendance", "clock"), handler.ClockOut)
		attendances.POST("/clock-out/replay", middleware.RBACAuthorize(rbacService, "attendance", "clock"), handler.ReplayClockOut)
		attendances.POST("/sweep", middleware.RBACAuthorize(rbacService, "attendance", "sweep"), handler.RunSweep)
	}
}
