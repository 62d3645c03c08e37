package app

import (
	"database/sql"

	"go-workforce/internal/attendance"
	"go-workforce/internal/employee"
	"go-workforce/internal/leave"
	"go-workforce/internal/manager"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/middleware"
	"go-workforce/internal/notification"
	"go-workforce/internal/payroll"
	"go-workforce/internal/rbac"
	"go-workforce/internal/rbac/infra"
	"go-workforce/internal/schedule"
	"go-workforce/internal/shiftpattern"
	"go-workforce/internal/swap"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	patternRepo := shiftpattern.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	swapRepo := swap.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	notifier := notification.NewDispatcher(db, notificationRepo, outboxRepo)
	employeeService := employee.NewService(employeeRepo, rdb)
	scheduleService := schedule.NewService(db, scheduleRepo, patternRepo, notifier)
	attendanceService := attendance.NewService(attendanceRepo, patternRepo)
	sweeper := attendance.NewSweeper(attendanceRepo, scheduleRepo, leaveRepo)
	payrollService := payroll.NewService(db, payrollRepo, employeeRepo, attendanceRepo, outboxRepo, notifier)
	cascade := leave.NewCascade(leaveRepo, attendanceRepo, scheduleRepo, payrollRepo, employeeRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, scheduleRepo, rbacRepo, outboxRepo, cascade, notifier)
	swapService := swap.NewService(db, swapRepo, scheduleRepo, employeeRepo, rbacService, notifier)
	managerService := manager.NewService(employeeRepo, rbacService, rbacRepo, notifier)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	attendanceHandler := attendance.NewHandler(attendanceService, sweeper)
	leaveHandler := leave.NewHandler(leaveService)
	swapHandler := swap.NewHandler(swapService)
	payrollHandler := payroll.NewHandler(payrollService)
	managerHandler := manager.NewHandler(managerService)
	notificationHandler := notification.NewHandler(notificationRepo)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		schedule.RegisterRoutes(api, scheduleHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		swap.RegisterRoutes(api, swapHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		manager.RegisterRoutes(api, managerHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return nil
}
