package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"go-sms/internal/attendance"
	"go-sms/internal/auth"
	"go-sms/internal/class"
	"go-sms/internal/leave"
	"go-sms/internal/leavebalance"
	"go-sms/internal/leavetype"
	"go-sms/internal/messaging/kafka"
	"go-sms/internal/paygateway"
	"go-sms/internal/payroll"
	"go-sms/internal/rbac"
	"go-sms/internal/rbac/infra"
	"go-sms/internal/salary"
	"go-sms/internal/school"
	"go-sms/internal/shared/counter"
	"go-sms/internal/teacher"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
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
	authRepo := auth.NewRepository(gormDB)
	schoolRepo := school.NewRepository(gormDB)
	teacherRepo := teacher.NewRepository(gormDB)
	classRepo := class.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveBalanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Gateway ---
	gateway := paygateway.NewRazorpayGateway(paygateway.Config{
		KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
	})

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, teacherRepo)
	schoolService := school.NewService(schoolRepo)
	teacherService := teacher.NewServiceWithOutbox(db, teacherRepo, counterRepo, outboxRepo, rdb)
	classService := class.NewService(db, classRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo, rdb)
	leaveBalanceService := leavebalance.NewService(db, leaveBalanceRepo, leaveTypeRepo)
	leaveService := leave.NewService(db, leaveRepo, leaveBalanceRepo, leaveTypeRepo, counterRepo)
	salaryService := salary.NewService(db, salaryRepo)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		salaryRepo,
		counterRepo,
		outboxRepo,
		gateway,
		attendanceService,
		leaveService,
		schoolService,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	schoolHandler := school.NewHandler(schoolService)
	teacherHandler := teacher.NewHandler(teacherService)
	classHandler := class.NewHandler(classService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveBalanceHandler := leavebalance.NewHandler(leaveBalanceService)
	leaveHandler := leave.NewHandler(leaveService)
	salaryHandler := salary.NewHandler(salaryService)
	payrollHandler := payroll.NewHandler(payrollService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		school.RegisterRoutes(api, schoolHandler, rbacService)
		teacher.RegisterRoutes(api, teacherHandler, rbacService)
		class.RegisterRoutes(api, classHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		leavebalance.RegisterRoutes(api, leaveBalanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		salary.RegisterRoutes(api, salaryHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		payroll.RegisterWebhookRoutes(api, payrollHandler)
	}

	rbac.RegisterRoutes(router, rbacHandler, rbacService)

	return nil
}
