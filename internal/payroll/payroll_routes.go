package payroll

import (
	"go-sms/internal/middleware"
	"go-sms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	payments := r.Group("/salary-payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.RecordPayment)
		payments.POST("/:id/disburse", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Disburse)
		payments.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payments.GET("/teacher/:teacherId", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByTeacher)
		payments.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		payments.GET("/:id/slip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Payslip)
	}
}

// RegisterWebhookRoutes stays outside the authenticated group; the gateway
// cannot present a portal token.
func RegisterWebhookRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/webhooks/razorpay", handler.Webhook)
}
