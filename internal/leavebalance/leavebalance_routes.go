package leavebalance

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
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.POST("/initialize", middleware.RBACAuthorize(rbacService, "leavebalance", "create"), handler.Initialize)
		balances.GET("/teacher/:teacherId", middleware.RBACAuthorize(rbacService, "leavebalance", "read"), handler.GetByTeacher)
	}
}
