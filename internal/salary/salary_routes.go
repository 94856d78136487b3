package salary

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
	salaries := r.Group("/salary-configurations")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.GET("", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetAll)
		salaries.GET("/teacher/:teacherId", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetHistory)
		salaries.GET("/teacher/:teacherId/active", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetActive)
		salaries.POST("", middleware.RBACAuthorize(rbacService, "salary", "create"), handler.Create)
	}
}
