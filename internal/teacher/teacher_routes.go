package teacher

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
	teachers := r.Group("/teachers")
	teachers.Use(middleware.AuthMiddleware())
	{
		teachers.GET("", middleware.RBACAuthorize(rbacService, "teacher", "read"), handler.GetAll)
		teachers.GET("/options", middleware.RBACAuthorize(rbacService, "teacher", "read"), handler.GetOptions)
		teachers.GET("/:id", middleware.RBACAuthorize(rbacService, "teacher", "read"), handler.GetById)
		teachers.POST("", middleware.RBACAuthorize(rbacService, "teacher", "create"), handler.Create)
		teachers.PUT("/:id", middleware.RBACAuthorize(rbacService, "teacher", "update"), handler.Update)
		teachers.DELETE("/:id", middleware.RBACAuthorize(rbacService, "teacher", "delete"), handler.Delete)
	}
}
