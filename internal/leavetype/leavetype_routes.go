package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leavetype", "read"), handler.GetAll)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, "leavetype", "read"), handler.GetById)
		types.POST("", middleware.RBACAuthorize(rbacService, "leavetype", "create"), handler.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, "leavetype", "update"), handler.Update)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leavetype", "update"), handler.Delete)
	}
}
