package class

import (
	"go-sms/internal/middleware"
	"go-sms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
) {
	classes := r.Group("/classes")
	classes.Use(middleware.AuthMiddleware())
	{
		classes.GET("", middleware.RBACAuthorize(rbacService, "class", "read"), h.GetAll)
		classes.POST("", middleware.RBACAuthorize(rbacService, "class", "create"), h.Create)
		classes.GET("/:id", middleware.RBACAuthorize(rbacService, "class", "read"), h.GetByID)
		classes.PUT("/:id", middleware.RBACAuthorize(rbacService, "class", "update"), h.Update)
		classes.DELETE("/:id", middleware.RBACAuthorize(rbacService, "class", "delete"), h.Delete)
	}
}
