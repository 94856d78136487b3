package rbac

import (
	"go-sms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, handler *Handler, service Service) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
	}

	manage := group.Group("")
	manage.Use(middleware.AuthMiddleware())
	{
		manage.GET("/roles", middleware.RBACAuthorize(service, "role", "read"), handler.ListRoles)
		manage.GET("/roles/:id", middleware.RBACAuthorize(service, "role", "read"), handler.GetRole)
		manage.POST("/roles", middleware.RBACAuthorize(service, "role", "manage"), handler.CreateRole)
		manage.PUT("/roles/:id", middleware.RBACAuthorize(service, "role", "manage"), handler.UpdateRole)
		manage.DELETE("/roles/:id", middleware.RBACAuthorize(service, "role", "manage"), handler.DeleteRole)

		manage.GET("/permissions", middleware.RBACAuthorize(service, "role", "manage"), handler.ListPermissions)
	}
}
