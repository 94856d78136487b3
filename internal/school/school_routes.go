package school

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
	schools := r.Group("/school")
	schools.Use(middleware.AuthMiddleware())
	{
		schools.GET("/profile", middleware.RBACAuthorize(rbacService, "school", "read"), handler.GetProfile)
		schools.PUT("/profile", middleware.RBACAuthorize(rbacService, "school", "update"), handler.UpdateProfile)
		schools.PUT("/settings", middleware.RBACAuthorize(rbacService, "school", "update"), handler.UpdateSettings)
		schools.GET("/affiliations", middleware.RBACAuthorize(rbacService, "school", "read"), handler.ListAffiliations)
		schools.PUT("/affiliations", middleware.RBACAuthorize(rbacService, "school", "update"), handler.UpsertAffiliation)
		schools.DELETE("/affiliations/:type", middleware.RBACAuthorize(rbacService, "school", "update"), handler.DeleteAffiliation)
	}
}
