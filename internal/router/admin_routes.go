package router

import (
	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/handler"
	"github.com/emre-dev/blog-platform/internal/middleware"
	"github.com/emre-dev/blog-platform/internal/model"
)

// RegisterAdmin registers the moderation endpoints under /admin.  Every
// route sits behind JWTAuth plus a single admin role guard; handlers never
// re-check the role string themselves.
func RegisterAdmin(e *echo.Echo, ab *handler.AdminBlogHandler, au *handler.AdminUserHandler, ac *handler.AdminCategoryHandler, jwtSecret string) {
	g := e.Group(
		"/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// Moderation queue over posts in every state.
	g.GET("/blogs", ab.List)
	// Approve and reject are unconditional transitions: approve→approve is
	// idempotent and reject→approve reverses an earlier decision.  Neither
	// returns a post to pending.
	g.POST("/blogs/:id/approve", ab.Approve)
	g.POST("/blogs/:id/reject", ab.Reject)
	g.DELETE("/blogs/:id", ab.Delete)

	// Account moderation.  Targets with the admin role are refused by the
	// handlers; self-role-change is refused as well.
	g.GET("/users", au.List)
	g.POST("/users/:id/ban", au.Ban)
	g.POST("/users/:id/timeout", au.Timeout)
	g.POST("/users/:id/unban", au.Unban)
	g.PUT("/users/:id/role", au.Role)
	g.DELETE("/users/:id", au.Delete)

	// Category management.
	g.GET("/categories", ac.List)
	g.POST("/categories", ac.Create)
	g.PUT("/categories/:id", ac.Update)
	g.DELETE("/categories/:id", ac.Delete)
}
