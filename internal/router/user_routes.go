package router

import (
	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/handler"
	"github.com/emre-dev/blog-platform/internal/middleware"
	"github.com/emre-dev/blog-platform/internal/model"
)

// RegisterUser registers the endpoints that require a valid session.  All
// roles are accepted here; the handlers re-load the caller's row and apply
// the derived active check themselves, so a banned user with a still-valid
// token is rejected at the handler level.
func RegisterUser(e *echo.Echo, b *handler.BlogHandler, cm *handler.CommentHandler, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleModerator, model.RoleAdmin),
	)

	// Create a post.  New posts always enter the moderation queue as
	// pending, whatever the author's role.
	g.POST("/blogs", b.Create)
	// Delete a post.  The handler enforces owner-or-admin.
	g.DELETE("/blogs/:id", b.Delete)
	// Toggle a like on a post.
	g.POST("/blogs/:id/like", b.Like)
	// Add a comment to a post.
	g.POST("/blogs/:id/comments", cm.Create)

	// Self-service profile endpoints.
	g.GET("/profile/me", p.Me)
	g.PUT("/profile/update", p.Update)
}
