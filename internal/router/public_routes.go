package router

import (
	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/handler"
	"github.com/emre-dev/blog-platform/internal/middleware"
)

// RegisterPublic registers the unauthenticated browse endpoints.  These
// routes carry no role middleware; the blog detail and view endpoints use
// OptionalJWT so a logged-in reader gets isLiked and per-user view
// deduplication while guests still get a response.
//
// The cache middleware is optional.  When non-nil it is applied to the
// listing endpoints whose responses are safe to share between callers;
// per-user responses (blog detail with isLiked) are never cached.
func RegisterPublic(e *echo.Echo, b *handler.BlogHandler, cm *handler.CommentHandler, cat *handler.CategoryHandler, p *handler.ProfileHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	shared := []echo.MiddlewareFunc{}
	if cache != nil {
		shared = append(shared, cache)
	}

	// Approved post listing, optionally filtered by category.
	e.GET("/blogs", b.List, shared...)
	// Post detail by slug returns approved posts only; a pending or
	// rejected slug behaves exactly like a missing one.
	e.GET("/blogs/slug/:slug", b.GetBySlug, shared...)
	// Post detail by id.  OptionalJWT decodes a bearer token when present
	// so the handler can attach the caller's like state.
	e.GET("/blogs/:id", b.Get, middleware.OptionalJWT(jwtSecret))
	// Comments of a post, public to read.
	e.GET("/blogs/:id/comments", cm.List)
	// Record a view.  Anonymous callers are deduplicated by IP within an
	// hour, authenticated callers by user id.
	e.POST("/blogs/:id/view", b.View, middleware.OptionalJWT(jwtSecret))

	// Taxonomy endpoints.
	e.GET("/categories", cat.List, shared...)
	e.GET("/categories/slug/:slug", cat.GetBySlug, shared...)
	e.GET("/popular-topics", cat.PopularTopics, shared...)

	// Public profile pages.
	e.GET("/profile/:id", p.Get)
	e.GET("/profile/:id/posts", p.Posts)
}
