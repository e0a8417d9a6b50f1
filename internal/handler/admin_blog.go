package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/queue"
	"github.com/emre-dev/blog-platform/internal/repository"
	queuepub "github.com/emre-dev/blog-platform/internal/service"
	"github.com/emre-dev/blog-platform/internal/utils"
)

// AdminBlogHandler serves the moderation queue endpoints. All routes here
// sit behind the admin role guard.
type AdminBlogHandler struct {
	Posts *repository.PostRepo
	Users *repository.UserRepo
}

func NewAdminBlogHandler(posts *repository.PostRepo, users *repository.UserRepo) *AdminBlogHandler {
	return &AdminBlogHandler{Posts: posts, Users: users}
}

// publishModeration emits an audit event without blocking the request.
// The broker being down must never fail a moderation write, so the
// publish runs on its own context and only logs on failure.
func publishModeration(claims *utils.Claims, action string, targetID uint64, detail string) {
	ev := queue.NewModerationEvent(action, targetID, detail)
	if claims != nil {
		ev.ActorID = claims.ID
		ev.ActorEmail = claims.Email
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_ = queuepub.PublishModerationEvent(ctx, ev)
	}()
}

// List returns posts in any moderation state, filtered by ?status=
// (pending, approved, rejected, or all).
func (h *AdminBlogHandler) List(c echo.Context) error {
	limit, offset := pageParams(c, 10)
	status := c.QueryParam("status")
	switch status {
	case "", "all":
		status = ""
	case model.PostStatusPending, model.PostStatusApproved, model.PostStatusRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, total, err := h.Posts.List(ctx, repository.PostFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blogs":      newBlogParts(posts),
		"pagination": newPagination(total, limit, offset),
	})
}

// Approve marks a post approved. The transition is unconditional so it is
// idempotent and can reverse an earlier rejection.
func (h *AdminBlogHandler) Approve(c echo.Context) error {
	return h.setStatus(c, model.PostStatusApproved, queue.ActionPostApproved)
}

// Reject marks a post rejected, including an already approved one.
func (h *AdminBlogHandler) Reject(c echo.Context) error {
	return h.setStatus(c, model.PostStatusRejected, queue.ActionPostRejected)
}

func (h *AdminBlogHandler) setStatus(c echo.Context, status, action string) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}

	if _, err := h.Posts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Posts.SetStatus(ctx, id, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	publishModeration(claimsOf(caller), action, id, post.Title)
	return c.JSON(http.StatusOK, echo.Map{"blog": newBlogPart(post)})
}

// Delete removes any post along with its comments, likes and views.
func (h *AdminBlogHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Posts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	publishModeration(claimsOf(caller), queue.ActionPostDeleted, id, post.Title)
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// claimsOf rebuilds token claims from a freshly loaded row so audit events
// carry the actor's current email even if the token predates a change.
func claimsOf(u model.User) *utils.Claims {
	return &utils.Claims{ID: u.ID, Email: u.Email, Role: u.Role}
}
