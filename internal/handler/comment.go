package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/repository"
)

// CommentHandler serves the per-post comment endpoints.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Posts    *repository.PostRepo
	Users    *repository.UserRepo
}

func NewCommentHandler(comments *repository.CommentRepo, posts *repository.PostRepo, users *repository.UserRepo) *CommentHandler {
	return &CommentHandler{Comments: comments, Posts: posts, Users: users}
}

type createCommentReq struct {
	Content string `json:"content"`
}

// commentPart is the comment shape with its author attached.
type commentPart struct {
	ID        uint64     `json:"id"`
	Content   string     `json:"content"`
	PostID    uint64     `json:"postId"`
	User      blogAuthor `json:"user"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

func newCommentPart(cm repository.CommentWithAuthor) commentPart {
	return commentPart{
		ID: cm.ID, Content: cm.Content, PostID: cm.PostID,
		User:      blogAuthor{ID: cm.UserID, Name: cm.AuthorName, Image: cm.AuthorImage},
		Role:      cm.AuthorRole,
		CreatedAt: cm.CreatedAt,
	}
}

// List returns the comments of a post, newest first.
func (h *CommentHandler) List(c echo.Context) error {
	postID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	limit, offset := pageParams(c, 20)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	comments, total, err := h.Comments.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]commentPart, 0, len(comments))
	for _, cm := range comments {
		out = append(out, newCommentPart(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"comments":   out,
		"pagination": newPagination(total, limit, offset),
	})
}

// Create adds a comment to a post for the authenticated user.
func (h *CommentHandler) Create(c echo.Context) error {
	postID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if len(req.Content) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment must be at least 3 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cm, err := h.Comments.Create(ctx, req.Content, caller.ID, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"comment": newCommentPart(cm)})
}
