package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/middleware"
	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/repository"
	"github.com/emre-dev/blog-platform/internal/utils"
)

// BlogHandler bundles repositories for the public and authenticated blog
// endpoints.
type BlogHandler struct {
	Posts      *repository.PostRepo
	Users      *repository.UserRepo
	Categories *repository.CategoryRepo
	Likes      *repository.LikeRepo
	Views      *repository.ViewRepo
}

func NewBlogHandler(posts *repository.PostRepo, users *repository.UserRepo, categories *repository.CategoryRepo, likes *repository.LikeRepo, views *repository.ViewRepo) *BlogHandler {
	if posts == nil || users == nil || categories == nil || likes == nil || views == nil {
		panic("nil repository passed to NewBlogHandler")
	}
	return &BlogHandler{Posts: posts, Users: users, Categories: categories, Likes: likes, Views: views}
}

type createBlogReq struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	CategoryID *uint64 `json:"categoryId"`
}

// List returns approved posts only, newest first, optionally filtered by
// category. Pending and rejected posts never appear here no matter who
// asks; moderators review through the admin listing instead.
func (h *BlogHandler) List(c echo.Context) error {
	limit, offset := pageParams(c, 10)
	filter := repository.PostFilter{Status: model.PostStatusApproved, Limit: limit, Offset: offset}
	if v := c.QueryParam("categoryId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid categoryId"})
		}
		filter.CategoryID = &id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, total, err := h.Posts.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blogs":      newBlogParts(posts),
		"pagination": newPagination(total, limit, offset),
	})
}

// Create stores a new post for the authenticated user. Every new post
// enters the moderation queue as 'pending' regardless of the author's
// role; only an admin transition makes it publicly visible.
func (h *BlogHandler) Create(c echo.Context) error {
	var req createBlogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if len(req.Title) < 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must be at least 5 characters"})
	}
	if len(req.Content) < 50 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content must be at least 50 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	author, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}

	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	slug, err := utils.UniqueSlug(req.Title, func(s string) (bool, error) {
		return h.Posts.SlugExists(ctx, s)
	})
	if err != nil {
		if errors.Is(err, utils.ErrSlugExhausted) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not derive a unique slug"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "slug generation failed"})
	}

	post := &model.Post{
		Slug:       slug,
		Title:      req.Title,
		Content:    req.Content,
		UserID:     author.ID,
		CategoryID: req.CategoryID,
		Status:     model.PostStatusPending,
	}
	if err := h.Posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			// Lost the race between the uniqueness check and the insert.
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}

	full, err := h.Posts.GetByID(ctx, post.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"blog": newBlogPart(full)})
}

// Get returns a post by id in any moderation state, with an isLiked flag
// for authenticated callers.
func (h *BlogHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	blog := newBlogPart(post)
	if claims := middleware.CurrentClaims(c); claims != nil {
		liked, err := h.Likes.Exists(ctx, claims.ID, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		blog.IsLiked = &liked
	}
	return c.JSON(http.StatusOK, echo.Map{"blog": blog})
}

// GetBySlug returns an approved post by slug; a pending or rejected post
// is indistinguishable from a missing one.
func (h *BlogHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blog": newBlogPart(post)})
}

// Delete removes a post. Owners may delete their own posts; admins may
// delete any post.
func (h *BlogHandler) Delete(c echo.Context) error {
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
	if post.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Posts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// Like toggles the caller's like on a post and reports the resulting
// state.
func (h *BlogHandler) Like(c echo.Context) error {
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

	liked, err := h.Likes.Toggle(ctx, caller.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "like already recorded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle like failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// View records a view event for a post. Authenticated callers are
// deduplicated by user id, anonymous callers by IP within an hour. The
// client treats this as fire-and-forget, so failures still return a JSON
// body rather than breaking the page.
func (h *BlogHandler) View(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var userID *uint64
	if claims := middleware.CurrentClaims(c); claims != nil {
		userID = &claims.ID
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}

	if _, err := h.Views.Record(ctx, id, userID, ip); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record view failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
