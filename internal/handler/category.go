package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/repository"
)

// CategoryHandler serves the public taxonomy endpoints plus the popular
// topics feed.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
	Posts      *repository.PostRepo
}

func NewCategoryHandler(categories *repository.CategoryRepo, posts *repository.PostRepo) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Posts: posts}
}

// categoryPart is the category shape returned by the public endpoints.
type categoryPart struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	PostsCount  uint64    `json:"postsCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCategoryPart(c repository.CategoryWithCount) categoryPart {
	return categoryPart{
		ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description,
		PostsCount: c.PostsCount, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

// List returns every category with its approved post count.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]categoryPart, 0, len(cats))
	for _, cat := range cats {
		out = append(out, newCategoryPart(cat))
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// GetBySlug returns a single category by slug.
func (h *CategoryHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"category": echo.Map{
		"id":          cat.ID,
		"name":        cat.Name,
		"slug":        cat.Slug,
		"description": cat.Description,
		"createdAt":   cat.CreatedAt,
		"updatedAt":   cat.UpdatedAt,
	}})
}

// popularTopicPart is the compact row on the popular topics widget.
type popularTopicPart struct {
	ID       uint64  `json:"id"`
	Slug     string  `json:"slug"`
	Title    string  `json:"title"`
	Views    uint64  `json:"views"`
	Likes    uint64  `json:"likes"`
	Replies  uint64  `json:"replies"`
	Category *string `json:"category"`
	Author   string  `json:"author"`
}

// PopularTopics returns the most viewed approved posts.
func (h *CategoryHandler) PopularTopics(c echo.Context) error {
	limit, _ := pageParams(c, 10)
	if limit > 20 {
		limit = 20
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	topics, err := h.Posts.PopularTopics(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]popularTopicPart, 0, len(topics))
	for _, t := range topics {
		out = append(out, popularTopicPart{
			ID: t.ID, Slug: t.Slug, Title: t.Title,
			Views: t.Views, Likes: t.Likes, Replies: t.Replies,
			Category: t.Category, Author: t.Author,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"topics": out})
}
