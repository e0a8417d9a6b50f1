package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/repository"
	"github.com/emre-dev/blog-platform/internal/utils"
)

// AdminCategoryHandler serves the category management endpoints behind the
// admin role guard.
type AdminCategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewAdminCategoryHandler(categories *repository.CategoryRepo) *AdminCategoryHandler {
	return &AdminCategoryHandler{Categories: categories}
}

type categoryReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// List returns every category counting posts in all moderation states, so
// the admin sees how much pending content a category holds before
// deleting it.
func (h *AdminCategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]categoryPart, 0, len(cats))
	for _, cat := range cats {
		out = append(out, newCategoryPart(cat))
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// Create adds a category, deriving a unique slug from the name.
func (h *AdminCategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be at least 2 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	taken, err := h.Categories.NameTaken(ctx, req.Name, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
	}

	slug, err := utils.UniqueSlug(req.Name, func(s string) (bool, error) {
		return h.Categories.SlugExists(ctx, s)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "slug generation failed"})
	}

	cat := &model.Category{Name: req.Name, Slug: slug, Description: req.Description}
	if err := h.Categories.Create(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}

	full, err := h.Categories.GetByID(ctx, cat.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"category": newCategoryPart(repository.CategoryWithCount{Category: full})})
}

// Update renames a category or edits its description. The slug never
// changes so published links keep working.
func (h *AdminCategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be at least 2 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	taken, err := h.Categories.NameTaken(ctx, req.Name, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
	}

	if err := h.Categories.Update(ctx, id, req.Name, req.Description); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update category failed"})
	}

	full, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"category": newCategoryPart(repository.CategoryWithCount{Category: full})})
}

// Delete removes an empty category; one that still has posts is refused.
func (h *AdminCategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category still has posts"})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
