package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/middleware"
	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/repository"
)

// ProfileHandler serves public profile pages and the self-service profile
// endpoints.
type ProfileHandler struct {
	Users    *repository.UserRepo
	PostRepo *repository.PostRepo
}

func NewProfileHandler(users *repository.UserRepo, posts *repository.PostRepo) *ProfileHandler {
	return &ProfileHandler{Users: users, PostRepo: posts}
}

type updateProfileReq struct {
	Name     string  `json:"name"`
	Bio      *string `json:"bio"`
	Title    *string `json:"title"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Twitter  *string `json:"twitter"`
	Linkedin *string `json:"linkedin"`
	Github   *string `json:"github"`
}

// Get returns a public profile with its aggregate counters. The email and
// moderation fields stay visible because the admin panel reuses this
// endpoint; the password hash never leaves the repository row.
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	stats, err := h.Users.Stats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": newUserPart(u),
		"stats": echo.Map{
			"postsCount": stats.PostsCount,
			"likesGiven": stats.LikesGiven,
		},
	})
}

// Posts returns a user's approved posts, newest first.
func (h *ProfileHandler) Posts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	limit, offset := pageParams(c, 10)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	filter := repository.PostFilter{
		Status: model.PostStatusApproved,
		UserID: &id,
		Limit:  limit,
		Offset: offset,
	}
	posts, total, err := h.PostRepo.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"blogs":      newBlogParts(posts),
		"pagination": newPagination(total, limit, offset),
	})
}

// Me returns the authenticated caller's own row.
func (h *ProfileHandler) Me(c echo.Context) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": newUserPart(u)})
}

// Update rewrites the caller's editable profile fields. Name is required;
// role, status and email are out of reach here, only the admin endpoints
// touch those.
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}

	upd := repository.ProfileUpdate{
		Name: req.Name, Bio: req.Bio, Title: req.Title, Location: req.Location,
		Website: req.Website, Twitter: req.Twitter, Linkedin: req.Linkedin, Github: req.Github,
	}
	if err := h.Users.UpdateProfile(ctx, caller.ID, upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}

	u, err := h.Users.GetByID(ctx, caller.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": newUserPart(u)})
}
