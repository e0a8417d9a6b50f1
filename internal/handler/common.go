package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/middleware"
	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/repository"
)

// storeTimeout bounds every store call made from a handler.
const storeTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// pagination is the envelope every listing endpoint returns alongside its
// page of rows.
type pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

func newPagination(total, limit, offset int) pagination {
	return pagination{Total: total, Limit: limit, Offset: offset, HasMore: offset+limit < total}
}

// pageParams reads limit/offset query parameters, falling back to the
// given default page size and clamping the limit to 100.
func pageParams(c echo.Context, defLimit int) (limit, offset int) {
	limit = defLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// requireActiveUser loads a fresh row for the authenticated caller and
// enforces the derived active predicate. The stored status column is never
// trusted on its own: a lapsed suspension passes here without any admin
// write, while a ban always blocks. On failure the response has already
// been written and the second return is false.
func requireActiveUser(ctx context.Context, c echo.Context, users *repository.UserRepo) (model.User, bool) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
		return model.User{}, false
	}
	u, err := users.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.User{}, false
	}
	if !u.IsActive(time.Now().UTC()) {
		msg := "account is suspended"
		if u.Status == model.StatusBanned {
			msg = "account is banned"
		}
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": msg})
		return model.User{}, false
	}
	return u, true
}

// userPart is the user shape embedded in auth, profile and admin
// responses. The password hash never leaves the handler layer.
type userPart struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	TimeoutUntil *time.Time `json:"timeoutUntil,omitempty"`
	BannedAt     *time.Time `json:"bannedAt,omitempty"`
	BannedReason *string    `json:"bannedReason,omitempty"`
	Bio          *string    `json:"bio,omitempty"`
	Image        *string    `json:"image,omitempty"`
	Title        *string    `json:"title,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Website      *string    `json:"website,omitempty"`
	Twitter      *string    `json:"twitter,omitempty"`
	Linkedin     *string    `json:"linkedin,omitempty"`
	Github       *string    `json:"github,omitempty"`
	LikesCount   uint64     `json:"likesCount"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func newUserPart(u model.User) userPart {
	return userPart{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status,
		TimeoutUntil: u.TimeoutUntil, BannedAt: u.BannedAt, BannedReason: u.BannedReason,
		Bio: u.Bio, Image: u.Image, Title: u.Title, Location: u.Location,
		Website: u.Website, Twitter: u.Twitter, Linkedin: u.Linkedin, Github: u.Github,
		LikesCount: u.LikesCount, LastLoginAt: u.LastLoginAt,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

// blogAuthor and blogCategory are the nested shapes inside blog responses.
type blogAuthor struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

type blogCategory struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// blogPart is the post shape returned by every blog endpoint. IsLiked is
// only present on the detail endpoint for authenticated callers.
type blogPart struct {
	ID         uint64        `json:"id"`
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Status     string        `json:"status"`
	ViewsCount uint64        `json:"viewsCount"`
	LikesCount uint64        `json:"likesCount"`
	User       blogAuthor    `json:"user"`
	Category   *blogCategory `json:"category"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	IsLiked    *bool         `json:"isLiked,omitempty"`
}

func newBlogPart(p repository.PostWithAuthor) blogPart {
	b := blogPart{
		ID: p.ID, Slug: p.Slug, Title: p.Title, Content: p.Content, Status: p.Status,
		ViewsCount: p.ViewsCount, LikesCount: p.LikesCount,
		User:      blogAuthor{ID: p.UserID, Name: p.AuthorName, Image: p.AuthorImage},
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
	if p.CategoryID != nil && p.CategoryName != nil {
		b.Category = &blogCategory{ID: *p.CategoryID, Name: *p.CategoryName}
	}
	return b
}

func newBlogParts(posts []repository.PostWithAuthor) []blogPart {
	out := make([]blogPart, 0, len(posts))
	for _, p := range posts {
		out = append(out, newBlogPart(p))
	}
	return out
}
