package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/middleware"
	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/queue"
	"github.com/emre-dev/blog-platform/internal/repository"
)

// AdminUserHandler serves the admin user moderation endpoints.
type AdminUserHandler struct {
	Users *repository.UserRepo
}

func NewAdminUserHandler(users *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: users}
}

type banReq struct {
	Reason string `json:"reason"`
}

type timeoutReq struct {
	Hours  int    `json:"hours"`
	Reason string `json:"reason"`
}

type roleReq struct {
	Role string `json:"role"`
}

// adminUserPart extends the user shape with the post count shown in the
// admin table.
type adminUserPart struct {
	userPart
	PostsCount uint64 `json:"postsCount"`
}

// List returns every account with post counts, newest first.
func (h *AdminUserHandler) List(c echo.Context) error {
	limit, offset := pageParams(c, 20)

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]adminUserPart, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserPart{userPart: newUserPart(u.User), PostsCount: u.PostsCount})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":      out,
		"pagination": newPagination(total, limit, offset),
	})
}

// loadTarget fetches the target user and refuses moderation against admin
// accounts. Admins act on each other through the database, never the API.
func (h *AdminUserHandler) loadTarget(c echo.Context, protectAdmins bool) (model.User, bool) {
	id, err := pathID(c)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
		return model.User{}, false
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.User{}, false
	}
	if protectAdmins && target.Role == model.RoleAdmin {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "cannot moderate an admin account"})
		return model.User{}, false
	}
	return target, true
}

// Ban permanently blocks an account. Banning clears any pending timeout so
// a later unban restores a clean active state.
func (h *AdminUserHandler) Ban(c echo.Context) error {
	var req banReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Reason = strings.TrimSpace(req.Reason)

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}
	target, ok := h.loadTarget(c, true)
	if !ok {
		return nil
	}

	if err := h.Users.Ban(ctx, target.ID, req.Reason); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ban user failed"})
	}
	publishModeration(claimsOf(caller), queue.ActionUserBanned, target.ID, req.Reason)
	return h.respondWithUser(ctx, c, target.ID, "user banned")
}

// Timeout suspends an account until now plus the requested hours.
func (h *AdminUserHandler) Timeout(c echo.Context) error {
	var req timeoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Hours <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must be greater than zero"})
	}
	req.Reason = strings.TrimSpace(req.Reason)

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}
	target, ok := h.loadTarget(c, true)
	if !ok {
		return nil
	}

	until := time.Now().UTC().Add(time.Duration(req.Hours) * time.Hour)
	if err := h.Users.Timeout(ctx, target.ID, until, req.Reason); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "timeout user failed"})
	}
	detail := fmt.Sprintf("%dh: %s", req.Hours, req.Reason)
	publishModeration(claimsOf(caller), queue.ActionUserTimedOut, target.ID, detail)
	return h.respondWithUser(ctx, c, target.ID, "user timed out")
}

// Unban restores an account to active, clearing ban and timeout fields.
// It also lifts a timeout early, which is why it skips the admin guard's
// target state checks: unban is always safe.
func (h *AdminUserHandler) Unban(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}
	target, ok := h.loadTarget(c, true)
	if !ok {
		return nil
	}

	if err := h.Users.Unban(ctx, target.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unban user failed"})
	}
	publishModeration(claimsOf(caller), queue.ActionUserUnbanned, target.ID, "")
	return h.respondWithUser(ctx, c, target.ID, "user unbanned")
}

// Role changes an account's role. Self-demotion is refused so the last
// admin cannot lock everyone out.
func (h *AdminUserHandler) Role(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Role {
	case model.RoleUser, model.RoleModerator, model.RoleAdmin:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if claims := middleware.CurrentClaims(c); claims != nil && claims.ID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change your own role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.SetRole(ctx, id, req.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change role failed"})
	}
	detail := fmt.Sprintf("%s -> %s", target.Role, req.Role)
	publishModeration(claimsOf(caller), queue.ActionUserRoleChanged, id, detail)
	return h.respondWithUser(ctx, c, id, "role updated")
}

// Delete removes an account and everything it authored, in one
// transaction. Admin accounts cannot be deleted through the API.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, ok := requireActiveUser(ctx, c, h.Users)
	if !ok {
		return nil
	}
	target, ok := h.loadTarget(c, true)
	if !ok {
		return nil
	}

	if err := h.Users.Delete(ctx, target.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	publishModeration(claimsOf(caller), queue.ActionUserDeleted, target.ID, target.Email)
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

func (h *AdminUserHandler) respondWithUser(ctx context.Context, c echo.Context, id uint64, msg string) error {
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "user": newUserPart(u)})
}
