package handler

import (
	"net/http"
	"testing"

	"github.com/emre-dev/blog-platform/internal/repository"
)

func newAdminBlogTestHandler(t *testing.T) (*AdminBlogHandler, func()) {
	t.Helper()
	db, _, cleanup := newMockDB(t)
	return NewAdminBlogHandler(repository.NewPostRepo(db), repository.NewUserRepo(db)), cleanup
}

func TestAdminBlogList_InvalidStatus(t *testing.T) {
	h, cleanup := newAdminBlogTestHandler(t)
	defer cleanup()

	c, rec := newJSONContext(t, http.MethodGet, "/admin/blogs?status=draft", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestAdminBlogApprove_InvalidID(t *testing.T) {
	h, cleanup := newAdminBlogTestHandler(t)
	defer cleanup()

	c, rec := newJSONContext(t, http.MethodPost, "/admin/blogs/nope/approve", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	withClaims(c, 1, "root@example.com", "admin")

	if err := h.Approve(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}
