package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/emre-dev/blog-platform/internal/model"
)

func newPostRepoMock(t *testing.T) (*PostRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	}
	return NewPostRepo(db), mock, cleanup
}

func postColumnList() []string {
	return []string{
		"id", "slug", "title", "content", "user_id", "category_id",
		"status", "views_count", "likes_count", "created_at", "updated_at",
		"author_name", "author_image", "category_name",
	}
}

func TestPostCreate(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(queryPostInsert).
		WithArgs("my-post", "My Post", "content body", uint64(1), nil, model.PostStatusPending).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(queryPostTimestamps).WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	post := &model.Post{
		Slug: "my-post", Title: "My Post", Content: "content body",
		UserID: 1, Status: model.PostStatusPending,
	}
	if err := repo.Create(context.Background(), post); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if post.ID != 42 {
		t.Errorf("Expected id 42, got %d", post.ID)
	}
	if !post.CreatedAt.Equal(now) {
		t.Errorf("Expected createdAt read back, got %v", post.CreatedAt)
	}
}

func TestPostCreate_SlugRaceLost(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	mock.ExpectExec(queryPostInsert).
		WithArgs("my-post", "My Post", "content body", uint64(1), nil, model.PostStatusPending).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'my-post' for key 'posts.slug'"))

	post := &model.Post{
		Slug: "my-post", Title: "My Post", Content: "content body",
		UserID: 1, Status: model.PostStatusPending,
	}
	if err := repo.Create(context.Background(), post); !errors.Is(err, ErrSlugExists) {
		t.Errorf("Expected ErrSlugExists, got %v", err)
	}
}

func TestPostGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(queryPostByID).WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(postColumnList()))

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPostGetBySlug_ApprovedOnly(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	// The query itself filters on approved status, so a pending post
	// yields no rows and surfaces as ErrNotFound.
	mock.ExpectQuery(queryPostBySlug).WithArgs("pending-post").
		WillReturnRows(sqlmock.NewRows(postColumnList()))

	_, err := repo.GetBySlug(context.Background(), "pending-post")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a pending slug, got %v", err)
	}
}

func TestPostSetStatus_Idempotent(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	// Approving an already-approved post touches zero rows and still
	// succeeds.
	mock.ExpectExec(queryPostSetStatus).
		WithArgs(model.PostStatusApproved, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetStatus(context.Background(), 7, model.PostStatusApproved); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}
}

func TestPostList_StatusAndCategoryFilter(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	catID := uint64(3)
	listQ := postJoined + " WHERE p.status=? AND p.category_id=? ORDER BY p.created_at DESC LIMIT ? OFFSET ?"
	rows := sqlmock.NewRows(postColumnList()).AddRow(
		uint64(1), "a-post", "A Post", "body", uint64(2), int64(3),
		model.PostStatusApproved, uint64(10), uint64(4), now, now,
		"Ada", nil, "Go",
	)
	mock.ExpectQuery(listQ).WithArgs(model.PostStatusApproved, catID, 10, 0).WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT(*) FROM posts p WHERE p.status=? AND p.category_id=?").
		WithArgs(model.PostStatusApproved, catID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	posts, total, err := repo.List(context.Background(), PostFilter{
		Status: model.PostStatusApproved, CategoryID: &catID, Limit: 10, Offset: 0,
	})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("Expected one post, got %d (total %d)", len(posts), total)
	}
	p := posts[0]
	if p.AuthorName != "Ada" {
		t.Errorf("Expected author Ada, got %s", p.AuthorName)
	}
	if p.CategoryID == nil || *p.CategoryID != 3 {
		t.Errorf("Expected categoryId 3, got %v", p.CategoryID)
	}
	if p.CategoryName == nil || *p.CategoryName != "Go" {
		t.Errorf("Expected category name Go, got %v", p.CategoryName)
	}
}

func TestPostDelete_CascadesInOneTransaction(t *testing.T) {
	repo, mock, cleanup := newPostRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	for _, q := range []string{
		"DELETE FROM comments WHERE post_id=?",
		"DELETE FROM likes WHERE post_id=?",
		"DELETE FROM views WHERE post_id=?",
	} {
		mock.ExpectExec(q).WithArgs(uint64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
	}
	mock.ExpectExec("DELETE FROM posts WHERE id=?").WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
