package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"golang.org/x/crypto/bcrypt"

	"github.com/emre-dev/blog-platform/internal/model"
)

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock, func()) {
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
	return NewUserRepo(db), mock, cleanup
}

func userColumnList() []string {
	return []string{
		"id", "name", "email", "password_hash", "role", "status",
		"timeout_until", "banned_at", "banned_reason",
		"bio", "image", "title", "location", "website", "twitter", "linkedin", "github",
		"likes_count", "last_login_at", "created_at", "updated_at",
	}
}

func TestUserCreate(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(queryUserInsert).
		WithArgs("Ada", "ada@example.com", sqlmock.AnyArg(), model.RoleUser).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), "Ada", "  Ada@Example.COM ", "hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if id != 7 {
		t.Errorf("Expected id 7, got %d", id)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(queryUserInsert).
		WithArgs("Ada", "ada@example.com", sqlmock.AnyArg(), model.RoleUser).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ada@example.com' for key 'users.email'"))

	_, err := repo.Create(context.Background(), "Ada", "ada@example.com", "hunter22", bcrypt.MinCost)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(queryUserByID).WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(userColumnList()))

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserGetByID_ScansNullableFields(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userColumnList()).AddRow(
		uint64(3), "Ada", "ada@example.com", "$2a$hash", "user", "active",
		nil, nil, nil,
		"short bio", nil, nil, nil, nil, nil, nil, nil,
		uint64(2), nil, now, now,
	)
	mock.ExpectQuery(queryUserByID).WithArgs(uint64(3)).WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if u.TimeoutUntil != nil || u.BannedAt != nil || u.BannedReason != nil {
		t.Error("Expected nil moderation fields for an active user")
	}
	if u.Bio == nil || *u.Bio != "short bio" {
		t.Errorf("Expected bio to scan, got %v", u.Bio)
	}
	if u.LikesCount != 2 {
		t.Errorf("Expected likesCount 2, got %d", u.LikesCount)
	}
}

func TestUserBan_ClearsTimeout(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	// The ban statement itself nulls timeout_until, whatever it held.
	mock.ExpectExec(queryUserBan).
		WithArgs(sqlmock.AnyArg(), "spamming", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Ban(context.Background(), 5, "spamming"); err != nil {
		t.Fatalf("Ban() failed: %v", err)
	}
}

func TestUserTimeout(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	until := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectExec(queryUserTimeout).
		WithArgs(until, "cool off", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Timeout(context.Background(), 5, until, "cool off"); err != nil {
		t.Fatalf("Timeout() failed: %v", err)
	}
}

func TestUserUnban(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(queryUserUnban).WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Unban(context.Background(), 5); err != nil {
		t.Fatalf("Unban() failed: %v", err)
	}
}

func TestUserSetRole(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(queryUserSetRole).WithArgs(model.RoleModerator, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRole(context.Background(), 5, model.RoleModerator); err != nil {
		t.Fatalf("SetRole() failed: %v", err)
	}
}

func TestUserDelete_CascadesInOneTransaction(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	steps := []string{
		"UPDATE posts SET likes_count = likes_count - 1 WHERE id IN (SELECT post_id FROM likes WHERE user_id=?)",
		"DELETE FROM likes WHERE user_id=?",
		"DELETE FROM comments WHERE user_id=?",
		"DELETE FROM views WHERE user_id=?",
		"DELETE c FROM comments c JOIN posts p ON c.post_id=p.id WHERE p.user_id=?",
		"DELETE l FROM likes l JOIN posts p ON l.post_id=p.id WHERE p.user_id=?",
		"DELETE v FROM views v JOIN posts p ON v.post_id=p.id WHERE p.user_id=?",
		"DELETE FROM posts WHERE user_id=?",
	}
	for _, q := range steps {
		mock.ExpectExec(q).WithArgs(uint64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("DELETE FROM users WHERE id=?").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}

func TestUserDelete_MissingUserRollsBack(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	steps := []string{
		"UPDATE posts SET likes_count = likes_count - 1 WHERE id IN (SELECT post_id FROM likes WHERE user_id=?)",
		"DELETE FROM likes WHERE user_id=?",
		"DELETE FROM comments WHERE user_id=?",
		"DELETE FROM views WHERE user_id=?",
		"DELETE c FROM comments c JOIN posts p ON c.post_id=p.id WHERE p.user_id=?",
		"DELETE l FROM likes l JOIN posts p ON l.post_id=p.id WHERE p.user_id=?",
		"DELETE v FROM views v JOIN posts p ON v.post_id=p.id WHERE p.user_id=?",
		"DELETE FROM posts WHERE user_id=?",
	}
	for _, q := range steps {
		mock.ExpectExec(q).WithArgs(uint64(404)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("DELETE FROM users WHERE id=?").WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
