package handler

import (
	"database/sql"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/repository"
	"github.com/emre-dev/blog-platform/internal/utils"
)

// newMockDB returns a database handle whose queries are matched as regular
// expressions, plus a cleanup that asserts every expectation fired.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	}
	return db, mock, cleanup
}

// newJSONContext builds an Echo context carrying a JSON body.
func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withClaims injects decoded token claims the way JWTAuth would.
func withClaims(c echo.Context, id uint64, email, role string) {
	c.Set("claims", &utils.Claims{ID: id, Email: email, Role: role})
}

// userColumnNames mirrors the select list of the user queries.
func userColumnNames() []string {
	return []string{
		"id", "name", "email", "password_hash", "role", "status",
		"timeout_until", "banned_at", "banned_reason",
		"bio", "image", "title", "location", "website", "twitter", "linkedin", "github",
		"likes_count", "last_login_at", "created_at", "updated_at",
	}
}

// activeUserRow builds a full user row for mock selects.
func activeUserRow(id uint64, name, email, hash, role, status string) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(userColumnNames()).AddRow(
		id, name, email, hash, role, status,
		nil, nil, nil,
		nil, nil, nil, nil, nil, nil, nil, nil,
		uint64(0), nil, now, now,
	)
}

func newRepoUsers(db *sql.DB) *repository.UserRepo { return repository.NewUserRepo(db) }

// errDuplicate mimics the MySQL driver's duplicate-key error text.
func errDuplicate(entry string) error {
	return fmt.Errorf("Error 1062 (23000): Duplicate entry '%s' for key 'uniq'", entry)
}

// expectNoDBCalls returns a user repo whose mock rejects any query; tests
// use it to prove a path fails before touching the store.
func expectNoDBCalls(t *testing.T) (*repository.UserRepo, func()) {
	t.Helper()
	db, _, cleanup := newMockDB(t)
	return repository.NewUserRepo(db), cleanup
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("Expected status %d, got %d (body %s)", want, rec.Code, rec.Body.String())
	}
}
