package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/emre-dev/blog-platform/internal/utils"
)

const testSecret = "middleware-test-secret"

func newTestContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestJWTAuth_MissingToken(t *testing.T) {
	c, rec := newTestContext(t, "")
	if err := JWTAuth(testSecret)(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	c, rec := newTestContext(t, "Bearer garbage")
	if err := JWTAuth(testSecret)(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, 9, "mod@example.com", "moderator")
	if err != nil {
		t.Fatalf("NewAccessToken() failed: %v", err)
	}
	c, rec := newTestContext(t, "Bearer "+token)

	var seen *utils.Claims
	handler := func(c echo.Context) error {
		seen = CurrentClaims(c)
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(testSecret)(handler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("CurrentClaims() returned nil behind JWTAuth")
	}
	if seen.ID != 9 || seen.Email != "mod@example.com" || seen.Role != "moderator" {
		t.Errorf("Unexpected claims: %+v", seen)
	}
}

func TestOptionalJWT_NeverRejects(t *testing.T) {
	for _, auth := range []string{"", "Bearer garbage", "Basic abc"} {
		c, rec := newTestContext(t, auth)
		var seen *utils.Claims
		handler := func(c echo.Context) error {
			seen = CurrentClaims(c)
			return c.NoContent(http.StatusOK)
		}
		if err := OptionalJWT(testSecret)(handler)(c); err != nil {
			t.Fatalf("middleware returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("auth %q: expected 200, got %d", auth, rec.Code)
		}
		if seen != nil {
			t.Errorf("auth %q: expected anonymous request, got claims %+v", auth, seen)
		}
	}
}

func TestOptionalJWT_DecodesValidToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, 3, "reader@example.com", "user")
	if err != nil {
		t.Fatalf("NewAccessToken() failed: %v", err)
	}
	c, _ := newTestContext(t, "Bearer "+token)
	var seen *utils.Claims
	handler := func(c echo.Context) error {
		seen = CurrentClaims(c)
		return c.NoContent(http.StatusOK)
	}
	if err := OptionalJWT(testSecret)(handler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if seen == nil || seen.ID != 3 {
		t.Errorf("Expected claims for id 3, got %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		claims   *utils.Claims
		roles    []string
		wantCode int
	}{
		{"no claims", nil, []string{"admin"}, http.StatusForbidden},
		{"wrong role", &utils.Claims{ID: 1, Email: "u@e.co", Role: "user"}, []string{"admin"}, http.StatusForbidden},
		{"matching role", &utils.Claims{ID: 1, Email: "a@e.co", Role: "admin"}, []string{"admin"}, http.StatusOK},
		{"any of several", &utils.Claims{ID: 1, Email: "m@e.co", Role: "moderator"}, []string{"user", "moderator", "admin"}, http.StatusOK},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t, "")
		if tc.claims != nil {
			c.Set(claimsKey, tc.claims)
		}
		if err := RequireRole(tc.roles...)(okHandler)(c); err != nil {
			t.Fatalf("%s: middleware returned error: %v", tc.name, err)
		}
		if rec.Code != tc.wantCode {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.wantCode, rec.Code)
		}
	}
}
