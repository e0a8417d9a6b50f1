package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

func TestNewAccessToken_RoundTrip(t *testing.T) {
	token, err := NewAccessToken(testSecret, 42, "reader@example.com", "user")
	if err != nil {
		t.Fatalf("NewAccessToken() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	claims := DecodeToken(testSecret, token)
	if claims == nil {
		t.Fatal("DecodeToken() returned nil for a freshly issued token")
	}
	if claims.ID != 42 {
		t.Errorf("Expected id 42, got %d", claims.ID)
	}
	if claims.Email != "reader@example.com" {
		t.Errorf("Expected email reader@example.com, got %s", claims.Email)
	}
	if claims.Role != "user" {
		t.Errorf("Expected role user, got %s", claims.Role)
	}
}

func TestDecodeToken_WrongSecret(t *testing.T) {
	token, err := NewAccessToken(testSecret, 1, "a@b.co", "user")
	if err != nil {
		t.Fatalf("NewAccessToken() failed: %v", err)
	}
	if claims := DecodeToken("another-secret", token); claims != nil {
		t.Error("DecodeToken() should return nil for a wrong secret")
	}
}

func TestDecodeToken_Garbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if claims := DecodeToken(testSecret, raw); claims != nil {
			t.Errorf("DecodeToken(%q) should return nil", raw)
		}
	}
}

func TestDecodeToken_Expired(t *testing.T) {
	now := time.Now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    uint64(7),
		"email": "late@example.com",
		"role":  "user",
		"exp":   now.Add(-time.Hour).Unix(),
		"iat":   now.Add(-2 * time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing expired token failed: %v", err)
	}
	if claims := DecodeToken(testSecret, raw); claims != nil {
		t.Error("DecodeToken() should return nil for an expired token")
	}
}

func TestDecodeToken_MissingIdentityClaims(t *testing.T) {
	now := time.Now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	if claims := DecodeToken(testSecret, raw); claims != nil {
		t.Error("DecodeToken() should return nil when identity claims are absent")
	}
}
