package utils // package utils provides helper functions for tokens, hashing and slugs

import (
    "time" // time utilities for computing expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// AccessTokenTTL is how long an issued session token stays valid.  There is
// no refresh flow: clients log in again after seven days.
const AccessTokenTTL = 7 * 24 * time.Hour

// Claims is the decoded token payload used for every authorization
// decision.  It mirrors what is signed into the JWT: the numeric user id,
// the email at issue time and the role at issue time.  Role changes only
// take effect on the next login.
type Claims struct {
    ID    uint64 // user id (claim "id")
    Email string // user email (claim "email")
    Role  string // user role (claim "role")
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The JWT carries
// the identity claims plus standard exp and iat timestamps.  The signing
// secret is process-wide and supplied through configuration; config.Load
// refuses to start the process without one.
func NewAccessToken(secret string, id uint64, email, role string) (string, error) {
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "id":    id,
        "email": email,
        "role":  role,
        "exp":   now.Add(AccessTokenTTL).Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// DecodeToken parses and validates a raw token string.  It returns nil for
// anything that should not be trusted: expired tokens, signature
// mismatches, non-HMAC algorithms, malformed input or missing identity
// claims.  Callers treat a nil result as "no claims"; no error ever
// escapes this boundary.
func DecodeToken(secret, raw string) *Claims {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil
    }
    var id uint64
    switch v := mc["id"].(type) {
    case float64: // JSON numbers decode as float64
        id = uint64(v)
    }
    email, _ := mc["email"].(string)
    role, _ := mc["role"].(string)
    if id == 0 || email == "" || role == "" {
        return nil
    }
    return &Claims{ID: id, Email: email, Role: role}
}
