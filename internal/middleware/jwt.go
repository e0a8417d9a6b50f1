package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/emre-dev/blog-platform/internal/utils" // token decoding
)

// claimsKey is the context key under which decoded token claims are stored.
const claimsKey = "claims"

// bearerToken pulls the raw token out of the Authorization header.  It
// returns "" when the header is absent or not a Bearer scheme.
func bearerToken(c echo.Context) string {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return ""
    }
    return strings.TrimPrefix(auth, "Bearer ")
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the decoded claims into the request context.  The provided
// secret must match the one used when issuing tokens.  Handlers behind this
// middleware read the caller's identity via CurrentClaims.  A missing token
// and an invalid token both map to 401; role checks are a separate concern
// handled by RequireRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := bearerToken(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims := utils.DecodeToken(secret, raw)
            if claims == nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(claimsKey, claims)
            return next(c)
        }
    }
}

// OptionalJWT decodes a Bearer token when one is present but never rejects
// the request.  Endpoints like post detail and view tracking behave
// differently for authenticated callers yet stay open to guests; a garbled
// token simply leaves the request anonymous.
func OptionalJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if raw := bearerToken(c); raw != "" {
                if claims := utils.DecodeToken(secret, raw); claims != nil {
                    c.Set(claimsKey, claims)
                }
            }
            return next(c)
        }
    }
}

// CurrentClaims returns the decoded claims stored by JWTAuth or OptionalJWT,
// or nil for anonymous requests.
func CurrentClaims(c echo.Context) *utils.Claims {
    claims, _ := c.Get(claimsKey).(*utils.Claims)
    return claims
}
