package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  The roles accepted
// correspond to the values signed into the JWT's "role" claim.  It assumes
// JWTAuth has already stored the decoded claims in the context; requests
// without claims or with a role outside the allowed set are aborted with a
// 403 Forbidden response.  Self-targeting restrictions (an admin changing
// their own role, banning another admin) are narrower than a role check and
// live in the handlers, after this gate and before any write.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims := CurrentClaims(c)
            if claims == nil || !allowed[claims.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
