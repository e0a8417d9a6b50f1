package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/emre-dev/blog-platform/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Neither endpoint
// requires an existing session; both issue a fresh token on success.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	// Register a POST endpoint to handle user registration at /auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /auth/login.  Login
	// refuses banned accounts and accounts inside an active timeout window.
	g.POST("/login", a.Login)
}
