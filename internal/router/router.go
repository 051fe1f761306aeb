package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/lodgely/hotel-reservation/internal/handler"    // handlers that implement business logic
	"github.com/lodgely/hotel-reservation/internal/middleware" // middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers and monitoring systems to verify that
// the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotation.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body containing a `refresh_token` and
	// invalidates that token; it does not require a JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated booking surface: the
// stay quote endpoint and the per-room-type availability calendar.
// The calendar is a pure read and may be wrapped in the Redis response
// cache; pass an identity middleware when caching is disabled.
func RegisterPublic(e *echo.Echo, res *handler.ReservationHandler, avail *handler.AvailabilityHandler, cache echo.MiddlewareFunc) {
	// Quote a prospective stay: advisory read, never cached so callers
	// always see current stock.
	e.POST("/v1/reservations/check-availability", res.CheckAvailability)
	// Browse the configured nights of a room type.
	e.GET("/v1/room-types/:id/availability", avail.GetRoomTypeCalendar, cache)
}
