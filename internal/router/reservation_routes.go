package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lodgely/hotel-reservation/internal/handler"
	"github.com/lodgely/hotel-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers can
// book stays, view their reservations and hard-delete a reservation
// while it is still pending.
func RegisterCustomer(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Booking runs the availability check, reservation insert and
	// per-night stock decrements as one transaction.
	g.POST("/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	// Deletion is permitted only while the reservation is PENDING and
	// restores the stay's stock in the same transaction.
	g.DELETE("/reservations/:id", h.DeleteReservation)
}
