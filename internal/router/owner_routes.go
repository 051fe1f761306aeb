package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lodgely/hotel-reservation/internal/handler"
	"github.com/lodgely/hotel-reservation/internal/middleware"
)

// RegisterOwner registers owner-scoped endpoints under /v1.  All
// routes require a valid JWT and the OWNER role.  Owners configure the
// availability ledger of their room types, drive reservation status
// transitions and list the reservations of a room type.
func RegisterOwner(e *echo.Echo, avail *handler.AvailabilityHandler, res *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	// Ledger configuration: creation is insert-only, updates are keyed
	// by record id, deletion is blocked while a reservation covers the
	// night.
	g.POST("/availabilities", avail.CreateAvailability)
	g.PUT("/availabilities/:id", avail.UpdateAvailability)
	g.DELETE("/availabilities/:id", avail.DeleteAvailability)
	// Status transitions; only the first transition into CANCELLED
	// restores stock.
	g.PUT("/reservations/:id/status", res.UpdateStatus)
	g.GET("/room-types/:id/reservations", res.ListRoomTypeReservations)
}
