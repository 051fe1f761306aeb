package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes with a plain "ok".  It deliberately
// touches neither the database nor Redis so that a degraded dependency
// does not mark the whole service down.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
