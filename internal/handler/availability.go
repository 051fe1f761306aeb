package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lodgely/hotel-reservation/internal/booking"
	"github.com/lodgely/hotel-reservation/internal/model"
	"github.com/lodgely/hotel-reservation/internal/repository"
)

// AvailabilityHandler exposes the owner-facing configuration of the
// availability ledger plus a public per-room-type calendar view.
// Owners may only touch the ledger of room types whose hotel they own;
// the ownership chain is resolved through the directory repositories.
type AvailabilityHandler struct {
	RoomTypes      *repository.RoomTypeRepo
	Availabilities *repository.AvailabilityRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler.  Both
// repositories must be non-nil.
func NewAvailabilityHandler(roomTypes *repository.RoomTypeRepo, availabilities *repository.AvailabilityRepo) *AvailabilityHandler {
	if roomTypes == nil || availabilities == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{RoomTypes: roomTypes, Availabilities: availabilities}
}

type availabilityReq struct {
	RoomTypeID         uint64 `json:"room_type_id"`
	Date               string `json:"date"`
	Stock              uint32 `json:"stock"`
	PriceOverrideCents *int64 `json:"price_override_cents"`
}

type availabilityResp struct {
	ID                 uint64 `json:"id"`
	RoomTypeID         uint64 `json:"room_type_id"`
	Date               string `json:"date"`
	Stock              uint32 `json:"stock"`
	PriceOverrideCents *int64 `json:"price_override_cents,omitempty"`
}

func toAvailabilityResp(a *model.Availability) availabilityResp {
	return availabilityResp{
		ID:                 a.ID,
		RoomTypeID:         a.RoomTypeID,
		Date:               a.Date.Format(booking.DateLayout),
		Stock:              a.Stock,
		PriceOverrideCents: a.PriceOverrideCents,
	}
}

// requireOwnership resolves the owner of a room type and compares it
// against the authenticated user.  It writes the error response itself
// and returns false when the caller may not proceed.
func (h *AvailabilityHandler) requireOwnership(c echo.Context, roomTypeID, ownerID uint64) bool {
	actual, err := h.RoomTypes.OwnerOf(c.Request().Context(), roomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomTypeNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return false
	}
	if actual != ownerID {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return false
	}
	return true
}

// CreateAvailability handles POST /v1/availabilities.  Creation is
// insert-only: a record already existing for the same (room_type,
// date) pair is a 409, never an implicit update.
func (h *AvailabilityHandler) CreateAvailability(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id is required"})
	}
	date, err := booking.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a YYYY-MM-DD date"})
	}
	if req.PriceOverrideCents != nil && *req.PriceOverrideCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_override_cents must not be negative"})
	}
	if !h.requireOwnership(c, req.RoomTypeID, ownerID) {
		return nil
	}
	rec := &model.Availability{
		RoomTypeID:         req.RoomTypeID,
		Date:               date,
		Stock:              req.Stock,
		PriceOverrideCents: req.PriceOverrideCents,
	}
	if err := h.Availabilities.Create(c.Request().Context(), rec); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "availability already exists for this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create availability"})
	}
	return c.JSON(http.StatusCreated, toAvailabilityResp(rec))
}

// UpdateAvailability handles PUT /v1/availabilities/:id.  The update
// path is keyed by record id and re-validates the (room_type, date)
// uniqueness against the new date excluding the record itself.
func (h *AvailabilityHandler) UpdateAvailability(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid availability id"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := booking.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a YYYY-MM-DD date"})
	}
	if req.PriceOverrideCents != nil && *req.PriceOverrideCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_override_cents must not be negative"})
	}
	ctx := c.Request().Context()
	rec, err := h.Availabilities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !h.requireOwnership(c, rec.RoomTypeID, ownerID) {
		return nil
	}
	rec.Date = date
	rec.Stock = req.Stock
	rec.PriceOverrideCents = req.PriceOverrideCents
	if err := h.Availabilities.UpdateByID(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "availability already exists for this date"})
		}
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	return c.JSON(http.StatusOK, toAvailabilityResp(rec))
}

// DeleteAvailability handles DELETE /v1/availabilities/:id.  A night
// still covered by an active reservation's stay range cannot be
// removed and is reported as a 409.
func (h *AvailabilityHandler) DeleteAvailability(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid availability id"})
	}
	ctx := c.Request().Context()
	rec, err := h.Availabilities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !h.requireOwnership(c, rec.RoomTypeID, ownerID) {
		return nil
	}
	if err := h.Availabilities.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "availability is covered by an active reservation"})
		}
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete availability"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRoomTypeCalendar handles GET /v1/room-types/:id/availability.  It
// returns the configured nights of a room type in [from, to) for
// public browsing.  Nights without a record are simply absent: the
// ledger does not invent stock for unconfigured dates.
func (h *AvailabilityHandler) GetRoomTypeCalendar(c echo.Context) error {
	roomTypeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room type id"})
	}
	from, err := booking.ParseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be a YYYY-MM-DD date"})
	}
	to, err := booking.ParseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be a YYYY-MM-DD date"})
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be before to"})
	}
	ctx := c.Request().Context()
	if _, err := h.RoomTypes.GetByID(ctx, roomTypeID); err != nil {
		if errors.Is(err, repository.ErrRoomTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	records, err := h.Availabilities.ListByRoomTypeRange(ctx, roomTypeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	items := make([]availabilityResp, 0, len(records))
	for i := range records {
		items = append(items, toAvailabilityResp(&records[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
