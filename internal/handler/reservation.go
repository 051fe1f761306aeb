package handler

import (
	"database/sql" // sentinel errors returned from repository
	"errors"       // errors.Is comparisons
	"net/http"     // HTTP status codes
	"strconv"      // parsing path parameters
	"time"         // timestamps for published events

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/lodgely/hotel-reservation/internal/booking"
	"github.com/lodgely/hotel-reservation/internal/model"
	"github.com/lodgely/hotel-reservation/internal/queue"
	"github.com/lodgely/hotel-reservation/internal/repository"
	queue_publisher "github.com/lodgely/hotel-reservation/internal/service"
)

// ReservationHandler groups the repositories required to quote, book,
// list and cancel reservations.  Methods that mutate both the
// reservation table and the availability ledger run inside a single
// transaction so that no partial stock consumption survives a failed
// booking and no cancellation restores stock twice.  JWT
// authentication and role validation are assumed to have been
// performed by middleware.
type ReservationHandler struct {
	Users          *repository.UserRepo         // reference validation for the booking user
	Hotels         *repository.HotelRepo        // hotel directory lookups
	Properties     *repository.PropertyRepo     // property directory lookups
	RoomTypes      *repository.RoomTypeRepo     // room type directory lookups (base price)
	Availabilities *repository.AvailabilityRepo // the stock ledger
	Reservations   *repository.ReservationRepo  // reservation persistence
}

// NewReservationHandler constructs a ReservationHandler with the
// provided repositories.  All dependencies must be non-nil.
func NewReservationHandler(users *repository.UserRepo, hotels *repository.HotelRepo, properties *repository.PropertyRepo, roomTypes *repository.RoomTypeRepo, availabilities *repository.AvailabilityRepo, reservations *repository.ReservationRepo) *ReservationHandler {
	if users == nil || hotels == nil || properties == nil || roomTypes == nil || availabilities == nil || reservations == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Users:          users,
		Hotels:         hotels,
		Properties:     properties,
		RoomTypes:      roomTypes,
		Availabilities: availabilities,
		Reservations:   reservations,
	}
}

// ----- DTOs -----

type checkAvailabilityReq struct {
	RoomTypeID uint64 `json:"room_type_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     uint32 `json:"guests"`
}

type createReservationReq struct {
	HotelID    uint64 `json:"hotel_id"`
	PropertyID uint64 `json:"property_id"`
	RoomTypeID uint64 `json:"room_type_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     uint32 `json:"guests"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

type reservationResp struct {
	ID               uint64 `json:"id"`
	UserID           uint64 `json:"user_id"`
	HotelID          uint64 `json:"hotel_id"`
	PropertyID       uint64 `json:"property_id"`
	RoomTypeID       uint64 `json:"room_type_id"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	GuestCount       uint32 `json:"guest_count"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

func toReservationResp(res *model.Reservation) reservationResp {
	return reservationResp{
		ID:               res.ID,
		UserID:           res.UserID,
		HotelID:          res.HotelID,
		PropertyID:       res.PropertyID,
		RoomTypeID:       res.RoomTypeID,
		CheckIn:          res.CheckIn.Format(booking.DateLayout),
		CheckOut:         res.CheckOut.Format(booking.DateLayout),
		GuestCount:       res.GuestCount,
		TotalAmountCents: res.TotalAmountCents,
		Status:           res.Status,
		CreatedAt:        res.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// parseStay binds the shared date fields of a request.  It returns the
// parsed check-in/check-out dates or a non-nil error response already
// written to the client.
func parseStay(c echo.Context, checkIn, checkOut string) (time.Time, time.Time, bool) {
	in, err := booking.ParseDate(checkIn)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
		return time.Time{}, time.Time{}, false
	}
	out, err := booking.ParseDate(checkOut)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}

// CheckAvailability handles POST /v1/reservations/check-availability.
// It prices a prospective stay without mutating anything: every night
// in [check_in, check_out) must have a ledger record with at least
// `guests` units of stock, otherwise the whole range is reported
// unavailable with a zero total.  The read is advisory; the booking
// endpoint re-validates stock under row locks at reservation time.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	var req checkAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id is required"})
	}
	checkIn, checkOut, ok := parseStay(c, req.CheckIn, req.CheckOut)
	if !ok {
		return nil
	}
	if !checkIn.Before(checkOut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrDateOrder.Error()})
	}
	if req.Guests < booking.MinGuests || req.Guests > booking.MaxGuests {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrGuestCount.Error()})
	}
	ctx := c.Request().Context()
	roomType, err := h.RoomTypes.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	records, err := h.Availabilities.ListByRoomTypeRange(ctx, req.RoomTypeID, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	byDate := make(map[string]*model.Availability, len(records))
	for i := range records {
		byDate[records[i].Date.Format(booking.DateLayout)] = &records[i]
	}
	nights := booking.StayNights(checkIn, checkOut)
	quote := booking.PriceStay(nights, byDate, roomType.BasePriceCents, req.Guests)
	perNight := quote.Nights
	if perNight == nil {
		perNight = []booking.Night{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"is_available":       quote.Available,
		"total_amount_cents": quote.TotalAmountCents,
		"total_nights":       len(nights),
		"per_night":          perNight,
	})
}

// CreateReservation handles POST /v1/reservations.  It validates the
// request and the referenced user/hotel/property/room type, then runs
// the booking as one atomic unit: lock the ledger rows for the stay
// range, price the stay, insert the reservation with status PENDING
// and decrement every night's stock by the guest count.  The
// conditional decrement re-checks stock at mutation time, so a booking
// that loses a race to a concurrent request fails entirely and leaves
// no partial stock consumption behind.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.HotelID == 0 || req.PropertyID == 0 || req.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id, property_id and room_type_id are required"})
	}
	checkIn, checkOut, ok := parseStay(c, req.CheckIn, req.CheckOut)
	if !ok {
		return nil
	}
	if err := booking.ValidateStay(checkIn, checkOut, req.Guests, booking.Today()); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	// Validate every referenced record, naming the missing one.
	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Hotels.GetByID(ctx, req.HotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Properties.GetByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	roomType, err := h.RoomTypes.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.Availabilities.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Lock the stay's ledger rows for the duration of the unit, then
	// price against the locked values.
	records, err := h.Availabilities.LockRangeTx(ctx, tx, req.RoomTypeID, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	nights := booking.StayNights(checkIn, checkOut)
	quote := booking.PriceStay(nights, records, roomType.BasePriceCents, req.Guests)
	if !quote.Available {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient_stock"})
	}
	res := &model.Reservation{
		UserID:           userID,
		HotelID:          req.HotelID,
		PropertyID:       req.PropertyID,
		RoomTypeID:       req.RoomTypeID,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		GuestCount:       req.Guests,
		TotalAmountCents: quote.TotalAmountCents,
		Status:           model.StatusPending,
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	for _, d := range nights {
		if err := h.Availabilities.DecrementStockTx(ctx, tx, req.RoomTypeID, d, req.Guests); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient_stock"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update stock"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	// Best-effort event for downstream consumers; failures are logged
	// by the publisher and never fail the booking.
	_ = queue_publisher.PublishReservationCreated(ctx, queue.ReservationCreatedEvent{
		ReservationID:    res.ID,
		UserID:           res.UserID,
		RoomTypeID:       res.RoomTypeID,
		CheckIn:          res.CheckIn.Format(booking.DateLayout),
		CheckOut:         res.CheckOut.Format(booking.DateLayout),
		GuestCount:       res.GuestCount,
		TotalAmountCents: res.TotalAmountCents,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user along with hotel, property
// and room type names.  When no reservations exist, it returns an
// empty array.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetReservation handles GET /v1/reservations/:id.  It returns the
// details of a single reservation for the authenticated user.  When
// the reservation does not exist, or belongs to a different user, it
// responds with 404.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.Reservations.GetDetailForUser(c.Request().Context(), resID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// restoreStayTx increments the ledger stock for every night of the
// reservation's stay by its guest count, inside the given transaction.
func (h *ReservationHandler) restoreStayTx(c echo.Context, tx *sql.Tx, res *model.Reservation) error {
	ctx := c.Request().Context()
	for _, d := range booking.StayNights(res.CheckIn, res.CheckOut) {
		if err := h.Availabilities.IncrementStockTx(ctx, tx, res.RoomTypeID, d, res.GuestCount); err != nil {
			return err
		}
	}
	return nil
}

// DeleteReservation handles DELETE /v1/reservations/:id.  Hard
// deletion is only permitted while the reservation is PENDING.  The
// delete and the stock restoration for every night of the stay commit
// as one unit.  Returns 204 on success, 404 when the reservation does
// not exist, 403 for another user's reservation and 400 for a
// non-pending status.
func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := h.Reservations.GetForUpdateTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.Status != model.StatusPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only pending reservations can be deleted"})
	}
	if err := h.restoreStayTx(c, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to restore stock"})
	}
	if err := h.Reservations.DeleteTx(ctx, tx, resID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus handles PUT /v1/reservations/:id/status.  The caller
// must own the hotel the reservation's room type belongs to.  The new
// status must name a known value of the closed enum; anything else is
// rejected with invalid_status.  Only the transition into CANCELLED
// has a ledger side effect: it restores every night's stock, and the
// prior-status check makes that restoration run at most once no matter
// how many times cancellation is requested.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status, ok := model.ParseReservationStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_status"})
	}
	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := h.Reservations.GetForUpdateTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	// Owners may only drive reservations of their own room types.
	actualOwner, err := h.RoomTypes.OwnerOf(ctx, res.RoomTypeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if actualOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	restoring := status == model.StatusCancelled && res.Status != model.StatusCancelled
	if restoring {
		if err := h.restoreStayTx(c, tx, res); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to restore stock"})
		}
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, resID, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	if restoring {
		_ = queue_publisher.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			RoomTypeID:    res.RoomTypeID,
			CheckIn:       res.CheckIn.Format(booking.DateLayout),
			CheckOut:      res.CheckOut.Format(booking.DateLayout),
			GuestCount:    res.GuestCount,
			CancelledAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRoomTypeReservations handles GET /v1/room-types/:id/reservations
// for owners.  It returns all reservations of a room type after
// verifying through the directory that the caller owns the room type's
// hotel.
func (h *ReservationHandler) ListRoomTypeReservations(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomTypeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room type id"})
	}
	details, err := h.Reservations.ListByRoomTypeForOwner(c.Request().Context(), roomTypeID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
