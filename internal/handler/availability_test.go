package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgely/hotel-reservation/internal/repository"
)

type ledgerEnv struct {
	e    *echo.Echo
	h    *AvailabilityHandler
	mock sqlmock.Sqlmock
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewAvailabilityHandler(repository.NewRoomTypeRepo(db), repository.NewAvailabilityRepo(db))
	return &ledgerEnv{e: echo.New(), h: h, mock: mock}
}

func (env *ledgerEnv) jsonCtx(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func (env *ledgerEnv) expectOwnerOf(roomTypeID, ownerID uint64) {
	env.mock.ExpectQuery(regexp.QuoteMeta("SELECT h.owner_id")).
		WithArgs(roomTypeID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(ownerID))
}

func TestCreateAvailability_InsertsNight(t *testing.T) {
	env := newLedgerEnv(t)

	env.expectOwnerOf(3, 7)
	env.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availabilities")).
		WithArgs(uint64(3), "2030-06-01", uint32(4), nil).
		WillReturnResult(sqlmock.NewResult(21, 1))
	env.mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM availabilities")).
		WithArgs(uint64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	body := `{"room_type_id":3,"date":"2030-06-01","stock":4}`
	c, rec := env.jsonCtx(http.MethodPost, "/v1/availabilities", body, "7")
	require.NoError(t, env.h.CreateAvailability(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":21`)
	assert.Contains(t, rec.Body.String(), `"date":"2030-06-01"`)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateAvailability_DuplicateNightIs409(t *testing.T) {
	env := newLedgerEnv(t)

	env.expectOwnerOf(3, 7)
	env.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availabilities")).
		WithArgs(uint64(3), "2030-06-01", uint32(4), nil).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-2030-06-01' for key 'uq_room_type_date'"))

	body := `{"room_type_id":3,"date":"2030-06-01","stock":4}`
	c, rec := env.jsonCtx(http.MethodPost, "/v1/availabilities", body, "7")
	require.NoError(t, env.h.CreateAvailability(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateAvailability_ForeignRoomTypeForbidden(t *testing.T) {
	env := newLedgerEnv(t)

	env.expectOwnerOf(3, 99)

	body := `{"room_type_id":3,"date":"2030-06-01","stock":4}`
	c, rec := env.jsonCtx(http.MethodPost, "/v1/availabilities", body, "7")
	require.NoError(t, env.h.CreateAvailability(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateAvailability_Validation(t *testing.T) {
	env := newLedgerEnv(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing room type", `{"date":"2030-06-01","stock":4}`, "room_type_id"},
		{"bad date", `{"room_type_id":3,"date":"tomorrow","stock":4}`, "YYYY-MM-DD"},
		{"negative override", `{"room_type_id":3,"date":"2030-06-01","stock":4,"price_override_cents":-500}`, "negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := env.jsonCtx(http.MethodPost, "/v1/availabilities", tc.body, "7")
			require.NoError(t, env.h.CreateAvailability(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestDeleteAvailability_CoveredNightIs409(t *testing.T) {
	env := newLedgerEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta("FROM availabilities WHERE id = ?")).
		WithArgs(uint64(21)).
		WillReturnRows(availabilityRows(3, 4, "2030-06-01"))
	env.expectOwnerOf(3, 7)
	// DeleteByID re-reads the record under lock before the coverage check.
	env.mock.ExpectBegin()
	env.mock.ExpectQuery(regexp.QuoteMeta("FROM availabilities WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(21)).
		WillReturnRows(availabilityRows(3, 4, "2030-06-01"))
	env.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WithArgs(uint64(3), "CANCELLED", "2030-06-01", "2030-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	env.mock.ExpectRollback()

	c, rec := env.jsonCtx(http.MethodDelete, "/v1/availabilities/21", "", "7")
	c.SetParamNames("id")
	c.SetParamValues("21")
	require.NoError(t, env.h.DeleteAvailability(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "covered")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestDeleteAvailability_MissingRecordIs404(t *testing.T) {
	env := newLedgerEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta("FROM availabilities WHERE id = ?")).
		WithArgs(uint64(21)).
		WillReturnError(sql.ErrNoRows)

	c, rec := env.jsonCtx(http.MethodDelete, "/v1/availabilities/21", "", "7")
	c.SetParamNames("id")
	c.SetParamValues("21")
	require.NoError(t, env.h.DeleteAvailability(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateAvailability_DateCollisionIs409(t *testing.T) {
	env := newLedgerEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta("FROM availabilities WHERE id = ?")).
		WithArgs(uint64(21)).
		WillReturnRows(availabilityRows(3, 4, "2030-06-01"))
	env.expectOwnerOf(3, 7)
	env.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM availabilities WHERE room_type_id = ? AND date = ? AND id <> ?")).
		WithArgs(uint64(3), "2030-06-02", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := `{"room_type_id":3,"date":"2030-06-02","stock":4}`
	c, rec := env.jsonCtx(http.MethodPut, "/v1/availabilities/21", body, "7")
	c.SetParamNames("id")
	c.SetParamValues("21")
	require.NoError(t, env.h.UpdateAvailability(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetRoomTypeCalendar_ListsConfiguredNights(t *testing.T) {
	env := newLedgerEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta("FROM room_types WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "name", "capacity", "base_price_cents", "created_at"}).
			AddRow(3, 2, "Double", 2, int64(10000), now))
	env.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date")).
		WithArgs(uint64(3), "2030-06-01", "2030-06-04").
		WillReturnRows(availabilityRows(3, 4, "2030-06-01", "2030-06-02"))

	c, rec := env.jsonCtx(http.MethodGet, "/v1/room-types/3/availability?from=2030-06-01&to=2030-06-04", "", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, env.h.GetRoomTypeCalendar(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2030-06-01"`)
	assert.Contains(t, rec.Body.String(), `"date":"2030-06-02"`)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetRoomTypeCalendar_RejectsInvertedRange(t *testing.T) {
	env := newLedgerEnv(t)

	c, rec := env.jsonCtx(http.MethodGet, "/v1/room-types/3/availability?from=2030-06-04&to=2030-06-01", "", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, env.h.GetRoomTypeCalendar(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "before")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
