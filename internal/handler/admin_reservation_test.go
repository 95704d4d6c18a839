package handler

import (
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/kinarahotels/reservation-server/internal/repository"
)

type adminFixture struct {
    db      *sql.DB
    mock    sqlmock.Sqlmock
    handler *AdminReservationHandler
}

func newAdminFixture(t *testing.T) *adminFixture {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    return &adminFixture{
        db:   db,
        mock: mock,
        handler: &AdminReservationHandler{
            Reservations: repository.NewReservationRepo(db),
            Rooms:        repository.NewRoomRepo(db),
        },
    }
}

// adminContext builds a request context the way the JWT middleware
// would after verifying an access token.
func adminContext(method, target, body, scope string) (echo.Context, *httptest.ResponseRecorder) {
    e := echo.New()
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, target, nil)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("admin_id", float64(1))
    c.Set("role", "admin")
    c.Set("scope", scope)
    return c, rec
}

func TestManualBookingCreate(t *testing.T) {
    f := newAdminFixture(t)
    defer f.db.Close()

    now := time.Now().UTC()
    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WithArgs(uint64(3)).
        WillReturnRows(roomRow())
    f.mock.ExpectBegin()
    f.mock.ExpectQuery(`SELECT id FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    f.mock.ExpectExec(`INSERT INTO reservations`).
        WillReturnResult(sqlmock.NewResult(9, 1))
    f.mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    f.mock.ExpectCommit()

    body := `{
        "room_type_id": 3,
        "guest_name": "Budi Santoso",
        "guest_phone": "+6281111111111",
        "check_in": "2026-04-01",
        "check_out": "2026-04-03",
        "paid": true
    }`
    c, rec := adminContext(http.MethodPost, "/v1/admin/reservations", body, "all")
    require.NoError(t, f.handler.Create(c))

    assert.Equal(t, http.StatusCreated, rec.Code)
    var resp struct {
        Reservation struct {
            BookingCode   string `json:"booking_code"`
            Status        string `json:"status"`
            PaymentMethod string `json:"payment_method"`
            Source        string `json:"source"`
            TotalPrice    int64  `json:"total_price"`
        } `json:"reservation"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.True(t, strings.HasPrefix(resp.Reservation.BookingCode, "MANUAL-"), "code %q", resp.Reservation.BookingCode)
    assert.Equal(t, "paid", resp.Reservation.Status)
    assert.Equal(t, "cash", resp.Reservation.PaymentMethod)
    assert.Equal(t, "manual", resp.Reservation.Source)
    assert.Equal(t, int64(1000000), resp.Reservation.TotalPrice)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestManualBookingOutOfScope(t *testing.T) {
    f := newAdminFixture(t)
    defer f.db.Close()

    // RoomRepo.InScope counts matching property names; zero means the
    // admin cannot touch this room.
    f.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM room_types rt JOIN properties p`).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

    body := `{"room_type_id":3,"guest_name":"Budi","guest_phone":"+62","check_in":"2026-04-01","check_out":"2026-04-03"}`
    c, rec := adminContext(http.MethodPost, "/v1/admin/reservations", body, "Kinara Canggu")
    require.NoError(t, f.handler.Create(c))

    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func transitionContext(id, scope string) (echo.Context, *httptest.ResponseRecorder) {
    c, rec := adminContext(http.MethodPost, "/v1/admin/reservations/"+id+"/check-in", "", scope)
    c.SetParamNames("id")
    c.SetParamValues(id)
    return c, rec
}

func TestCheckInPaidReservation(t *testing.T) {
    f := newAdminFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
        WithArgs(uint64(7)).
        WillReturnRows(reservationRow("paid"))
    f.mock.ExpectExec(`UPDATE reservations SET status`).
        WillReturnResult(sqlmock.NewResult(0, 1))

    c, rec := transitionContext("7", "all")
    require.NoError(t, f.handler.CheckIn(c))

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckInPendingReservationConflicts(t *testing.T) {
    f := newAdminFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
        WithArgs(uint64(7)).
        WillReturnRows(reservationRow("pending_payment"))
    // CheckIn expects the paid state; the conditional UPDATE matches no row.
    f.mock.ExpectExec(`UPDATE reservations SET status`).
        WillReturnResult(sqlmock.NewResult(0, 0))

    c, rec := transitionContext("7", "all")
    require.NoError(t, f.handler.CheckIn(c))

    assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelPaidReservationRefused(t *testing.T) {
    f := newAdminFixture(t)
    defer f.db.Close()

    // paid has no edge to cancelled; no UPDATE is attempted.
    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
        WithArgs(uint64(7)).
        WillReturnRows(reservationRow("paid"))

    c, rec := adminContext(http.MethodPost, "/v1/admin/reservations/7/cancel", "", "all")
    c.SetParamNames("id")
    c.SetParamValues("7")
    require.NoError(t, f.handler.Cancel(c))

    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetReservationHiddenOutsideScope(t *testing.T) {
    f := newAdminFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
        WithArgs(uint64(7)).
        WillReturnRows(reservationRow("paid"))
    f.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM room_types rt JOIN properties p`).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

    c, rec := adminContext(http.MethodGet, "/v1/admin/reservations/7", "", "Kinara Canggu")
    c.SetParamNames("id")
    c.SetParamValues("7")
    require.NoError(t, f.handler.Get(c))

    // Out-of-scope rows look exactly like missing rows.
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}
