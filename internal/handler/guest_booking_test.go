package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/kinarahotels/reservation-server/internal/payment"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// fakeBroker stands in for the payment gateway client.
type fakeBroker struct {
    lastReq payment.TransactionRequest
    session *payment.Session
    err     error
}

func (f *fakeBroker) CreateTransaction(_ context.Context, req payment.TransactionRequest) (*payment.Session, error) {
    f.lastReq = req
    if f.err != nil {
        return nil, f.err
    }
    return f.session, nil
}

type bookingFixture struct {
    db      *sql.DB
    mock    sqlmock.Sqlmock
    broker  *fakeBroker
    handler *BookingHandler
}

func newBookingFixture(t *testing.T) *bookingFixture {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)

    broker := &fakeBroker{session: &payment.Session{Token: "tok-123", RedirectURL: "https://pay.example/tok-123"}}
    return &bookingFixture{
        db:      db,
        mock:    mock,
        broker:  broker,
        handler: NewBookingHandler(repository.NewRoomRepo(db), repository.NewReservationRepo(db), broker, "KNA"),
    }
}

func roomRow() *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{"id", "property_id", "name", "base_price", "capacity", "total_stock", "facilities", "created_at", "updated_at"}).
        AddRow(3, 1, "Deluxe Twin", 500000, 2, 1, "ac,wifi", now, now)
}

func postBooking(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    require.NoError(t, h.CreateBooking(e.NewContext(req, rec)))
    return rec
}

const validBookingBody = `{
    "room_type_id": 3,
    "guest_name": "Ayu Lestari",
    "guest_email": "ayu@example.com",
    "guest_phone": "+6281234567890",
    "check_in": "2026-03-10",
    "check_out": "2026-03-13",
    "total_guests": 2
}`

func TestCreateBooking(t *testing.T) {
    f := newBookingFixture(t)
    defer f.db.Close()

    now := time.Now().UTC()
    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WithArgs(uint64(3)).
        WillReturnRows(roomRow())
    f.mock.ExpectBegin()
    f.mock.ExpectQuery(`SELECT id FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    f.mock.ExpectExec(`INSERT INTO reservations`).
        WillReturnResult(sqlmock.NewResult(7, 1))
    f.mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    f.mock.ExpectCommit()

    rec := postBooking(t, f.handler, validBookingBody)

    assert.Equal(t, http.StatusCreated, rec.Code)
    var resp map[string]interface{}
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    code, _ := resp["booking_code"].(string)
    assert.True(t, strings.HasPrefix(code, "KNA-"), "booking_code %q", code)
    assert.Equal(t, float64(1500000), resp["total_price"])
    assert.Equal(t, float64(3), resp["nights"])
    assert.Equal(t, "pending_payment", resp["status"])
    assert.Equal(t, "tok-123", resp["token"])
    assert.Equal(t, "https://pay.example/tok-123", resp["redirect_url"])

    // The gateway order must reference the reservation that was just
    // written, priced per-night with the night count as quantity.
    assert.Equal(t, code, f.broker.lastReq.TransactionDetails.OrderID)
    assert.Equal(t, int64(1500000), f.broker.lastReq.TransactionDetails.GrossAmount)
    require.Len(t, f.broker.lastReq.ItemDetails, 1)
    assert.Equal(t, int64(500000), f.broker.lastReq.ItemDetails[0].Price)
    assert.Equal(t, 3, f.broker.lastReq.ItemDetails[0].Quantity)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateBookingRoomTaken(t *testing.T) {
    f := newBookingFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WillReturnRows(roomRow())
    f.mock.ExpectBegin()
    f.mock.ExpectQuery(`SELECT id FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
    f.mock.ExpectRollback()

    rec := postBooking(t, f.handler, validBookingBody)

    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Empty(t, f.broker.lastReq.TransactionDetails.OrderID, "gateway must not be called")
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateBookingGatewayDown(t *testing.T) {
    f := newBookingFixture(t)
    defer f.db.Close()
    f.broker.session = nil
    f.broker.err = errors.New("gateway timeout")

    now := time.Now().UTC()
    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WillReturnRows(roomRow())
    f.mock.ExpectBegin()
    f.mock.ExpectQuery(`SELECT id FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    f.mock.ExpectExec(`INSERT INTO reservations`).
        WillReturnResult(sqlmock.NewResult(7, 1))
    f.mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    f.mock.ExpectCommit()

    rec := postBooking(t, f.handler, validBookingBody)

    // The reservation survives; the guest gets the booking code so
    // support can resume payment manually.
    assert.Equal(t, http.StatusBadGateway, rec.Code)
    var resp map[string]interface{}
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.NotEmpty(t, resp["booking_code"])
}

func TestCreateBookingValidation(t *testing.T) {
    cases := []struct {
        name string
        body string
    }{
        {"missing guest fields", `{"room_type_id":3,"check_in":"2026-03-10","check_out":"2026-03-13"}`},
        {"malformed date", `{"room_type_id":3,"guest_name":"A","guest_email":"a@b.c","guest_phone":"+62","check_in":"10-03-2026","check_out":"2026-03-13"}`},
        {"check_out before check_in", `{"room_type_id":3,"guest_name":"A","guest_email":"a@b.c","guest_phone":"+62","check_in":"2026-03-13","check_out":"2026-03-10"}`},
        {"missing room", `{"guest_name":"A","guest_email":"a@b.c","guest_phone":"+62","check_in":"2026-03-10","check_out":"2026-03-13"}`},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            f := newBookingFixture(t)
            defer f.db.Close()

            rec := postBooking(t, f.handler, tc.body)
            assert.Equal(t, http.StatusBadRequest, rec.Code)
            assert.NoError(t, f.mock.ExpectationsWereMet())
        })
    }
}

func TestCreateBookingRoomNotFound(t *testing.T) {
    f := newBookingFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WillReturnError(sql.ErrNoRows)

    rec := postBooking(t, f.handler, validBookingBody)
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookingTooManyGuests(t *testing.T) {
    f := newBookingFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WillReturnRows(roomRow())

    body := strings.Replace(validBookingBody, `"total_guests": 2`, `"total_guests": 5`, 1)
    rec := postBooking(t, f.handler, body)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAvailability(t *testing.T) {
    cases := []struct {
        name  string
        taken int
        want  bool
    }{
        {"available", 0, true},
        {"conflict", 1, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            f := newBookingFixture(t)
            defer f.db.Close()

            f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
                WithArgs(uint64(3)).
                WillReturnRows(roomRow())
            f.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
                WithArgs(uint64(3), "2026-03-13", "2026-03-10").
                WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.taken))

            e := echo.New()
            req := httptest.NewRequest(http.MethodGet, "/v1/rooms/3/availability?check_in=2026-03-10&check_out=2026-03-13", nil)
            rec := httptest.NewRecorder()
            c := e.NewContext(req, rec)
            c.SetPath("/v1/rooms/:id/availability")
            c.SetParamNames("id")
            c.SetParamValues("3")
            require.NoError(t, f.handler.CheckAvailability(c))

            assert.Equal(t, http.StatusOK, rec.Code)
            var resp map[string]interface{}
            require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
            assert.Equal(t, tc.want, resp["available"])
            assert.NoError(t, f.mock.ExpectationsWereMet())
        })
    }
}
