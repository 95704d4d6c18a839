package handler

import (
    "context"
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
    "go.uber.org/zap"

    "github.com/kinarahotels/reservation-server/internal/payment"
    "github.com/kinarahotels/reservation-server/internal/queue"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

const (
    testServerKey = "SB-Mid-server-testkey"
    testOrderID   = "KNA-1700000000000-42"
)

type webhookFixture struct {
    db        *sql.DB
    mock      sqlmock.Sqlmock
    handler   *WebhookHandler
    published []queue.BookingPaidEvent
}

func newWebhookFixture(t *testing.T) *webhookFixture {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)

    f := &webhookFixture{db: db, mock: mock}
    f.handler = &WebhookHandler{
        Reservations: repository.NewReservationRepo(db),
        Properties:   repository.NewPropertyRepo(db),
        Rooms:        repository.NewRoomRepo(db),
        ServerKey:    testServerKey,
        Logger:       zap.NewNop(),
        Publish: func(_ context.Context, event queue.BookingPaidEvent) error {
            f.published = append(f.published, event)
            return nil
        },
    }
    return f
}

func (f *webhookFixture) post(t *testing.T, n payment.Notification) *httptest.ResponseRecorder {
    body, err := json.Marshal(n)
    require.NoError(t, err)

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/payments/notification", strings.NewReader(string(body)))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    require.NoError(t, f.handler.HandleNotification(e.NewContext(req, rec)))
    return rec
}

func settlementNotification() payment.Notification {
    n := payment.Notification{
        OrderID:           testOrderID,
        TransactionStatus: "settlement",
        StatusCode:        "200",
        GrossAmount:       "1500000.00",
    }
    n.SignatureKey = payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
    return n
}

func reservationRow(status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{
        "id", "booking_code", "property_id", "room_type_id",
        "guest_name", "guest_email", "guest_phone", "guest_notes",
        "check_in", "check_out", "total_guests", "total_price",
        "status", "payment_method", "source", "created_at", "updated_at",
    }).AddRow(
        7, testOrderID, 1, 3,
        "Ayu Lestari", "ayu@example.com", "+6281234567890", nil,
        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
        time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
        2, 1500000, status, "gateway", "web", now, now,
    )
}

func TestWebhookSettlementMarksPaidAndPublishes(t *testing.T) {
    f := newWebhookFixture(t)
    defer f.db.Close()

    now := time.Now().UTC()
    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE booking_code`).
        WithArgs(testOrderID).
        WillReturnRows(reservationRow("pending_payment"))
    f.mock.ExpectExec(`UPDATE reservations SET status`).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // Event enrichment: reservation, property and room lookups.
    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE booking_code`).
        WithArgs(testOrderID).
        WillReturnRows(reservationRow("paid"))
    f.mock.ExpectQuery(`SELECT (.+) FROM properties WHERE id`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "description", "created_at", "updated_at"}).
            AddRow(1, "Kinara Ubud", "Jl. Raya Ubud 1", nil, now, now))
    f.mock.ExpectQuery(`SELECT (.+) FROM room_types WHERE id`).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "name", "base_price", "capacity", "total_stock", "facilities", "created_at", "updated_at"}).
            AddRow(3, 1, "Deluxe Twin", 500000, 2, 4, "ac,wifi", now, now))

    rec := f.post(t, settlementNotification())

    assert.Equal(t, http.StatusOK, rec.Code)
    require.Len(t, f.published, 1)
    event := f.published[0]
    assert.NotEmpty(t, event.EventID)
    assert.Equal(t, testOrderID, event.BookingCode)
    assert.Equal(t, "Kinara Ubud", event.PropertyName)
    assert.Equal(t, "Deluxe Twin", event.RoomTypeName)
    assert.Equal(t, "+6281234567890", event.GuestPhone)
    assert.Equal(t, "2026-03-10", event.CheckIn)
    assert.Equal(t, "2026-03-13", event.CheckOut)
    assert.Equal(t, int64(1500000), event.TotalPrice)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestWebhookRedeliveredSettlementIsAcknowledgedOnce(t *testing.T) {
    f := newWebhookFixture(t)
    defer f.db.Close()

    // The booking is already paid: no UPDATE, no event, still 200 so
    // the gateway stops retrying.
    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE booking_code`).
        WithArgs(testOrderID).
        WillReturnRows(reservationRow("paid"))

    rec := f.post(t, settlementNotification())

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, f.published)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestWebhookRejectsBadSignature(t *testing.T) {
    f := newWebhookFixture(t)
    defer f.db.Close()

    n := settlementNotification()
    n.SignatureKey = "forged"
    rec := f.post(t, n)

    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Empty(t, f.published)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestWebhookUnknownOrder(t *testing.T) {
    f := newWebhookFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE booking_code`).
        WithArgs(testOrderID).
        WillReturnError(sql.ErrNoRows)

    rec := f.post(t, settlementNotification())

    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Empty(t, f.published)
}

func TestWebhookIgnoresUnrecognizedStatus(t *testing.T) {
    f := newWebhookFixture(t)
    defer f.db.Close()

    n := payment.Notification{
        OrderID:           testOrderID,
        TransactionStatus: "refund",
        StatusCode:        "200",
        GrossAmount:       "1500000.00",
    }
    n.SignatureKey = payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
    rec := f.post(t, n)

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, f.published)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestWebhookCancelDoesNotPublish(t *testing.T) {
    f := newWebhookFixture(t)
    defer f.db.Close()

    f.mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE booking_code`).
        WithArgs(testOrderID).
        WillReturnRows(reservationRow("pending_payment"))
    f.mock.ExpectExec(`UPDATE reservations SET status`).
        WillReturnResult(sqlmock.NewResult(0, 1))

    n := settlementNotification()
    n.TransactionStatus = "expire"
    rec := f.post(t, n)

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, f.published)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}
