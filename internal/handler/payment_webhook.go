package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/payment"
    "github.com/kinarahotels/reservation-server/internal/queue"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// WebhookHandler reconciles asynchronous payment notifications from
// the gateway against the reservation store.  It is the only writer
// of gateway-driven status changes, and it must stay idempotent: the
// gateway retries notifications until it sees a 2xx, so the same
// settlement can arrive many times.
type WebhookHandler struct {
    Reservations *repository.ReservationRepo
    Properties   *repository.PropertyRepo
    Rooms        *repository.RoomRepo
    ServerKey    string
    Logger       *zap.Logger
    // Publish sends the paid-booking event to the broker.  Swappable
    // in tests; a publish failure never fails the webhook response.
    Publish func(ctx context.Context, event queue.BookingPaidEvent) error
}

// HandleNotification handles POST /v1/payments/notification.
func (h *WebhookHandler) HandleNotification(c echo.Context) error {
    var n payment.Notification
    if err := c.Bind(&n); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification payload"})
    }
    if n.OrderID == "" || n.SignatureKey == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id and signature_key are required"})
    }
    if !n.VerifySignature(h.ServerKey) {
        h.Logger.Warn("rejected payment notification with bad signature",
            zap.String("order_id", n.OrderID),
        )
        return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid signature"})
    }

    target, ok := n.MapStatus()
    if !ok {
        // Unknown statuses are acknowledged so the gateway stops
        // retrying; there is nothing to reconcile.
        h.Logger.Info("ignoring payment notification",
            zap.String("order_id", n.OrderID),
            zap.String("transaction_status", n.TransactionStatus),
            zap.String("fraud_status", n.FraudStatus),
        )
        return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
    }

    ctx := c.Request().Context()
    applied, err := h.Reservations.ApplyPaymentStatus(ctx, n.OrderID, target)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown order_id"})
        }
        h.Logger.Error("failed to apply payment status",
            zap.String("order_id", n.OrderID),
            zap.Error(err),
        )
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
    }
    h.Logger.Info("payment notification reconciled",
        zap.String("order_id", n.OrderID),
        zap.String("transaction_status", n.TransactionStatus),
        zap.String("target_status", string(target)),
        zap.Bool("applied", applied),
    )

    if applied && target == model.StatusPaid {
        h.publishPaidEvent(c, n.OrderID)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// publishPaidEvent enriches the reservation with property and room
// names and hands it to the broker.  Failures are logged only; the
// payment status is already committed and the gateway must not retry
// because of a broken notification path.
func (h *WebhookHandler) publishPaidEvent(c echo.Context, bookingCode string) {
    if h.Publish == nil {
        return
    }
    ctx := c.Request().Context()
    rec, err := h.Reservations.GetByBookingCode(ctx, bookingCode)
    if err != nil {
        h.Logger.Error("paid event: reservation lookup failed",
            zap.String("booking_code", bookingCode), zap.Error(err))
        return
    }
    event := queue.BookingPaidEvent{
        EventID:     uuid.NewString(),
        BookingCode: rec.BookingCode,
        GuestName:   rec.GuestName,
        GuestPhone:  rec.GuestPhone,
        GuestEmail:  rec.GuestEmail,
        CheckIn:     rec.CheckIn.Format(dateLayout),
        CheckOut:    rec.CheckOut.Format(dateLayout),
        TotalPrice:  rec.TotalPrice,
        PaidAt:      time.Now().UTC().Format(time.RFC3339),
    }
    if prop, err := h.Properties.GetByID(ctx, rec.PropertyID); err == nil {
        event.PropertyName = prop.Name
    }
    if room, err := h.Rooms.GetByID(ctx, rec.RoomTypeID); err == nil {
        event.RoomTypeName = room.Name
    }
    if err := h.Publish(ctx, event); err != nil {
        h.Logger.Error("paid event publish failed",
            zap.String("booking_code", bookingCode),
            zap.String("event_id", event.EventID),
            zap.Error(err),
        )
    }
}
