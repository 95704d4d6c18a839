package handler

import (
    "context"        // passes request context into the gateway call
    "database/sql"   // for sentinel errors returned from repository
    "errors"         // for errors.Is comparisons
    "net/http"       // HTTP status codes
    "strconv"        // parsing path parameters

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/kinarahotels/reservation-server/internal/booking"
    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/payment"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// tokenBroker requests a checkout session from the payment gateway.
// Declared as an interface so tests can substitute a fake gateway.
type tokenBroker interface {
    CreateTransaction(ctx context.Context, req payment.TransactionRequest) (*payment.Session, error)
}

// BookingHandler implements the guest-facing booking flow: the
// advisory availability check and the create-booking operation that
// reserves a room and opens a payment session.  No authentication is
// required; guests are identified only by the contact details they
// submit.
type BookingHandler struct {
    Rooms        *repository.RoomRepo        // room type lookup for price/stock
    Reservations *repository.ReservationRepo // reservation store
    Payments     tokenBroker                 // gateway token broker
    CodePrefix   string                      // booking code prefix (e.g. "KNA")
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil.
func NewBookingHandler(rooms *repository.RoomRepo, reservations *repository.ReservationRepo, payments tokenBroker, codePrefix string) *BookingHandler {
    if rooms == nil || reservations == nil || payments == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Rooms: rooms, Reservations: reservations, Payments: payments, CodePrefix: codePrefix}
}

// CheckAvailability handles GET /v1/rooms/:id/availability.  It is
// advisory only: a room reported available can still be taken by the
// time the booking is submitted, which is why CreateBooking re-checks
// inside its transaction.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
    roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || roomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    in, out, err := parseDateRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    room, err := h.Rooms.GetByID(ctx, roomID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    available, err := h.Reservations.Available(ctx, roomID, room.Units(), in, out)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_type_id": roomID,
        "check_in":     in.Format(dateLayout),
        "check_out":    out.Format(dateLayout),
        "available":    available,
    })
}

type createBookingReq struct {
    RoomTypeID  uint64  `json:"room_type_id"`
    GuestName   string  `json:"guest_name"`
    GuestEmail  string  `json:"guest_email"`
    GuestPhone  string  `json:"guest_phone"`
    GuestNotes  *string `json:"guest_notes"`
    CheckIn     string  `json:"check_in"`
    CheckOut    string  `json:"check_out"`
    TotalGuests uint32  `json:"total_guests"`
}

// CreateBooking handles POST /v1/bookings.  The ordering here is the
// core invariant of the whole flow: the reservation row must exist in
// pending_payment state before the gateway is asked for a token, so
// the webhook always has a booking_code to match against.  A gateway
// failure after the insert leaves the reservation pending; the
// sweeper cancels it once it goes stale.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.RoomTypeID == 0 || req.GuestName == "" || req.GuestEmail == "" || req.GuestPhone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id, guest_name, guest_email and guest_phone are required"})
    }
    in, out, err := parseDateRange(req.CheckIn, req.CheckOut)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    if req.TotalGuests == 0 {
        req.TotalGuests = 1
    }

    ctx := c.Request().Context()
    room, err := h.Rooms.GetByID(ctx, req.RoomTypeID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if room.Capacity > 0 && req.TotalGuests > room.Capacity {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many guests for this room type"})
    }

    nights := booking.Nights(in, out)
    total := booking.TotalPrice(room.BasePrice, in, out)
    code, err := booking.NewCode(h.CodePrefix)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate booking code"})
    }

    rec := &repository.ReservationRecord{
        BookingCode:   code,
        PropertyID:    room.PropertyID,
        RoomTypeID:    room.ID,
        GuestName:     req.GuestName,
        GuestEmail:    req.GuestEmail,
        GuestPhone:    req.GuestPhone,
        GuestNotes:    req.GuestNotes,
        CheckIn:       in,
        CheckOut:      out,
        TotalGuests:   req.TotalGuests,
        TotalPrice:    total,
        Status:        string(model.StatusPendingPayment),
        PaymentMethod: "gateway",
        Source:        "web",
    }
    // Availability is re-checked and the row inserted in one
    // transaction; the guest flow has no overbooking override.
    if err := h.Reservations.Reserve(ctx, rec, room.Units(), false); err != nil {
        if errors.Is(err, repository.ErrRoomUnavailable) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room unavailable for the requested dates"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }

    session, err := h.Payments.CreateTransaction(ctx, payment.TransactionRequest{
        TransactionDetails: payment.TransactionDetails{OrderID: code, GrossAmount: total},
        CustomerDetails:    payment.CustomerDetails{FirstName: req.GuestName, Email: req.GuestEmail, Phone: req.GuestPhone},
        ItemDetails: []payment.ItemDetail{{
            ID:       strconv.FormatUint(room.ID, 10),
            Price:    room.BasePrice,
            Quantity: nights,
            Name:     room.Name,
        }},
    })
    if err != nil {
        // The reservation stays pending_payment with no payment ever
        // attempted; surfacing the error is all the guest flow can do.
        return c.JSON(http.StatusBadGateway, echo.Map{
            "error":        "payment gateway unavailable, booking not confirmed",
            "booking_code": code,
        })
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "booking_code": code,
        "total_price":  total,
        "nights":       nights,
        "status":       model.StatusPendingPayment,
        "token":        session.Token,
        "redirect_url": session.RedirectURL,
    })
}
