package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/kinarahotels/reservation-server/internal/booking"
    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// AdminReservationHandler serves the console reservation operations:
// listings, manual walk-in bookings, the occupancy calendar and the
// check-in / check-out / cancel lifecycle actions.  Every operation is
// filtered by the scope claim in the caller's access token.
type AdminReservationHandler struct {
    Reservations *repository.ReservationRepo
    Rooms        *repository.RoomRepo
}

// List handles GET /v1/admin/reservations.
func (h *AdminReservationHandler) List(c echo.Context) error {
    details, err := h.Reservations.ListScoped(c.Request().Context(), getScope(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

// Get handles GET /v1/admin/reservations/:id.
func (h *AdminReservationHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    rec, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ok, err := h.Rooms.InScope(ctx, rec.RoomTypeID, getScope(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        // Out-of-scope rows are indistinguishable from missing ones.
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservation": rec.Model()})
}

type manualBookingReq struct {
    RoomTypeID    uint64  `json:"room_type_id"`
    GuestName     string  `json:"guest_name"`
    GuestEmail    string  `json:"guest_email"`
    GuestPhone    string  `json:"guest_phone"`
    GuestNotes    *string `json:"guest_notes"`
    CheckIn       string  `json:"check_in"`
    CheckOut      string  `json:"check_out"`
    TotalGuests   uint32  `json:"total_guests"`
    PaymentMethod string  `json:"payment_method"`
    Paid          bool    `json:"paid"`
    Force         bool    `json:"force"`
}

// Create handles POST /v1/admin/reservations: walk-in and phone
// bookings recorded at the front desk.  Unlike the guest flow it can
// mark the reservation paid immediately (cash) and can force the
// booking past the availability check when the desk knowingly
// overbooks.
func (h *AdminReservationHandler) Create(c echo.Context) error {
    var req manualBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.RoomTypeID == 0 || req.GuestName == "" || req.GuestPhone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id, guest_name and guest_phone are required"})
    }
    in, out, err := parseDateRange(req.CheckIn, req.CheckOut)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    if req.TotalGuests == 0 {
        req.TotalGuests = 1
    }
    if req.PaymentMethod == "" {
        req.PaymentMethod = "cash"
    }

    ctx := c.Request().Context()
    scope := getScope(c)
    ok, err := h.Rooms.InScope(ctx, req.RoomTypeID, scope)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "room is outside your property scope"})
    }
    room, err := h.Rooms.GetByID(ctx, req.RoomTypeID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    status := model.StatusPendingPayment
    if req.Paid {
        status = model.StatusPaid
    }
    rec := &repository.ReservationRecord{
        BookingCode:   booking.NewManualCode(),
        PropertyID:    room.PropertyID,
        RoomTypeID:    room.ID,
        GuestName:     req.GuestName,
        GuestEmail:    req.GuestEmail,
        GuestPhone:    req.GuestPhone,
        GuestNotes:    req.GuestNotes,
        CheckIn:       in,
        CheckOut:      out,
        TotalGuests:   req.TotalGuests,
        TotalPrice:    booking.TotalPrice(room.BasePrice, in, out),
        Status:        string(status),
        PaymentMethod: req.PaymentMethod,
        Source:        "manual",
    }
    if err := h.Reservations.Reserve(ctx, rec, room.Units(), req.Force); err != nil {
        if errors.Is(err, repository.ErrRoomUnavailable) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room unavailable for the requested dates"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"reservation": rec.Model()})
}

// CheckIn handles POST /v1/admin/reservations/:id/check-in.
func (h *AdminReservationHandler) CheckIn(c echo.Context) error {
    return h.transition(c, model.StatusPaid, model.StatusCheckedIn)
}

// CheckOut handles POST /v1/admin/reservations/:id/check-out.
func (h *AdminReservationHandler) CheckOut(c echo.Context) error {
    return h.transition(c, model.StatusCheckedIn, model.StatusCheckedOut)
}

// Cancel handles POST /v1/admin/reservations/:id/cancel.  Only
// pending_payment reservations can be cancelled; the status machine
// has no reverse transitions, so anything already paid or hosting a
// stay is refused with a conflict.
func (h *AdminReservationHandler) Cancel(c echo.Context) error {
    id, rec, ok := h.loadScoped(c)
    if !ok {
        return nil
    }
    from := model.ReservationStatus(rec.Status)
    if err := h.Reservations.TransitionStatus(c.Request().Context(), id, from, model.StatusCancelled); err != nil {
        if errors.Is(err, repository.ErrInvalidTransition) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation cannot be cancelled from status " + rec.Status})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.StatusCancelled})
}

func (h *AdminReservationHandler) transition(c echo.Context, from, to model.ReservationStatus) error {
    id, rec, ok := h.loadScoped(c)
    if !ok {
        return nil
    }
    if err := h.Reservations.TransitionStatus(c.Request().Context(), id, from, to); err != nil {
        if errors.Is(err, repository.ErrInvalidTransition) {
            return c.JSON(http.StatusConflict, echo.Map{
                "error": "reservation is " + rec.Status + ", expected " + string(from),
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": to})
}

// loadScoped parses the :id parameter, fetches the reservation and
// applies the scope check, writing the error response itself.  The
// third return value is false when a response has already been
// written and the caller should stop.
func (h *AdminReservationHandler) loadScoped(c echo.Context) (uint64, *repository.ReservationRecord, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
        return 0, nil, false
    }
    ctx := c.Request().Context()
    rec, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return 0, nil, false
    }
    ok, err := h.Rooms.InScope(ctx, rec.RoomTypeID, getScope(c))
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        return 0, nil, false
    }
    if !ok {
        _ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        return 0, nil, false
    }
    return id, rec, true
}

// Calendar handles GET /v1/admin/properties/:id/calendar.
func (h *AdminReservationHandler) Calendar(c echo.Context) error {
    propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || propertyID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    from, to, err := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    details, err := h.Reservations.ListForCalendar(c.Request().Context(), propertyID, from, to, getScope(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "property_id":  propertyID,
        "from":         from.Format(dateLayout),
        "to":           to.Format(dateLayout),
        "reservations": details,
    })
}
