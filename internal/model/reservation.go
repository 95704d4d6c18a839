package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// Transitions are one-directional: pending_payment moves to paid or
// cancelled, paid moves to checked_in, checked_in moves to checked_out.
// No reverse transitions exist; cancellation is a status, not a delete.
type ReservationStatus string

const (
    StatusPendingPayment ReservationStatus = "pending_payment"
    StatusPaid           ReservationStatus = "paid"
    StatusCheckedIn      ReservationStatus = "checked_in"
    StatusCheckedOut     ReservationStatus = "checked_out"
    StatusCancelled      ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the persisted status values.
func (s ReservationStatus) Valid() bool {
    switch s {
    case StatusPendingPayment, StatusPaid, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
        return true
    }
    return false
}

// Terminal reports whether no further transition is possible from s.
func (s ReservationStatus) Terminal() bool {
    return s == StatusCheckedOut || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to target is allowed by
// the status machine.  The webhook reconciler drives
// pending_payment -> paid/cancelled; admin actions drive
// paid -> checked_in -> checked_out.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
    switch s {
    case StatusPendingPayment:
        return target == StatusPaid || target == StatusCancelled
    case StatusPaid:
        return target == StatusCheckedIn
    case StatusCheckedIn:
        return target == StatusCheckedOut
    }
    return false
}

// Reservation records a guest's booking of one room type for a date
// range.  The half-open interval [CheckIn, CheckOut) is what the
// availability check compares; a guest checking out on the day another
// checks in does not conflict.
//
// Fields:
//  ID            – primary key identifier.
//  BookingCode   – guest- and gateway-visible unique reference
//                  (KNA-<epoch_ms>-<n> or MANUAL-<epoch_ms>).
//  PropertyID    – property the room belongs to.
//  RoomTypeID    – room type being booked.
//  GuestName     – full name of the guest.
//  GuestEmail    – contact email.
//  GuestPhone    – contact phone, used for WhatsApp confirmation.
//  GuestNotes    – free-form requests (nullable).
//  CheckIn       – arrival date (inclusive).
//  CheckOut      – departure date (exclusive).
//  TotalGuests   – number of guests staying.
//  TotalPrice    – base nightly price × max(1, nights).
//  Status        – state of the reservation.
//  PaymentMethod – "gateway" or "cash".
//  Source        – originating channel ("web", "manual").
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
    ID            uint64            `json:"id"`                    // reservations.id
    BookingCode   string            `json:"booking_code"`          // reservations.booking_code
    PropertyID    uint64            `json:"property_id"`           // reservations.property_id
    RoomTypeID    uint64            `json:"room_type_id"`          // reservations.room_type_id
    GuestName     string            `json:"guest_name"`            // reservations.guest_name
    GuestEmail    string            `json:"guest_email"`           // reservations.guest_email
    GuestPhone    string            `json:"guest_phone"`           // reservations.guest_phone
    GuestNotes    *string           `json:"guest_notes,omitempty"` // reservations.guest_notes (nullable)
    CheckIn       time.Time         `json:"check_in"`              // reservations.check_in
    CheckOut      time.Time         `json:"check_out"`             // reservations.check_out
    TotalGuests   uint32            `json:"total_guests"`          // reservations.total_guests
    TotalPrice    int64             `json:"total_price"`           // reservations.total_price
    Status        ReservationStatus `json:"status"`                // reservations.status
    PaymentMethod string            `json:"payment_method"`        // reservations.payment_method
    Source        string            `json:"source"`                // reservations.source
    CreatedAt     time.Time         `json:"created_at"`            // reservations.created_at
    UpdatedAt     time.Time         `json:"updated_at"`            // reservations.updated_at
}
