// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingPaidQueue is the durable queue carrying paid-booking events
// from the webhook reconciler to the notification consumer.
const BookingPaidQueue = "booking.paid"

// BookingPaidEvent is published when a reservation transitions to paid.
// It contains enough information for downstream consumers to notify the
// guest without querying the primary database.  EventID makes repeat
// deliveries distinguishable in logs.
type BookingPaidEvent struct {
    EventID      string `json:"event_id"`
    BookingCode  string `json:"booking_code"`
    PropertyName string `json:"property_name"`
    RoomTypeName string `json:"room_type_name"`
    GuestName    string `json:"guest_name"`
    GuestPhone   string `json:"guest_phone"`
    GuestEmail   string `json:"guest_email"`
    CheckIn      string `json:"check_in"`
    CheckOut     string `json:"check_out"`
    TotalPrice   int64  `json:"total_price"`
    PaidAt       string `json:"paid_at"`
}
