package booking

import (
    "crypto/rand"
    "fmt"
    "math/big"
    "time"
)

// ManualPrefix marks bookings entered by staff for walk-in guests.
const ManualPrefix = "MANUAL"

// NewCode generates a booking code of the form
// <PREFIX>-<epoch_ms>-<0..999>.  Uniqueness is probabilistic: a
// collision requires two bookings in the same millisecond drawing the
// same random suffix, and the UNIQUE constraint on booking_code
// rejects the second insert if that ever happens.
func NewCode(prefix string) (string, error) {
    n, err := rand.Int(rand.Reader, big.NewInt(1000))
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), n.Int64()), nil
}

// NewManualCode generates a MANUAL-<epoch_ms> code for admin-entered
// walk-in bookings.  These never reach the payment gateway, so no
// random suffix is needed.
func NewManualCode() string {
    return fmt.Sprintf("%s-%d", ManualPrefix, time.Now().UnixMilli())
}
