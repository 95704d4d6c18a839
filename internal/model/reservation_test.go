package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestReservationStatusTransitions(t *testing.T) {
    all := []ReservationStatus{
        StatusPendingPayment, StatusPaid, StatusCheckedIn, StatusCheckedOut, StatusCancelled,
    }
    allowed := map[ReservationStatus]map[ReservationStatus]bool{
        StatusPendingPayment: {StatusPaid: true, StatusCancelled: true},
        StatusPaid:           {StatusCheckedIn: true},
        StatusCheckedIn:      {StatusCheckedOut: true},
    }
    for _, from := range all {
        for _, to := range all {
            want := allowed[from][to]
            assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
        }
    }
}

func TestReservationStatusTerminal(t *testing.T) {
    assert.True(t, StatusCheckedOut.Terminal())
    assert.True(t, StatusCancelled.Terminal())
    assert.False(t, StatusPendingPayment.Terminal())
    assert.False(t, StatusPaid.Terminal())
    assert.False(t, StatusCheckedIn.Terminal())
}

func TestReservationStatusValid(t *testing.T) {
    assert.True(t, StatusPaid.Valid())
    assert.False(t, ReservationStatus("refunded").Valid())
    assert.False(t, ReservationStatus("").Valid())
}
