package payment

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/kinarahotels/reservation-server/internal/model"
)

const testServerKey = "SB-Mid-server-testkey"

func signedNotification(orderID, txStatus, fraudStatus string) Notification {
    n := Notification{
        OrderID:           orderID,
        TransactionStatus: txStatus,
        FraudStatus:       fraudStatus,
        StatusCode:        "200",
        GrossAmount:       "1500000.00",
    }
    n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
    return n
}

func TestVerifySignature(t *testing.T) {
    n := signedNotification("KNA-1700000000000-42", "settlement", "")
    assert.True(t, n.VerifySignature(testServerKey))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
    n := signedNotification("KNA-1700000000000-42", "settlement", "")

    tampered := n
    tampered.GrossAmount = "1.00"
    assert.False(t, tampered.VerifySignature(testServerKey))

    wrongKey := n
    assert.False(t, wrongKey.VerifySignature("some-other-key"))

    empty := n
    empty.SignatureKey = ""
    assert.False(t, empty.VerifySignature(testServerKey))
}

func TestMapStatus(t *testing.T) {
    cases := []struct {
        txStatus    string
        fraudStatus string
        want        model.ReservationStatus
        actionable  bool
    }{
        {"capture", "accept", model.StatusPaid, true},
        {"capture", "challenge", model.StatusPendingPayment, true},
        {"capture", "deny", "", false},
        {"settlement", "", model.StatusPaid, true},
        {"pending", "", model.StatusPendingPayment, true},
        {"cancel", "", model.StatusCancelled, true},
        {"deny", "", model.StatusCancelled, true},
        {"expire", "", model.StatusCancelled, true},
        {"refund", "", "", false},
        {"", "", "", false},
    }
    for _, tc := range cases {
        n := Notification{TransactionStatus: tc.txStatus, FraudStatus: tc.fraudStatus}
        got, ok := n.MapStatus()
        assert.Equal(t, tc.actionable, ok, "%s/%s", tc.txStatus, tc.fraudStatus)
        assert.Equal(t, tc.want, got, "%s/%s", tc.txStatus, tc.fraudStatus)
    }
}
