package payment

import (
    "crypto/sha512"
    "crypto/subtle"
    "encoding/hex"

    "github.com/kinarahotels/reservation-server/internal/model"
)

// Notification is the status callback the gateway posts to the
// webhook endpoint.  GrossAmount and StatusCode arrive as strings in
// the gateway's JSON.
type Notification struct {
    OrderID           string `json:"order_id"`
    TransactionID     string `json:"transaction_id"`
    TransactionStatus string `json:"transaction_status"`
    FraudStatus       string `json:"fraud_status"`
    StatusCode        string `json:"status_code"`
    GrossAmount       string `json:"gross_amount"`
    SignatureKey      string `json:"signature_key"`
    PaymentType       string `json:"payment_type"`
}

// Signature computes the expected signature for the notification:
// sha512(order_id + status_code + gross_amount + server_key), hex
// encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
    sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
    return hex.EncodeToString(sum[:])
}

// VerifySignature reports whether the notification's signature_key
// matches the merchant server key.  The comparison is constant time.
func (n Notification) VerifySignature(serverKey string) bool {
    want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
    return subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) == 1
}

// MapStatus translates the gateway transaction/fraud status pair into
// the reservation status it implies.  The second return value is
// false for statuses the reconciler should acknowledge but not act on
// (unrecognized values, and capture held for fraud review which keeps
// the reservation pending).
//
//	capture + challenge      -> pending_payment
//	capture + accept         -> paid
//	settlement               -> paid
//	cancel / deny / expire   -> cancelled
//	pending                  -> pending_payment
//	anything else            -> no update
func (n Notification) MapStatus() (model.ReservationStatus, bool) {
    switch n.TransactionStatus {
    case "capture":
        switch n.FraudStatus {
        case "challenge":
            return model.StatusPendingPayment, true
        case "accept":
            return model.StatusPaid, true
        }
        return "", false
    case "settlement":
        return model.StatusPaid, true
    case "cancel", "deny", "expire":
        return model.StatusCancelled, true
    case "pending":
        return model.StatusPendingPayment, true
    }
    return "", false
}
