// Package payment talks to the Snap-style payment gateway: requesting
// checkout session tokens for new bookings and verifying/mapping the
// asynchronous status notifications the gateway posts back.
package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// TransactionDetails identifies the order for the gateway.  OrderID is
// the booking code; the webhook echoes it back so the reconciler can
// find the reservation again.
type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

// CustomerDetails carries the guest contact the gateway shows on the
// hosted payment page.
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ItemDetail is one line item of the transaction.
type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// TransactionRequest is the gateway's transaction-creation payload.
type TransactionRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
}

// Session is the opaque checkout session handed back to the guest.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type gatewayError struct {
	ErrorMessages []string `json:"error_messages"`
}

// Client is the server-side token broker.  It authenticates with the
// merchant server key over basic auth; the key never reaches the
// browser.
type Client struct {
	http      *resty.Client
	serverKey string
	logger    *zap.Logger
}

// NewClient builds a gateway client.  Transient failures are retried a
// few times; a request that still fails is surfaced to the caller,
// which must abandon the pending reservation (the sweeper reclaims it
// later).
func NewClient(baseURL, serverKey string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: httpClient, serverKey: serverKey, logger: logger}
}

// CreateTransaction asks the gateway for a checkout session.  It must
// only be called after the reservation row exists in pending_payment
// state, so the notification webhook always has a booking code to
// match against.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*Session, error) {
	var (
		session Session
		gwErr   gatewayError
	)
	c.logger.Info("requesting payment session",
		zap.String("order_id", req.TransactionDetails.OrderID),
		zap.Int64("gross_amount", req.TransactionDetails.GrossAmount),
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.serverKey, "").
		SetBody(req).
		SetResult(&session).
		SetError(&gwErr).
		Post("/snap/v1/transactions")
	if err != nil {
		c.logger.Error("payment gateway call failed", zap.Error(err))
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		c.logger.Error("payment gateway rejected transaction",
			zap.Int("status_code", resp.StatusCode()),
			zap.Strings("messages", gwErr.ErrorMessages),
		)
		return nil, fmt.Errorf("payment gateway: status %d", resp.StatusCode())
	}
	if session.Token == "" {
		return nil, fmt.Errorf("payment gateway: empty token in response")
	}
	return &session, nil
}
