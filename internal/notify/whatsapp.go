// Package notify sends guest-facing WhatsApp messages through a
// third-party messaging API.  Delivery is best effort: a failure here
// never rolls back or blocks a payment-status update.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client posts messages to the WhatsApp API.  The API key is sent in
// the Authorization header as the provider documents.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient builds a messaging client against the provider base URL.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		SetHeader("Authorization", apiKey).
		SetHeader("Content-Type", "application/json")
	return &Client{http: httpClient, logger: logger}
}

type sendRequest struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// SendBookingConfirmation formats and posts the payment confirmation
// message for one booking.
func (c *Client) SendBookingConfirmation(ctx context.Context, phone, guestName, bookingCode string, totalPrice int64, checkIn, checkOut string) error {
	msg := fmt.Sprintf(
		"Hi %s, your payment is confirmed!\nBooking code: %s\nCheck-in: %s\nCheck-out: %s\nTotal: %d\nWe look forward to welcoming you.",
		guestName, bookingCode, checkIn, checkOut, totalPrice)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{Target: phone, Message: msg}).
		Post("/send")
	if err != nil {
		c.logger.Error("whatsapp send failed", zap.String("booking_code", bookingCode), zap.Error(err))
		return fmt.Errorf("whatsapp send: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("whatsapp api returned error",
			zap.String("booking_code", bookingCode),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("whatsapp send: status %d", resp.StatusCode())
	}
	c.logger.Info("whatsapp confirmation sent", zap.String("booking_code", bookingCode))
	return nil
}
