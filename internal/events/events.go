package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published on the rental topic exchange.
const (
	RKBookingCreated  = "booking.created"
	RKBookingAccepted = "booking.accepted"
	RKBookingRejected = "booking.rejected"
	RKBookingDisputed = "booking.disputed"

	RKDeliveryConfirmed = "delivery.confirmed"

	RKPaymentApproved = "payment.approved"
	RKPaymentRejected = "payment.rejected"
	RKPaymentFailed   = "payment.failed"
)

type BookingCreated struct {
	BookingID   int64  `json:"booking_id"`
	RenterID    string `json:"renter_id"`
	OwnerID     string `json:"owner_id"`
	ItemID      string `json:"rental_item_id"`
	TotalAmount int64  `json:"total_amount"`
}

type BookingAccepted struct {
	BookingID  int64 `json:"booking_id"`
	CodeExpiry int64 `json:"code_expiry"` // unix seconds
}

type BookingRejected struct {
	BookingID int64  `json:"booking_id"`
	Reason    string `json:"reason"`
}

type BookingDisputed struct {
	BookingID int64  `json:"booking_id"`
	Reason    string `json:"reason"`
}

type DeliveryConfirmed struct {
	BookingID       int64 `json:"booking_id"`
	RenterConfirmed bool  `json:"renter_confirmed"`
	OwnerConfirmed  bool  `json:"owner_confirmed"`
	Override        bool  `json:"override"`
}

// PaymentApproved covers both the auto-release path and admin approval.
type PaymentApproved struct {
	BookingID   int64 `json:"booking_id"`
	OwnerPayout int64 `json:"owner_payout"`
	ServiceFee  int64 `json:"service_fee"`
	TotalAmount int64 `json:"total_amount"`
}

type PaymentRejected struct {
	BookingID int64  `json:"booking_id"`
	Refunded  int64  `json:"refunded"`
	Reason    string `json:"reason"`
}

type PaymentFailed struct {
	BookingID int64  `json:"booking_id"`
	Stage     string `json:"stage"` // capture | payout | refund
	Reason    string `json:"reason"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
