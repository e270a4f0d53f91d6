package domain

import "time"

// Snapshot is the wire shape of a booking plus its escrow record, exposed to
// callers as one flat document.
type Snapshot struct {
	BookingID    int64         `json:"booking_id"`
	Status       BookingStatus `json:"status"`
	RenterID     string        `json:"renter_id"`
	OwnerID      string        `json:"owner_id"`
	RentalItemID string        `json:"rental_item_id"`

	PaymentAmount int64         `json:"payment_amount"`
	ServiceFee    int64         `json:"service_fee"`
	TotalAmount   int64         `json:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	ConfirmationCode string     `json:"confirmation_code,omitempty"`
	CodeExpiry       *time.Time `json:"code_expiry,omitempty"`
	RenterConfirmed  bool       `json:"renter_confirmed"`
	OwnerConfirmed   bool       `json:"owner_confirmed"`

	OwnerAcceptanceTime *time.Time `json:"owner_acceptance_time,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	PaymentHeldAt       *time.Time `json:"payment_held_at,omitempty"`
	PaymentReleasedAt   *time.Time `json:"payment_released_at,omitempty"`

	AdminApproved        *bool  `json:"admin_approved,omitempty"`
	AdminRejectionReason string `json:"admin_rejection_reason,omitempty"`
}

// NewSnapshot flattens a booking/payment pair. The confirmation code is
// included only for the two parties; callers pass redact=true for anyone else.
func NewSnapshot(b *Booking, p *Payment, redact bool) Snapshot {
	s := Snapshot{
		BookingID:            b.ID,
		Status:               b.Status,
		RenterID:             b.RenterID,
		OwnerID:              b.OwnerID,
		RentalItemID:         b.RentalItemID,
		PaymentAmount:        p.Amount,
		ServiceFee:           p.ServiceFee,
		TotalAmount:          p.TotalAmount,
		PaymentStatus:        p.Status,
		ConfirmationCode:     b.ConfirmationCode,
		CodeExpiry:           b.CodeExpiry,
		RenterConfirmed:      b.RenterConfirmed,
		OwnerConfirmed:       b.OwnerConfirmed,
		OwnerAcceptanceTime:  b.OwnerAcceptedAt,
		CreatedAt:            b.CreatedAt,
		PaymentHeldAt:        p.HeldAt,
		PaymentReleasedAt:    p.ReleasedAt,
		AdminApproved:        p.AdminApproved,
		AdminRejectionReason: p.AdminRejectionReason,
	}
	if redact {
		s.ConfirmationCode = ""
	}
	return s
}

// PartySnapshot is the renter/owner identity block in the admin worklist.
type PartySnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HeldPayment is one admin worklist entry: a HELD payment queued for review
// together with identity snapshots and the requirements submitted at booking.
type HeldPayment struct {
	BookingID        int64         `json:"booking_id"`
	RentalItemID     string        `json:"rental_item_id"`
	Renter           PartySnapshot `json:"renter"`
	Owner            PartySnapshot `json:"owner"`
	PaymentAmount    int64         `json:"payment_amount"`
	ServiceFee       int64         `json:"service_fee"`
	TotalAmount      int64         `json:"total_amount"`
	Method           string        `json:"payment_method"`
	HeldAt           *time.Time    `json:"payment_held_at,omitempty"`
	RequirementsData string        `json:"requirements_data,omitempty"`
	DisputeReason    string        `json:"dispute_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Receipt is the fee breakdown emitted when an admin approves a release.
type Receipt struct {
	BookingID   int64 `json:"booking_id"`
	OwnerPayout int64 `json:"owner_payout"`
	ServiceFee  int64 `json:"service_fee"`
	TotalAmount int64 `json:"total_amount"`
}
