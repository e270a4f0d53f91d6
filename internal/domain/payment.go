package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentHeld      PaymentStatus = "HELD"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment is the escrow record, 1:1 with its booking. Amounts are integer
// cents. Mutated only inside the same lock scope as the booking row.
type Payment struct {
	BookingID int64 `gorm:"primaryKey;autoIncrement:false"`

	Amount      int64 // goes to the owner on release
	ServiceFee  int64 // kept by the platform
	TotalAmount int64 // Amount + ServiceFee, checked on every write

	Method  string // EVC_PLUS | BANK | CARD
	Account string
	// Gateway capture reference, set when funds are held.
	GatewayRef string

	Status PaymentStatus `gorm:"index"`
	// HELD payments with this flag set appear in the admin worklist.
	QueuedForReview bool `gorm:"index"`

	HeldAt     *time.Time
	ReleasedAt *time.Time

	// Why the funds went back, for any refund path.
	RefundReason string

	AdminApproved        *bool
	AdminApprovedAt      *time.Time
	AdminRejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Consistent reports whether the money invariant holds.
func (p *Payment) Consistent() bool {
	return p.TotalAmount == p.Amount+p.ServiceFee
}

// Resolved reports whether the payment has left escrow for good.
func (p *Payment) Resolved() bool {
	switch p.Status {
	case PaymentCompleted, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}
