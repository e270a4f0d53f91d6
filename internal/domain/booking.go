package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingDelivered BookingStatus = "DELIVERED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingDisputed  BookingStatus = "DISPUTED"
	BookingRefunded  BookingStatus = "REFUNDED"
)

// Terminal reports whether no further transition may leave s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingRejected, BookingCompleted, BookingRefunded:
		return true
	}
	return false
}

// Booking is the rental agreement between a renter and an item owner.
// Rows are never deleted; terminal bookings are kept for audit.
type Booking struct {
	ID           int64         `gorm:"primaryKey"`
	RenterID     string        `gorm:"index"`
	OwnerID      string        `gorm:"index"`
	RentalItemID string        `gorm:"index"`
	Status       BookingStatus `gorm:"index"`

	// Set only when the owner rejects the booking.
	RejectionReason string

	// Free-form JSON submitted with the booking form (renter requirements).
	RequirementsData string

	// Delivery confirmation exchange. Code and expiry exist only once the
	// owner has accepted; a rejected booking never gets a code.
	ConfirmationCode  string
	CodeExpiry        *time.Time
	RenterConfirmed   bool
	OwnerConfirmed    bool
	RenterConfirmedAt *time.Time
	OwnerConfirmedAt  *time.Time

	OwnerAcceptedAt *time.Time
	DisputeReason   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
