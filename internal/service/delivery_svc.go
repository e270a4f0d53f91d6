package service

import (
	"context"
	"errors"
	"time"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/events"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
)

// DeliverySvc runs the two-sided confirmation exchange. Both parties submit
// the one code issued at acceptance; the renter's side is open only while
// the 24h window runs, after which the owner may confirm alone. Expiry is
// checked lazily at submission time, there is no timer.
type DeliverySvc struct {
	repo    *repository.BookingRepo
	booking *BookingSvc
	pub     *mq.Publisher
	now     func() time.Time
}

func NewDeliverySvc(repo *repository.BookingRepo, booking *BookingSvc, pub *mq.Publisher) *DeliverySvc {
	return &DeliverySvc{repo: repo, booking: booking, pub: pub, now: time.Now}
}

// RenterConfirm records the renter's side. Wrong codes are rejected without
// state change and may be retried until the window closes; a repeat after
// success is a no-op. Once the window has expired only the owner's override
// path remains.
func (s *DeliverySvc) RenterConfirm(ctx context.Context, actorID string, bookingID int64, code string) (*domain.Booking, error) {
	b, _, err := s.repo.Mutate(ctx, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if b.RenterID != actorID {
			return domain.ErrForbidden
		}
		if b.Status != domain.BookingAccepted {
			return domain.ErrInvalidTransition
		}
		if code == "" || code != b.ConfirmationCode {
			return domain.ErrCodeMismatch
		}
		if b.RenterConfirmed {
			return nil
		}
		if b.CodeExpiry == nil || !s.now().Before(*b.CodeExpiry) {
			return domain.ErrCodeExpired
		}
		b.RenterConfirmed = true
		t := s.now()
		b.RenterConfirmedAt = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// OwnerConfirm records the owner's side and closes the exchange. The owner is
// eligible once the renter has confirmed, or unilaterally once the window has
// expired.
func (s *DeliverySvc) OwnerConfirm(ctx context.Context, actorID string, bookingID int64, code string) (*domain.Booking, error) {
	var override bool
	b, p, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if b.OwnerID != actorID {
			return domain.ErrForbidden
		}
		if b.Status != domain.BookingAccepted {
			return domain.ErrInvalidTransition
		}
		if !b.RenterConfirmed && s.now().Before(*b.CodeExpiry) {
			return domain.ErrNotYetEligible
		}
		if code == "" || code != b.ConfirmationCode {
			return domain.ErrCodeMismatch
		}
		override = !b.RenterConfirmed
		b.OwnerConfirmed = true
		t := s.now()
		b.OwnerConfirmedAt = &t
		return s.booking.markDeliveredLocked(ctx, b, p)
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			s.booking.escrow.publishFailed(ctx, b, "payout", err)
		}
		return b, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKDeliveryConfirmed, events.DeliveryConfirmed{
		BookingID:       b.ID,
		RenterConfirmed: b.RenterConfirmed,
		OwnerConfirmed:  b.OwnerConfirmed,
		Override:        override,
	})
	if p.Status == domain.PaymentCompleted {
		_ = s.pub.PublishJSON(ctx, events.RKPaymentApproved, events.PaymentApproved{
			BookingID:   b.ID,
			OwnerPayout: p.Amount,
			ServiceFee:  p.ServiceFee,
			TotalAmount: p.TotalAmount,
		})
	}
	return b, nil
}

// Status reports the confirmation flags to either party.
func (s *DeliverySvc) Status(ctx context.Context, actorID string, bookingID int64) (renter, owner bool, deliveredAt *time.Time, err error) {
	b, _, err := s.repo.ByID(ctx, bookingID)
	if err != nil {
		return false, false, nil, err
	}
	if b.RenterID != actorID && b.OwnerID != actorID {
		return false, false, nil, domain.ErrForbidden
	}
	return b.RenterConfirmed, b.OwnerConfirmed, b.OwnerConfirmedAt, nil
}
