package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/events"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
)

// AdminSvc adjudicates held payments: approve releases to the owner, reject
// refunds the renter. Either way the decision and its reason are recorded.
type AdminSvc struct {
	repo   *repository.BookingRepo
	escrow *EscrowSvc
	pub    *mq.Publisher
	now    func() time.Time
}

func NewAdminSvc(repo *repository.BookingRepo, escrow *EscrowSvc, pub *mq.Publisher) *AdminSvc {
	return &AdminSvc{repo: repo, escrow: escrow, pub: pub, now: time.Now}
}

func (s *AdminSvc) ListHeld(ctx context.Context) ([]domain.HeldPayment, error) {
	return s.repo.ListHeldQueued(ctx)
}

// Approve releases a held payment to the owner and completes the booking.
func (s *AdminSvc) Approve(ctx context.Context, bookingID int64) (domain.Receipt, error) {
	b, p, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if p.Status != domain.PaymentHeld {
			return domain.ErrAlreadyResolved
		}
		if err := s.escrow.releaseLocked(ctx, b, p); err != nil {
			return err
		}
		approved := true
		p.AdminApproved = &approved
		t := s.now()
		p.AdminApprovedAt = &t
		b.Status = domain.BookingCompleted
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			s.escrow.publishFailed(ctx, b, "payout", err)
		}
		return domain.Receipt{}, err
	}
	log.Printf("[admin] payment approved booking=%d payout=%d fee=%d total=%d",
		b.ID, p.Amount, p.ServiceFee, p.TotalAmount)
	_ = s.pub.PublishJSON(ctx, events.RKPaymentApproved, events.PaymentApproved{
		BookingID:   b.ID,
		OwnerPayout: p.Amount,
		ServiceFee:  p.ServiceFee,
		TotalAmount: p.TotalAmount,
	})
	return domain.Receipt{
		BookingID:   b.ID,
		OwnerPayout: p.Amount,
		ServiceFee:  p.ServiceFee,
		TotalAmount: p.TotalAmount,
	}, nil
}

// Reject refunds a held payment to the renter, recording the reason.
func (s *AdminSvc) Reject(ctx context.Context, bookingID int64, reason string) (*domain.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}
	b, p, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if p.Status != domain.PaymentHeld {
			return domain.ErrAlreadyResolved
		}
		if err := s.escrow.refundLocked(ctx, b, p, reason, true); err != nil {
			return err
		}
		b.Status = domain.BookingRefunded
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			s.escrow.publishFailed(ctx, b, "refund", err)
		}
		return p, err
	}
	log.Printf("[admin] payment rejected booking=%d refunded=%d reason=%q", b.ID, p.TotalAmount, reason)
	_ = s.pub.PublishJSON(ctx, events.RKPaymentRejected, events.PaymentRejected{
		BookingID: b.ID,
		Refunded:  p.TotalAmount,
		Reason:    reason,
	})
	return p, nil
}
