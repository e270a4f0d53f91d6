package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/events"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/gateway"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
)

// EscrowSvc owns the payment record: hold, release, refund, and the admin
// review queue. All writes happen inside the per-booking lock scope; the
// *Locked helpers are for callers already holding it.
type EscrowSvc struct {
	repo *repository.BookingRepo
	gw   gateway.Gateway
	pub  *mq.Publisher
	now  func() time.Time
}

func NewEscrowSvc(repo *repository.BookingRepo, gw gateway.Gateway, pub *mq.Publisher) *EscrowSvc {
	return &EscrowSvc{repo: repo, gw: gw, pub: pub, now: time.Now}
}

// mutateKeepFailed runs fn under the booking lock. A gateway failure inside
// fn must still commit (the FAILED payment status has to land), so it is
// captured and surfaced after the transaction instead of rolling it back.
func mutateKeepFailed(ctx context.Context, repo *repository.BookingRepo, id int64, fn func(b *domain.Booking, p *domain.Payment) error) (*domain.Booking, *domain.Payment, error) {
	var gwErr error
	b, p, err := repo.Mutate(ctx, id, func(b *domain.Booking, p *domain.Payment) error {
		if err := fn(b, p); err != nil {
			if errors.Is(err, domain.ErrGatewayFailure) {
				gwErr = err
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if gwErr != nil {
		return b, p, gwErr
	}
	return b, p, nil
}

// holdLocked captures the total amount and moves PENDING -> HELD. A payment
// already HELD is left untouched, held-at included.
func (s *EscrowSvc) holdLocked(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	switch p.Status {
	case domain.PaymentHeld:
		return nil
	case domain.PaymentPending:
	default:
		return domain.ErrInvalidTransition
	}
	ref, err := s.gw.Capture(ctx, b.ID, p.TotalAmount, p.Method, p.Account)
	if err != nil {
		p.Status = domain.PaymentFailed
		return fmt.Errorf("%w: capture: %v", domain.ErrGatewayFailure, err)
	}
	p.GatewayRef = ref
	p.Status = domain.PaymentHeld
	t := s.now()
	p.HeldAt = &t
	return nil
}

// releaseLocked pays the owner's share out and moves HELD -> COMPLETED.
func (s *EscrowSvc) releaseLocked(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	if p.Status != domain.PaymentHeld {
		return domain.ErrInvalidTransition
	}
	if err := s.gw.Payout(ctx, p.GatewayRef, p.Amount, b.OwnerID); err != nil {
		p.Status = domain.PaymentFailed
		return fmt.Errorf("%w: payout: %v", domain.ErrGatewayFailure, err)
	}
	p.Status = domain.PaymentCompleted
	p.QueuedForReview = false
	t := s.now()
	p.ReleasedAt = &t
	return nil
}

// refundLocked returns the funds to the renter. Nothing was captured for a
// PENDING payment, so only HELD refunds touch the gateway.
func (s *EscrowSvc) refundLocked(ctx context.Context, b *domain.Booking, p *domain.Payment, reason string, byAdmin bool) error {
	switch p.Status {
	case domain.PaymentPending:
	case domain.PaymentFailed:
		// a failed capture holds no funds; anything captured stays with ops
		if p.GatewayRef != "" {
			return domain.ErrInvalidTransition
		}
	case domain.PaymentHeld:
		if err := s.gw.Refund(ctx, p.GatewayRef, p.TotalAmount); err != nil {
			p.Status = domain.PaymentFailed
			return fmt.Errorf("%w: refund: %v", domain.ErrGatewayFailure, err)
		}
	default:
		return domain.ErrInvalidTransition
	}
	p.Status = domain.PaymentRefunded
	p.QueuedForReview = false
	p.RefundReason = reason
	if byAdmin {
		approved := false
		p.AdminApproved = &approved
		t := s.now()
		p.AdminApprovedAt = &t
		p.AdminRejectionReason = reason
	}
	return nil
}

func (s *EscrowSvc) queueLocked(p *domain.Payment) error {
	if p.Status != domain.PaymentHeld {
		return domain.ErrInvalidTransition
	}
	p.QueuedForReview = true
	return nil
}

// Hold is the standalone ledger operation; accepting a booking holds the
// payment in the same transaction instead.
func (s *EscrowSvc) Hold(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	b, p, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		return s.holdLocked(ctx, b, p)
	})
	if err != nil && errors.Is(err, domain.ErrGatewayFailure) {
		s.publishFailed(ctx, b, "capture", err)
		return p, err
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *EscrowSvc) Release(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	b, p, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		return s.releaseLocked(ctx, b, p)
	})
	if err != nil && errors.Is(err, domain.ErrGatewayFailure) {
		s.publishFailed(ctx, b, "payout", err)
		return p, err
	}
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKPaymentApproved, events.PaymentApproved{
		BookingID:   b.ID,
		OwnerPayout: p.Amount,
		ServiceFee:  p.ServiceFee,
		TotalAmount: p.TotalAmount,
	})
	return p, nil
}

func (s *EscrowSvc) Refund(ctx context.Context, bookingID int64, reason string) (*domain.Payment, error) {
	b, p, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		return s.refundLocked(ctx, b, p, reason, false)
	})
	if err != nil && errors.Is(err, domain.ErrGatewayFailure) {
		s.publishFailed(ctx, b, "refund", err)
		return p, err
	}
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKPaymentRejected, events.PaymentRejected{
		BookingID: b.ID,
		Refunded:  p.TotalAmount,
		Reason:    reason,
	})
	return p, nil
}

// QueueForAdjudication surfaces a HELD payment in the admin worklist without
// changing its status.
func (s *EscrowSvc) QueueForAdjudication(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	_, p, err := s.repo.Mutate(ctx, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		return s.queueLocked(p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *EscrowSvc) publishFailed(ctx context.Context, b *domain.Booking, stage string, cause error) {
	if b == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, events.RKPaymentFailed, events.PaymentFailed{
		BookingID: b.ID,
		Stage:     stage,
		Reason:    cause.Error(),
	})
}
