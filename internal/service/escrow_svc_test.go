package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
)

func TestHoldIsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	p1, err := f.escrow.Hold(ctx, b.ID)
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if p1.Status != domain.PaymentHeld {
		t.Fatalf("payment = %s, want HELD", p1.Status)
	}
	p2, err := f.escrow.Hold(ctx, b.ID)
	if err != nil {
		t.Fatalf("second hold: %v", err)
	}
	if len(f.gw.Captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(f.gw.Captures))
	}
	if !p2.HeldAt.Equal(*p1.HeldAt) || p2.GatewayRef != p1.GatewayRef {
		t.Fatal("repeat hold must not alter the original capture")
	}
}

func TestHoldCaptureFailure(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)
	f.gw.FailCapture = true

	_, err := f.escrow.Hold(ctx, b.ID)
	if !errors.Is(err, domain.ErrGatewayFailure) {
		t.Fatalf("want ErrGatewayFailure, got %v", err)
	}
	if p := f.payment(b.ID); p.Status != domain.PaymentFailed {
		t.Fatalf("payment = %s, want FAILED committed", p.Status)
	}
	// a failed payment cannot be held again
	if _, err := f.escrow.Hold(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("hold after failure: want ErrInvalidTransition, got %v", err)
	}
}

func TestReleaseRequiresHeld(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	if _, err := f.escrow.Release(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("release pending: want ErrInvalidTransition, got %v", err)
	}
	if _, err := f.escrow.Hold(ctx, b.ID); err != nil {
		t.Fatalf("hold: %v", err)
	}
	p, err := f.escrow.Release(ctx, b.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if p.Status != domain.PaymentCompleted || p.ReleasedAt == nil {
		t.Fatalf("payment = %s released=%v", p.Status, p.ReleasedAt)
	}
	if _, err := f.escrow.Release(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("double release: want ErrInvalidTransition, got %v", err)
	}
}

func TestRefundPendingSkipsGateway(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	p, err := f.escrow.Refund(ctx, b.ID, "owner declined")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if p.Status != domain.PaymentRefunded {
		t.Fatalf("payment = %s, want REFUNDED", p.Status)
	}
	if p.RefundReason != "owner declined" {
		t.Fatalf("refund reason = %q, want it recorded on the payment", p.RefundReason)
	}
	if len(f.gw.Refunds) != 0 {
		t.Fatal("nothing was captured, gateway must not be called")
	}
}

func TestRefundHeldReturnsFullAmount(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	if _, err := f.escrow.Hold(ctx, b.ID); err != nil {
		t.Fatalf("hold: %v", err)
	}
	p, err := f.escrow.Refund(ctx, b.ID, "owner declined")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if p.Status != domain.PaymentRefunded {
		t.Fatalf("payment = %s, want REFUNDED", p.Status)
	}
	if got := f.payment(b.ID); got.RefundReason != "owner declined" {
		t.Fatalf("stored refund reason = %q", got.RefundReason)
	}
	// the renter gets fee and all back
	if len(f.gw.Refunds) != 1 || f.gw.Refunds[0].Amount != 11500 {
		t.Fatalf("refunds = %+v, want one refund of 11500", f.gw.Refunds)
	}
	if _, err := f.escrow.Refund(ctx, b.ID, "again"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("double refund: want ErrInvalidTransition, got %v", err)
	}
}

func TestQueueForAdjudicationRequiresHeld(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	if _, err := f.escrow.QueueForAdjudication(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("queue pending: want ErrInvalidTransition, got %v", err)
	}
	if _, err := f.escrow.Hold(ctx, b.ID); err != nil {
		t.Fatalf("hold: %v", err)
	}
	p, err := f.escrow.QueueForAdjudication(ctx, b.ID)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if p.Status != domain.PaymentHeld || !p.QueuedForReview {
		t.Fatalf("payment = %s queued=%v, want HELD queued", p.Status, p.QueuedForReview)
	}
}

func TestEscrowUnknownBooking(t *testing.T) {
	f := newFixture(t, false)
	if _, err := f.escrow.Hold(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
