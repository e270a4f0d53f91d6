package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
)

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateBookingInput
	}{
		{"missing owner", CreateBookingInput{RentalItemID: "item-1", Amount: 100, Method: "EVC_PLUS", Account: "612345678"}},
		{"self rental", CreateBookingInput{OwnerID: "renter-1", RentalItemID: "item-1", Amount: 100, Method: "EVC_PLUS", Account: "612345678"}},
		{"zero amount", CreateBookingInput{OwnerID: "owner-1", RentalItemID: "item-1", Amount: 0, Method: "EVC_PLUS", Account: "612345678"}},
		{"negative fee", CreateBookingInput{OwnerID: "owner-1", RentalItemID: "item-1", Amount: 100, ServiceFee: -1, Method: "EVC_PLUS", Account: "612345678"}},
		{"evc too short", CreateBookingInput{OwnerID: "owner-1", RentalItemID: "item-1", Amount: 100, Method: "EVC_PLUS", Account: "61234567"}},
		{"evc not digits", CreateBookingInput{OwnerID: "owner-1", RentalItemID: "item-1", Amount: 100, Method: "EVC_PLUS", Account: "61234567a"}},
		{"bank too short", CreateBookingInput{OwnerID: "owner-1", RentalItemID: "item-1", Amount: 100, Method: "BANK", Account: "123456789"}},
		{"unknown method", CreateBookingInput{OwnerID: "owner-1", RentalItemID: "item-1", Amount: 100, Method: "CASH", Account: "612345678"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.booking.Create(ctx, "renter-1", tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateOpensPendingEscrow(t *testing.T) {
	f := newFixture(t, false)
	b := f.createBooking(10000, 1500)

	if b.Status != domain.BookingPending {
		t.Fatalf("booking status = %s, want PENDING", b.Status)
	}
	if b.ConfirmationCode != "" || b.CodeExpiry != nil {
		t.Fatal("pending booking must not carry a confirmation code")
	}
	p := f.payment(b.ID)
	if p.Status != domain.PaymentPending {
		t.Fatalf("payment status = %s, want PENDING", p.Status)
	}
	if p.TotalAmount != 11500 {
		t.Fatalf("total = %d, want 11500", p.TotalAmount)
	}
	if len(f.gw.Captures) != 0 {
		t.Fatal("no funds may be captured before acceptance")
	}
}

func TestAcceptHoldsFundsAndIssuesCode(t *testing.T) {
	f := newFixture(t, false)
	b := f.createBooking(10000, 1500)

	b, err := f.booking.Accept(context.Background(), "owner-1", b.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if b.Status != domain.BookingAccepted {
		t.Fatalf("status = %s, want ACCEPTED", b.Status)
	}
	if b.ConfirmationCode != testCode {
		t.Fatalf("code = %q, want %q", b.ConfirmationCode, testCode)
	}
	wantExpiry := f.clock.Now().Add(24 * time.Hour)
	if b.CodeExpiry == nil || !b.CodeExpiry.Equal(wantExpiry) {
		t.Fatalf("expiry = %v, want %v", b.CodeExpiry, wantExpiry)
	}
	p := f.payment(b.ID)
	if p.Status != domain.PaymentHeld {
		t.Fatalf("payment status = %s, want HELD", p.Status)
	}
	if p.HeldAt == nil {
		t.Fatal("held_at not set")
	}
	if len(f.gw.Captures) != 1 || f.gw.Captures[0].Amount != 11500 {
		t.Fatalf("captures = %+v, want one capture of 11500", f.gw.Captures)
	}
}

func TestAcceptOnlyOwnerOnlyPending(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	if _, err := f.booking.Accept(ctx, "renter-1", b.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("renter accept: want ErrForbidden, got %v", err)
	}
	if _, err := f.booking.Accept(ctx, "owner-1", b.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.booking.Accept(ctx, "owner-1", b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second accept: want ErrInvalidTransition, got %v", err)
	}
	if len(f.gw.Captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(f.gw.Captures))
	}
}

func TestAcceptCaptureFailureKeepsBookingPending(t *testing.T) {
	f := newFixture(t, false)
	b := f.createBooking(10000, 1500)
	f.gw.FailCapture = true

	_, err := f.booking.Accept(context.Background(), "owner-1", b.ID)
	if !errors.Is(err, domain.ErrGatewayFailure) {
		t.Fatalf("want ErrGatewayFailure, got %v", err)
	}
	// the FAILED status must land even though the call errored
	if p := f.payment(b.ID); p.Status != domain.PaymentFailed {
		t.Fatalf("payment status = %s, want FAILED", p.Status)
	}
	got := f.bookingRow(b.ID)
	if got.Status != domain.BookingPending {
		t.Fatalf("booking status = %s, want PENDING", got.Status)
	}
	if got.ConfirmationCode != "" {
		t.Fatal("no code may be issued on capture failure")
	}
}

func TestRejectRefundsAndRecordsReason(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	b, err := f.booking.Reject(ctx, "owner-1", b.ID, "item unavailable")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if b.Status != domain.BookingRejected {
		t.Fatalf("status = %s, want REJECTED", b.Status)
	}
	if b.RejectionReason != "item unavailable" {
		t.Fatalf("reason = %q", b.RejectionReason)
	}
	if b.ConfirmationCode != "" || b.CodeExpiry != nil {
		t.Fatal("rejected booking must not carry a code")
	}
	p := f.payment(b.ID)
	if p.Status != domain.PaymentRefunded {
		t.Fatalf("payment status = %s, want REFUNDED", p.Status)
	}
	// nothing was captured, so nothing goes through the gateway
	if len(f.gw.Refunds) != 0 {
		t.Fatalf("refund calls = %d, want 0", len(f.gw.Refunds))
	}
	if !b.Status.Terminal() {
		t.Fatal("REJECTED must be terminal")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t, false)
	b := f.createBooking(10000, 1500)

	if _, err := f.booking.Reject(context.Background(), "owner-1", b.ID, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if got := f.bookingRow(b.ID); got.Status != domain.BookingPending {
		t.Fatalf("status = %s, want PENDING untouched", got.Status)
	}
}

func TestRejectAfterFailedCapture(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.createBooking(10000, 1500)

	f.gw.FailCapture = true
	if _, err := f.booking.Accept(ctx, "owner-1", b.ID); !errors.Is(err, domain.ErrGatewayFailure) {
		t.Fatalf("accept: want ErrGatewayFailure, got %v", err)
	}
	f.gw.FailCapture = false

	// nothing was captured, the owner can still close the booking out
	b2, err := f.booking.Reject(ctx, "owner-1", b.ID, "payment did not go through")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if b2.Status != domain.BookingRejected {
		t.Fatalf("status = %s, want REJECTED", b2.Status)
	}
	if p := f.payment(b.ID); p.Status != domain.PaymentRefunded {
		t.Fatalf("payment = %s, want REFUNDED", p.Status)
	}
	if len(f.gw.Refunds) != 0 {
		t.Fatal("no gateway refund for an uncaptured payment")
	}
}

func TestRejectAfterAcceptIsInvalid(t *testing.T) {
	f := newFixture(t, false)
	b := f.acceptedBooking(10000, 1500)

	if _, err := f.booking.Reject(context.Background(), "owner-1", b.ID, "changed my mind"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestDisputeQueuesHeldPayment(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.acceptedBooking(10000, 1500)

	b, err := f.booking.Dispute(ctx, "renter-1", b.ID, "item damaged on arrival")
	if err != nil {
		t.Fatalf("dispute: %v", err)
	}
	if b.Status != domain.BookingDisputed {
		t.Fatalf("status = %s, want DISPUTED", b.Status)
	}
	p := f.payment(b.ID)
	if p.Status != domain.PaymentHeld || !p.QueuedForReview {
		t.Fatalf("payment = %s queued=%v, want HELD queued", p.Status, p.QueuedForReview)
	}

	if _, err := f.booking.Dispute(ctx, "someone-else", b.ID, "x"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider dispute: want ErrForbidden, got %v", err)
	}
}

func TestGetRedactsCodeForAdmins(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.acceptedBooking(10000, 1500)

	snap, err := f.booking.Get(ctx, "renter-1", false, b.ID)
	if err != nil {
		t.Fatalf("get as renter: %v", err)
	}
	if snap.ConfirmationCode != testCode {
		t.Fatalf("renter view code = %q, want %q", snap.ConfirmationCode, testCode)
	}

	snap, err = f.booking.Get(ctx, "some-admin", true, b.ID)
	if err != nil {
		t.Fatalf("get as admin: %v", err)
	}
	if snap.ConfirmationCode != "" {
		t.Fatal("admin view must redact the code")
	}

	if _, err := f.booking.Get(ctx, "outsider", false, b.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider get: want ErrForbidden, got %v", err)
	}
	if _, err := f.booking.Get(ctx, "renter-1", false, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing booking: want ErrNotFound, got %v", err)
	}
}
