package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/events"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
)

// codeTTL is the confirmation window opened at acceptance. Once it elapses
// the owner may confirm delivery without the renter.
const codeTTL = 24 * time.Hour

// BookingSvc is the booking state machine. Every transition runs under the
// per-booking lock together with its payment row.
type BookingSvc struct {
	repo   *repository.BookingRepo
	escrow *EscrowSvc
	pub    *mq.Publisher
	codes  CodeSource
	now    func() time.Time

	// queue every held payment for admin review instead of auto-releasing
	adjudicateAll bool
}

func NewBookingSvc(repo *repository.BookingRepo, escrow *EscrowSvc, pub *mq.Publisher, codes CodeSource, adjudicateAll bool) *BookingSvc {
	return &BookingSvc{repo: repo, escrow: escrow, pub: pub, codes: codes, now: time.Now, adjudicateAll: adjudicateAll}
}

type CreateBookingInput struct {
	OwnerID      string
	RentalItemID string
	Amount       int64
	ServiceFee   int64
	Method       string
	Account      string
	Requirements json.RawMessage
}

func validatePaymentMethod(method, account string) error {
	switch method {
	case "EVC_PLUS":
		if !isDigits(account) || len(account) < 9 || len(account) > 10 {
			return fmt.Errorf("%w: EVC+ number must be 9-10 digits", domain.ErrValidation)
		}
	case "BANK":
		if !isDigits(account) || len(account) < 10 {
			return fmt.Errorf("%w: bank account number invalid", domain.ErrValidation)
		}
	case "CARD":
		if account == "" {
			return fmt.Errorf("%w: card token required", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unsupported payment method", domain.ErrValidation)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Create opens a booking in PENDING with its escrow record, funds not yet
// captured.
func (s *BookingSvc) Create(ctx context.Context, renterID string, in CreateBookingInput) (*domain.Booking, *domain.Payment, error) {
	if renterID == "" || in.OwnerID == "" || in.RentalItemID == "" {
		return nil, nil, fmt.Errorf("%w: renter, owner and rental item are required", domain.ErrValidation)
	}
	if in.OwnerID == renterID {
		return nil, nil, fmt.Errorf("%w: cannot rent your own item", domain.ErrValidation)
	}
	if in.Amount <= 0 || in.ServiceFee < 0 {
		return nil, nil, fmt.Errorf("%w: invalid amount", domain.ErrValidation)
	}
	if err := validatePaymentMethod(in.Method, in.Account); err != nil {
		return nil, nil, err
	}
	b := &domain.Booking{
		RenterID:         renterID,
		OwnerID:          in.OwnerID,
		RentalItemID:     in.RentalItemID,
		Status:           domain.BookingPending,
		RequirementsData: string(in.Requirements),
	}
	p := &domain.Payment{
		Amount:      in.Amount,
		ServiceFee:  in.ServiceFee,
		TotalAmount: in.Amount + in.ServiceFee,
		Method:      in.Method,
		Account:     in.Account,
		Status:      domain.PaymentPending,
	}
	if err := s.repo.Create(ctx, b, p); err != nil {
		return nil, nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKBookingCreated, events.BookingCreated{
		BookingID:   b.ID,
		RenterID:    b.RenterID,
		OwnerID:     b.OwnerID,
		ItemID:      b.RentalItemID,
		TotalAmount: p.TotalAmount,
	})
	return b, p, nil
}

// Accept moves PENDING -> ACCEPTED: the owner takes the booking, funds are
// captured into escrow and the confirmation code is issued with a 24h window.
func (s *BookingSvc) Accept(ctx context.Context, actorID string, bookingID int64) (*domain.Booking, error) {
	b, _, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if b.Status != domain.BookingPending {
			return domain.ErrInvalidTransition
		}
		if b.OwnerID != actorID {
			return domain.ErrForbidden
		}
		// capture first: if it fails only the FAILED payment lands and the
		// booking stays PENDING
		if err := s.escrow.holdLocked(ctx, b, p); err != nil {
			return err
		}
		code, err := s.codes.Code()
		if err != nil {
			return err
		}
		now := s.now()
		expiry := now.Add(codeTTL)
		b.ConfirmationCode = code
		b.CodeExpiry = &expiry
		b.OwnerAcceptedAt = &now
		b.Status = domain.BookingAccepted
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			s.escrow.publishFailed(ctx, b, "capture", err)
		}
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKBookingAccepted, events.BookingAccepted{
		BookingID:  b.ID,
		CodeExpiry: b.CodeExpiry.Unix(),
	})
	return b, nil
}

// Reject moves PENDING -> REJECTED and refunds the renter. A rejected booking
// never carries a confirmation code.
func (s *BookingSvc) Reject(ctx context.Context, actorID string, bookingID int64, reason string) (*domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}
	b, _, err := mutateKeepFailed(ctx, s.repo, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if b.Status != domain.BookingPending {
			return domain.ErrInvalidTransition
		}
		if b.OwnerID != actorID {
			return domain.ErrForbidden
		}
		// rejection stands even if the gateway refund fails; the payment
		// lands FAILED and is retried out of band
		b.Status = domain.BookingRejected
		b.RejectionReason = reason
		b.ConfirmationCode = ""
		b.CodeExpiry = nil
		return s.escrow.refundLocked(ctx, b, p, reason, false)
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			s.escrow.publishFailed(ctx, b, "refund", err)
		}
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKBookingRejected, events.BookingRejected{
		BookingID: b.ID,
		Reason:    reason,
	})
	return b, nil
}

// Dispute flags an accepted booking and pushes its held payment into the
// admin worklist.
func (s *BookingSvc) Dispute(ctx context.Context, actorID string, bookingID int64, reason string) (*domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: dispute reason is required", domain.ErrValidation)
	}
	b, _, err := s.repo.Mutate(ctx, bookingID, func(b *domain.Booking, p *domain.Payment) error {
		if b.RenterID != actorID && b.OwnerID != actorID {
			return domain.ErrForbidden
		}
		if b.Status != domain.BookingAccepted {
			return domain.ErrInvalidTransition
		}
		if err := s.escrow.queueLocked(p); err != nil {
			return err
		}
		b.Status = domain.BookingDisputed
		b.DisputeReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKBookingDisputed, events.BookingDisputed{
		BookingID: b.ID,
		Reason:    reason,
	})
	return b, nil
}

// markDeliveredLocked closes the delivery exchange. Auto-released bookings
// complete immediately; payments kept for adjudication leave the booking at
// DELIVERED until the admin decides.
func (s *BookingSvc) markDeliveredLocked(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	if b.Status != domain.BookingAccepted {
		return domain.ErrInvalidTransition
	}
	b.Status = domain.BookingDelivered
	if s.adjudicateAll || p.QueuedForReview {
		return s.escrow.queueLocked(p)
	}
	if err := s.escrow.releaseLocked(ctx, b, p); err != nil {
		return err
	}
	b.Status = domain.BookingCompleted
	return nil
}

// Get returns the flat snapshot of a booking. Only the two parties and admins
// may read it; the confirmation code is redacted for admins.
func (s *BookingSvc) Get(ctx context.Context, actorID string, isAdmin bool, bookingID int64) (domain.Snapshot, error) {
	b, p, err := s.repo.ByID(ctx, bookingID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if !isAdmin && b.RenterID != actorID && b.OwnerID != actorID {
		return domain.Snapshot{}, domain.ErrForbidden
	}
	return domain.NewSnapshot(b, p, isAdmin), nil
}

func (s *BookingSvc) ListForRenter(ctx context.Context, renterID string, page, size int) ([]domain.Booking, int64, error) {
	return s.repo.ListByRenter(ctx, renterID, page, size)
}

func (s *BookingSvc) ListForOwner(ctx context.Context, ownerID string, page, size int) ([]domain.Booking, int64, error) {
	return s.repo.ListByOwner(ctx, ownerID, page, size)
}
