package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Stub is the provider used when no Omise keys are configured: every call
// succeeds and is recorded. Tests flip the Fail* switches to exercise the
// FAILED paths.
type Stub struct {
	mu sync.Mutex

	FailCapture bool
	FailPayout  bool
	FailRefund  bool

	Captures []StubCall
	Payouts  []StubCall
	Refunds  []StubCall
}

type StubCall struct {
	BookingID int64
	Ref       string
	Amount    int64
	Account   string
}

var errStubDeclined = errors.New("stub gateway declined")

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Capture(ctx context.Context, bookingID int64, amount int64, method, account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCapture {
		return "", errStubDeclined
	}
	ref := "stub-" + uuid.NewString()
	s.Captures = append(s.Captures, StubCall{BookingID: bookingID, Ref: ref, Amount: amount, Account: account})
	return ref, nil
}

func (s *Stub) Payout(ctx context.Context, ref string, amount int64, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPayout {
		return errStubDeclined
	}
	s.Payouts = append(s.Payouts, StubCall{Ref: ref, Amount: amount, Account: account})
	return nil
}

func (s *Stub) Refund(ctx context.Context, ref string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRefund {
		return errStubDeclined
	}
	s.Refunds = append(s.Refunds, StubCall{Ref: ref, Amount: amount})
	return nil
}
