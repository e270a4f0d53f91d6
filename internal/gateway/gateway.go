// Package gateway abstracts the payment provider behind capture/payout/refund.
// The escrow ledger records any provider error as a FAILED payment and does
// not retry.
package gateway

import "context"

type Gateway interface {
	// Capture charges the renter for the full escrow amount and returns the
	// provider's transaction reference.
	Capture(ctx context.Context, bookingID int64, amount int64, method, account string) (string, error)
	// Payout sends the owner's share out after a release decision.
	Payout(ctx context.Context, ref string, amount int64, account string) error
	// Refund returns captured funds to the renter.
	Refund(ctx context.Context, ref string, amount int64) error
}
