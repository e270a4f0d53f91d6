package gateway

import (
	"context"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Omise bills in integer subunits, same as the ledger, so amounts pass
// through unconverted.
type Omise struct {
	client   *omise.Client
	currency string
}

func NewOmise(publicKey, secretKey, currency string) (*Omise, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, err
	}
	c.SetDebug(false)
	return &Omise{client: c, currency: currency}, nil
}

func (o *Omise) Capture(ctx context.Context, bookingID int64, amount int64, method, account string) (string, error) {
	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:   amount,
		Currency: o.currency,
		Card:     account,
		Metadata: map[string]any{"booking_id": bookingID, "method": method},
	}
	if err := o.client.Do(ch, req); err != nil {
		return "", fmt.Errorf("omise charge: %w", err)
	}
	if string(ch.Status) != "successful" {
		var reason string
		if ch.FailureCode != nil {
			reason = *ch.FailureCode
		}
		return "", fmt.Errorf("omise charge %s: status=%s code=%s", ch.ID, ch.Status, reason)
	}
	return ch.ID, nil
}

func (o *Omise) Payout(ctx context.Context, ref string, amount int64, account string) error {
	tr := &omise.Transfer{}
	req := &operations.CreateTransfer{
		Amount:    amount,
		Recipient: account,
	}
	if err := o.client.Do(tr, req); err != nil {
		return fmt.Errorf("omise transfer (charge=%s): %w", ref, err)
	}
	return nil
}

func (o *Omise) Refund(ctx context.Context, ref string, amount int64) error {
	rf := &omise.Refund{}
	req := &operations.CreateRefund{
		ChargeID: ref,
		Amount:   amount,
	}
	if err := o.client.Do(rf, req); err != nil {
		return fmt.Errorf("omise refund charge=%s: %w", ref, err)
	}
	return nil
}
