package notify

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/events"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
)

// Worker consumes the booking/payment event stream and fans each event out
// to the notifier as a human-readable message.
type Worker struct {
	cons     *mq.Consumer
	notifier Notifier
}

func NewWorker(cons *mq.Consumer, n Notifier) *Worker {
	return &Worker{cons: cons, notifier: n}
}

func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.cons.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.handle(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKBookingCreated:
		ev, err := events.MustUnmarshal[events.BookingCreated](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Booking Requested",
			fmt.Sprintf("Booking #%d for item %s, total %d.", ev.BookingID, ev.ItemID, ev.TotalAmount))

	case events.RKBookingAccepted:
		ev, err := events.MustUnmarshal[events.BookingAccepted](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Booking Accepted",
			fmt.Sprintf("Booking #%d accepted; confirm delivery before the code expires.", ev.BookingID))

	case events.RKBookingRejected:
		ev, err := events.MustUnmarshal[events.BookingRejected](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Booking Rejected",
			fmt.Sprintf("Booking #%d was rejected: %s. Your payment will be refunded.", ev.BookingID, ev.Reason))

	case events.RKBookingDisputed:
		ev, err := events.MustUnmarshal[events.BookingDisputed](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Booking Disputed",
			fmt.Sprintf("Booking #%d is under review: %s.", ev.BookingID, ev.Reason))

	case events.RKDeliveryConfirmed:
		ev, err := events.MustUnmarshal[events.DeliveryConfirmed](d.Body)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Delivery for booking #%d confirmed by both parties.", ev.BookingID)
		if ev.Override {
			msg = fmt.Sprintf("Delivery for booking #%d confirmed by the owner after the 24h window.", ev.BookingID)
		}
		return w.notifier.Notify("Delivery Confirmed", msg)

	case events.RKPaymentApproved:
		ev, err := events.MustUnmarshal[events.PaymentApproved](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Payment Released",
			fmt.Sprintf("Booking #%d: %d released to the owner (fee %d).", ev.BookingID, ev.OwnerPayout, ev.ServiceFee))

	case events.RKPaymentRejected:
		ev, err := events.MustUnmarshal[events.PaymentRejected](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Payment Refunded",
			fmt.Sprintf("Booking #%d: %d refunded to the renter. Reason: %s", ev.BookingID, ev.Refunded, ev.Reason))

	case events.RKPaymentFailed:
		ev, err := events.MustUnmarshal[events.PaymentFailed](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Payment Failed",
			fmt.Sprintf("Booking #%d: %s failed: %s", ev.BookingID, ev.Stage, ev.Reason))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
