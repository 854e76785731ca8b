package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/kafka"
	"go.uber.org/zap"
)

// Notifier tells travellers about committed reservation changes. Delivery is
// a structured log line; a mail or push backend can replace it.
type Notifier struct {
	log *zap.Logger
}

func NewNotifier(log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{log: log}
}

func (n *Notifier) Send(ctx context.Context, event kafka.ReservationEvent) error {
	subject, err := subjectFor(event)
	if err != nil {
		n.log.Warn("ignoring reservation event", zap.String("id", event.ID), zap.Error(err))
		return nil
	}
	n.log.Info("notify traveller",
		zap.String("event_id", event.ID),
		zap.Int64("user_id", event.UserID),
		zap.String("handle", event.Handle),
		zap.String("subject", subject),
		zap.Int64s("flight_ids", event.FlightIDs))
	return nil
}

func subjectFor(event kafka.ReservationEvent) (string, error) {
	switch domain.ReservationEventType(event.Type) {
	case domain.ReservationBooked:
		return fmt.Sprintf("Your trip on %s is booked", event.Date), nil
	case domain.ReservationCancelled:
		return fmt.Sprintf("Your reservation on %s was cancelled", event.Date), nil
	default:
		return "", fmt.Errorf("unknown event type %q", event.Type)
	}
}
