package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medipoint/clinic-api/pkg/messaging"
)

// Channel is the broker channel submission notices are published on.
const Channel = "clinic_requests.notifications"

// Notifier is the fire-and-forget side channel invoked after a request is
// admitted. Implementations must be safe to fail: the caller logs the error
// and moves on.
type Notifier interface {
	Notify(ctx context.Context, patientID, patientName string, requestID uuid.UUID) error
}

// Message is the payload published for the notification worker.
type Message struct {
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	RequestID   uuid.UUID `json:"request_id"`
}

// LogNotifier writes a log line instead of delivering anything. Used when
// no broker is configured and in tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, patientID, patientName string, requestID uuid.UUID) error {
	log.Info().
		Str("request_id", requestID.String()).
		Str("patient_id", patientID).
		Str("patient_name", patientName).
		Msg("clinic request submitted")
	return nil
}

// BrokerNotifier hands the notice to the message broker; the notification
// worker delivers it out of band.
type BrokerNotifier struct {
	broker messaging.Broker
}

func NewBrokerNotifier(broker messaging.Broker) *BrokerNotifier {
	return &BrokerNotifier{broker: broker}
}

func (n *BrokerNotifier) Notify(ctx context.Context, patientID, patientName string, requestID uuid.UUID) error {
	return n.broker.Publish(ctx, Channel, &Message{
		PatientID:   patientID,
		PatientName: patientName,
		RequestID:   requestID,
	})
}
