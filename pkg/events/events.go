package events

import (
	"context"
	"time"

	"bkhost/pkg/kafka"
	"bkhost/pkg/logger"
)

const (
	AppointmentDeleted        = "appointment.deleted"
	AppointmentPaymentChanged = "appointment.payment_changed"
	AppointmentStatusChanged  = "appointment.status_changed"
	AvailabilityDateOpened    = "availability.date_opened"
	AvailabilityDateClosed    = "availability.date_closed"
	ShiftHostsChanged         = "shift.hosts_changed"
	WalkInRecorded            = "walkin.recorded"

	SchemaVersion = "1"
)

type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// Publisher emits domain events. Delivery is best effort: failures are
// logged and never fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type MessageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer      MessageProducer
	source        string
	correlationID func(ctx context.Context) string
	log           *logger.Logger
}

func NewKafkaPublisher(producer MessageProducer, source string, correlationID func(ctx context.Context) string, log *logger.Logger) *KafkaPublisher {
	if correlationID == nil {
		correlationID = func(context.Context) string { return "" }
	}
	return &KafkaPublisher{producer: producer, source: source, correlationID: correlationID, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Key).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(p.correlationID(ctx)).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		p.log.Warn("Failed to build domain event", "event_type", event.Type, "key", event.Key, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish domain event", "event_type", event.Type, "key", event.Key, "error", err)
	}
}

// NopPublisher is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Recorder keeps published events in memory. Used by tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.Events = append(r.Events, event)
}

func (r *Recorder) Types() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
