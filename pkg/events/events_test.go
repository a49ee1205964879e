package events

import (
	"context"
	"errors"
	"testing"

	"bkhost/pkg/kafka"
	"bkhost/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	published []kafka.Message
	err       error
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return m.err
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	pub := NewKafkaPublisher(producer, "bkhost-api", func(context.Context) string { return "req-42" }, logger.Discard())

	pub.Publish(context.Background(), Event{
		Type:  AvailabilityDateOpened,
		Key:   "2025-06-02",
		Actor: "admin@example.org",
		Data:  map[string]int{"slots": 8},
	})

	require.Len(t, producer.published, 1)
	msg := producer.published[0]
	assert.Equal(t, "2025-06-02", msg.Key)
	assert.Equal(t, AvailabilityDateOpened, msg.GetEventType())
	assert.Equal(t, "req-42", msg.GetCorrelationID())
	assert.Equal(t, "bkhost-api", msg.Headers[kafka.HeaderSource])

	var decoded Event
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, "admin@example.org", decoded.Actor)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestKafkaPublisher_FailureIsSwallowed(t *testing.T) {
	producer := &mockProducer{err: errors.New("broker down")}
	pub := NewKafkaPublisher(producer, "bkhost-api", nil, logger.Discard())

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), Event{Type: WalkInRecorded, Key: "w1"})
	})
	assert.Len(t, producer.published, 1)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var p Publisher = r
	p.Publish(context.Background(), Event{Type: ShiftHostsChanged})
	NopPublisher{}.Publish(context.Background(), Event{Type: ShiftHostsChanged})

	assert.Equal(t, []string{ShiftHostsChanged}, r.Types())
}
