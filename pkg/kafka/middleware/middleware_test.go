package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"bkhost/pkg/kafka"
	"bkhost/pkg/logger"
	"bkhost/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func buildMessage(t *testing.T, eventType string) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey("k").WithValue("v").WithEventType(eventType).Build()
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	return msg
}

func TestMetricsProducerMiddleware(t *testing.T) {
	mw := MetricsProducerMiddleware()
	ok := metrics.EventsPublished.WithLabelValues("test.metrics", "ok")
	failed := metrics.EventsPublished.WithLabelValues("test.metrics", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	msg := buildMessage(t, "test.metrics")
	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })
	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return errors.New("down") })

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestLoggingProducerMiddleware_PassesErrorThrough(t *testing.T) {
	mw := LoggingProducerMiddleware(logger.Discard())
	boom := errors.New("down")

	err := mw(context.Background(), buildMessage(t, "test.logging"), func(context.Context, kafka.Message) error { return boom })
	assert.ErrorIs(t, err, boom)
}
