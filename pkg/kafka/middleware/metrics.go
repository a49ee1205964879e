package kafka_middleware

import (
	"context"
	"time"

	"bkhost/pkg/kafka"
	"bkhost/pkg/metrics"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		eventType := msg.GetEventType()
		metrics.EventPublishDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.EventsPublished.WithLabelValues(eventType, result).Inc()

		return err
	}
}
