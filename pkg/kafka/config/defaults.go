package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all replicas
	DefaultProducerCompression  = "snappy"

	// Domain events are fire-and-forget, so the request path never waits on the broker.
	DefaultProducerAsync = true

	DefaultEnableMiddleware = true
)
