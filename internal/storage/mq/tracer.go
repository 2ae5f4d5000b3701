package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

// kTracer propagates trace context through Kafka record headers on both the
// producing and consuming side.
var (
	tracer  = otel.Tracer("internal/storage/mq")
	kTracer = kotel.NewTracer()
)
