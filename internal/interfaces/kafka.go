package interfaces

import (
	"context"
)

const (
	SinkKindEvent     = "event"
	SinkKindScan      = "scan"
	SinkKindInference = "inference"
)

// EventSink определяет контракт для отправки данных во внешние системы (Kafka, MQTT)
type EventSink interface {
	Name() string
	Publish(ctx context.Context, kind, key string, value []byte) error
	Close() error
}
