package kafka

import (
	"context"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

const kindHeader = "kind"

type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer создает новый экземпляр продюсера Kafka
func NewKafkaProducer(cfg config.KafkaConfig) interfaces.EventSink {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: writer}
}

func (p *KafkaProducer) Name() string { return "kafka" }

// Publish отправляет сообщение в Kafka. Вид сообщения (event/scan) передается в заголовке.
func (p *KafkaProducer) Publish(ctx context.Context, kind, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, newMessage(kind, key, value))
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

func newMessage(kind, key string, value []byte) kafka.Message {
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: kindHeader, Value: []byte(kind)}},
	}
}
