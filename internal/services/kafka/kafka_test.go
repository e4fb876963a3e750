package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwtcode/inspectionService/internal/config"
)

func TestNewMessageCarriesKindHeader(t *testing.T) {
	msg := newMessage("scan", "a1b2", []byte(`{"id":"a1b2"}`))

	assert.Equal(t, []byte("a1b2"), msg.Key)
	assert.Equal(t, []byte(`{"id":"a1b2"}`), msg.Value)
	if assert.Len(t, msg.Headers, 1) {
		assert.Equal(t, kindHeader, msg.Headers[0].Key)
		assert.Equal(t, "scan", string(msg.Headers[0].Value))
	}
}

func TestProducerName(t *testing.T) {
	p := NewKafkaProducer(config.KafkaConfig{Broker: "localhost:9092", Topic: "inspection_events"})
	assert.Equal(t, "kafka", p.Name())
	assert.NoError(t, p.Close())
}
