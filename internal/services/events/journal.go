package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	"github.com/iwtcode/inspectionService/internal/services/kafka"
	"github.com/iwtcode/inspectionService/internal/services/mqtt"
)

const (
	publishQueue   = 256
	publishTimeout = 5 * time.Second
)

type outbound struct {
	kind  string
	key   string
	value []byte
}

// Journal - кольцевой журнал событий контроллера. Каждое событие
// уходит в websocket и во внешние приемники (Kafka, MQTT).
type Journal struct {
	logger *logging.Logger
	hub    *Hub
	sinks  []interfaces.EventSink

	mu    sync.RWMutex
	ring  []models.Event
	next  int
	count int

	queue     chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

func NewJournal(capacity int, hub *Hub, sinks []interfaces.EventSink, logger *logging.Logger) *Journal {
	if capacity <= 0 {
		capacity = 200
	}
	if logger == nil {
		logger = logging.Nop()
	}
	j := &Journal{
		logger: logger.WithPrefix("EVENTS"),
		hub:    hub,
		sinks:  sinks,
		ring:   make([]models.Event, capacity),
		queue:  make(chan outbound, publishQueue),
		done:   make(chan struct{}),
	}
	go j.publishLoop()
	return j
}

// Record добавляет событие в журнал. Никогда не блокируется на приемниках.
func (j *Journal) Record(kind models.EventType, message string) {
	ev := models.Event{
		ID:    uuid.NewString(),
		Time:  time.Now(),
		Event: message,
		Type:  kind,
	}

	j.mu.Lock()
	j.ring[j.next] = ev
	j.next = (j.next + 1) % len(j.ring)
	if j.count < len(j.ring) {
		j.count++
	}
	j.mu.Unlock()

	if j.hub != nil {
		j.hub.Broadcast("journal", ev)
	}
	j.Publish(interfaces.SinkKindEvent, ev.ID, ev)
}

// List возвращает до limit последних событий, новые первыми. limit <= 0 - все.
func (j *Journal) List(limit int) []models.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := j.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Event, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, j.ring[(j.next-i+len(j.ring))%len(j.ring)])
	}
	return out
}

// Publish ставит полезную нагрузку в очередь отправки во внешние приемники и в websocket.
// При переполненной очереди сообщение отбрасывается.
func (j *Journal) Publish(kind, key string, payload interface{}) {
	if kind != interfaces.SinkKindEvent && j.hub != nil {
		j.hub.Broadcast(kind, payload)
	}
	if len(j.sinks) == 0 {
		return
	}
	value, err := json.Marshal(payload)
	if err != nil {
		j.logger.Error("Failed to encode outbound message", "kind", kind, "error", err)
		return
	}
	select {
	case j.queue <- outbound{kind: kind, key: key, value: value}:
	case <-j.done:
	default:
		j.logger.Warn("Outbound queue full, message dropped", "kind", kind, "key", key)
	}
}

func (j *Journal) publishLoop() {
	for {
		select {
		case <-j.done:
			return
		case msg := <-j.queue:
			for _, sink := range j.sinks {
				ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
				if err := sink.Publish(ctx, msg.kind, msg.key, msg.value); err != nil {
					j.logger.Warn("Failed to publish", "sink", sink.Name(), "kind", msg.kind, "error", err)
				}
				cancel()
			}
		}
	}
}

// Close останавливает отправку и закрывает приемники
func (j *Journal) Close() error {
	j.closeOnce.Do(func() {
		close(j.done)
		for _, sink := range j.sinks {
			if err := sink.Close(); err != nil {
				j.logger.Warn("Failed to close sink", "sink", sink.Name(), "error", err)
			}
		}
		if j.hub != nil {
			j.hub.Close()
		}
	})
	return nil
}

// NewSinks собирает включенные в конфигурации приемники.
// Недоступный MQTT-брокер не мешает запуску.
func NewSinks(cfg *config.AppConfig, logger *logging.Logger) []interfaces.EventSink {
	var sinks []interfaces.EventSink
	if cfg.Kafka.Enable {
		sinks = append(sinks, kafka.NewKafkaProducer(cfg.Kafka))
		logger.Info("Kafka sink enabled", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic)
	}
	if cfg.Mqtt.Enable {
		sink, err := mqtt.NewPublisher(cfg.Mqtt, logger)
		if err != nil {
			logger.Error("MQTT sink disabled", "error", err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

func NewEventJournal(cfg *config.AppConfig, hub *Hub, sinks []interfaces.EventSink, logger *logging.Logger) *Journal {
	return NewJournal(cfg.Events.Capacity, hub, sinks, logger)
}
