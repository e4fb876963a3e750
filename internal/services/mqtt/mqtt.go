package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
	qos            = 1
)

// Publisher публикует события и записи сканирований в MQTT-брокер.
// Топики: <prefix>/events и <prefix>/scans.
type Publisher struct {
	client    paho.Client
	prefix    string
	connected atomic.Bool
	logger    *logging.Logger
}

func NewPublisher(cfg config.MqttConfig, logger *logging.Logger) (interfaces.EventSink, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	p := &Publisher{prefix: cfg.TopicPrefix, logger: logger.WithPrefix("MQTT")}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.OnConnect = func(paho.Client) {
		p.connected.Store(true)
		p.logger.Info("MQTT connection established", "broker", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		p.connected.Store(false)
		p.logger.Warn("MQTT connection lost, will auto-reconnect", "error", err)
	}

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		// с ConnectRetry клиент продолжит попытки в фоне
		p.logger.Warn("MQTT broker not reachable yet, retrying in background", "broker", cfg.Broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MQTT '%s': %w", cfg.Broker, err)
	}
	return p, nil
}

func (p *Publisher) Name() string { return "mqtt" }

// Topic возвращает топик для вида сообщения
func Topic(prefix, kind string) string {
	if kind == interfaces.SinkKindScan {
		return prefix + "/scans"
	}
	return prefix + "/events"
}

func (p *Publisher) Publish(ctx context.Context, kind, _ string, value []byte) error {
	if !p.connected.Load() {
		return fmt.Errorf("mqtt не подключен")
	}
	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	token := p.client.Publish(Topic(p.prefix, kind), qos, false, value)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("таймаут публикации в mqtt")
	}
	return token.Error()
}

func (p *Publisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
