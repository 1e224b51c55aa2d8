// Package publisher mirrors broadcast readings onto an MQTT broker so
// external consumers (e.g. a home-automation hub) can follow the feed.
package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/InsiderP/smart-energy/internal/config"
	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/observability/metrics"
)

const publishTimeout = 5 * time.Second

// MQTTPublisher publishes each reading to <prefix>/<deviceId>.
type MQTTPublisher struct {
	client      mqtt.Client
	topicPrefix string
	logger      *log.Logger
}

// New connects to the configured broker. Returns an error when the
// broker is unreachable; callers treat the publisher as optional and
// should only construct it when MQTT is enabled.
func New(cfg config.MQTTConfig, logger *log.Logger) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker address is required when enabled")
	}

	topicPrefix := cfg.TopicPrefix
	if topicPrefix == "" {
		topicPrefix = "smart-energy"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "smart-energy"
	}

	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to mqtt broker: %w", token.Error())
	}

	return &MQTTPublisher{client: client, topicPrefix: topicPrefix, logger: logger}, nil
}

// PublishReading implements simulator.ReadingSink. Publish failures
// are logged and never propagate into the tick.
func (p *MQTTPublisher) PublishReading(reading energy.Reading) {
	if p == nil || p.client == nil {
		return
	}

	payload, err := json.Marshal(reading)
	if err != nil {
		metrics.SidePublish(metrics.ResultError)
		if p.logger != nil {
			p.logger.Printf("mqtt marshal error: device=%s err=%v", reading.DeviceID, err)
		}
		return
	}

	topic := fmt.Sprintf("%s/%s", p.topicPrefix, reading.DeviceID)
	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
		metrics.SidePublish(metrics.ResultError)
		if p.logger != nil {
			p.logger.Printf("mqtt publish error: topic=%s err=%v", topic, token.Error())
		}
		return
	}
	metrics.SidePublish(metrics.ResultSuccess)
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p != nil && p.client != nil {
		p.client.Disconnect(250)
	}
}
