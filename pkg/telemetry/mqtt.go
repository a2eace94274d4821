package telemetry

import (
	"context"
	"errors"
	"fmt"
	"github.com/dancavallaro/keybridge/pkg/bridge"
	"github.com/eclipse/paho.mqtt.golang"
	"math/rand"
	"time"
)

const publishTimeout = 2 * time.Second

type Logger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}

type MQTTConfig struct {
	Username      string
	Password      string
	BrokerAddress string
	Device        string
	Logger        Logger
	DebugLogger   Logger
}

type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher reports button events on device/<name>/button and
// liveness on device/<name>/heartbeat.
type MQTTPublisher struct {
	client mqttClient
	device string
	logger Logger
}

func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerAddress)
	opts.SetClientID(generateClientId())
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)

	if cfg.Logger != nil {
		mqtt.ERROR = cfg.Logger
		mqtt.CRITICAL = cfg.Logger
		mqtt.WARN = cfg.Logger
	}
	if cfg.DebugLogger != nil {
		mqtt.DEBUG = cfg.DebugLogger
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.BrokerAddress, token.Error())
	}

	return newMQTTPublisher(client, cfg.Device, cfg.Logger), nil
}

func newMQTTPublisher(client mqttClient, device string, logger Logger) *MQTTPublisher {
	if logger == nil {
		logger = discard{}
	}
	return &MQTTPublisher{client: client, device: device, logger: logger}
}

func (pub *MQTTPublisher) ButtonTopic() string {
	return fmt.Sprintf("device/%s/button", pub.device)
}

func (pub *MQTTPublisher) HeartbeatTopic() string {
	return fmt.Sprintf("device/%s/heartbeat", pub.device)
}

// Observe publishes the command token of a forwarded event.
func (pub *MQTTPublisher) Observe(_ context.Context, event bridge.Event) {
	if err := pub.publish(pub.ButtonTopic(), event.Command.String()); err != nil {
		pub.logger.Printf("Failed to publish %v event: %v", event.Command, err)
	}
}

func (pub *MQTTPublisher) PublishHeartbeat() error {
	return pub.publish(pub.HeartbeatTopic(), "OK")
}

var ErrInvalidInterval = errors.New("heartbeat interval must be positive")

// RunHeartbeats publishes a heartbeat immediately and then every interval
// until ctx is done.
func (pub *MQTTPublisher) RunHeartbeats(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := pub.PublishHeartbeat(); err != nil {
			pub.logger.Printf("Failed to publish heartbeat: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (pub *MQTTPublisher) publish(topic string, payload string) error {
	token := pub.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	return token.Error()
}

func (pub *MQTTPublisher) Close() {
	pub.client.Disconnect(1000)
}

func generateClientId() string {
	now := time.Now().Unix()
	random := rand.Intn(1000000)
	return fmt.Sprintf("keybridge-%v-%v", now, random)
}

type discard struct{}

func (discard) Println(...interface{})        {}
func (discard) Printf(string, ...interface{}) {}
