/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

const (
	kindTelemetry = "telemetry"
	kindHeartbeat = "heartbeat"

	mqttConnectTimeout = 10 * time.Second
	mqttHandleTimeout  = 5 * time.Second
	mqttQuiesceMillis  = 250
)

// MQTTListener subscribes to <prefix>/+/telemetry and <prefix>/+/heartbeat.
type MQTTListener struct {
	cfg        *models.MQTTConfig
	ingester   sampleIngester
	heartbeats heartbeater
	log        logger.Logger

	mu     sync.Mutex
	client mqtt.Client
	ctx    context.Context //nolint:containedctx // paho callbacks carry no context
}

func NewMQTTListener(cfg *models.MQTTConfig, ingester sampleIngester, heartbeats heartbeater, log logger.Logger) *MQTTListener {
	return &MQTTListener{
		cfg:        cfg,
		ingester:   ingester,
		heartbeats: heartbeats,
		log:        log,
		ctx:        context.Background(),
	}
}

func (l *MQTTListener) topicFilters() map[string]byte {
	return map[string]byte{
		l.cfg.TopicPrefix + "/+/" + kindTelemetry: l.cfg.QoS,
		l.cfg.TopicPrefix + "/+/" + kindHeartbeat: l.cfg.QoS,
	}
}

func (l *MQTTListener) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(l.cfg.Broker).
		SetClientID(l.cfg.ClientID).
		SetOrderMatters(false).
		SetCleanSession(false).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	if l.cfg.Username != "" {
		opts.SetUsername(l.cfg.Username)
	}

	if l.cfg.Password != "" {
		opts.SetPassword(l.cfg.Password)
	}

	// Subscriptions are re-established on every (re)connect.
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.SubscribeMultiple(l.topicFilters(), func(_ mqtt.Client, msg mqtt.Message) {
			l.handle(msg.Topic(), msg.Payload())
		})
		if token.Wait() && token.Error() != nil {
			l.log.Error().Err(token.Error()).Msg("mqtt subscribe failed")
			return
		}

		l.log.Info().Str("broker", l.cfg.Broker).Str("prefix", l.cfg.TopicPrefix).Msg("mqtt subscribed")
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		l.log.Warn().Err(err).Msg("mqtt connection lost")
	})

	return opts
}

// Start connects to the broker. Message handling uses ctx as its parent.
func (l *MQTTListener) Start(ctx context.Context) error {
	if l.cfg.Broker == "" {
		return errNoBroker
	}

	l.mu.Lock()
	l.ctx = ctx
	l.client = mqtt.NewClient(l.clientOptions())
	client := l.client
	l.mu.Unlock()

	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return fmt.Errorf("mqtt connect to %s: timed out", l.cfg.Broker)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", l.cfg.Broker, err)
	}

	return nil
}

func (l *MQTTListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		l.client.Disconnect(mqttQuiesceMillis)
		l.client = nil
	}
}

// parseTopic splits <prefix>/<deviceId>/<kind>.
func parseTopic(prefix, topic string) (deviceID, kind string, err error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", errTopicInvalid, topic)
	}

	deviceID, kind, ok = strings.Cut(rest, "/")
	if !ok || deviceID == "" || strings.Contains(kind, "/") {
		return "", "", fmt.Errorf("%w: %s", errTopicInvalid, topic)
	}

	return deviceID, kind, nil
}

func (l *MQTTListener) handle(topic string, payload []byte) {
	deviceID, kind, err := parseTopic(l.cfg.TopicPrefix, topic)
	if err != nil {
		l.log.Warn().Err(err).Msg("dropping mqtt message")
		return
	}

	l.mu.Lock()
	parent := l.ctx
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, mqttHandleTimeout)
	defer cancel()

	switch kind {
	case kindTelemetry:
		l.handleTelemetry(ctx, deviceID, payload)
	case kindHeartbeat:
		l.handleHeartbeat(ctx, deviceID)
	default:
		l.log.Debug().Str("topic", topic).Msg("ignoring mqtt topic")
	}
}

func (l *MQTTListener) handleTelemetry(ctx context.Context, deviceID string, payload []byte) {
	var input models.TelemetryInput

	if err := json.Unmarshal(payload, &input); err != nil {
		l.log.Warn().Err(err).Str("device_id", deviceID).Msg("dropping malformed telemetry")
		return
	}

	// The topic names the device; a body deviceId is ignored.
	input.DeviceID = deviceID

	if _, err := l.ingester.Ingest(ctx, &input); err != nil {
		l.log.Error().Err(err).Str("device_id", deviceID).Msg("mqtt telemetry ingest failed")
	}
}

func (l *MQTTListener) handleHeartbeat(ctx context.Context, deviceID string) {
	_, err := l.heartbeats.Heartbeat(ctx, deviceID)

	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		l.log.Debug().Str("device_id", deviceID).Msg("heartbeat for unknown device")
	default:
		l.log.Error().Err(err).Str("device_id", deviceID).Msg("heartbeat failed")
	}
}
