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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carverauto/netpulse/pkg/logger"
)

// Duration is a time.Duration that decodes from "30s" style strings.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML config files.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	*d = Duration(dur)

	return nil
}

// CNPGDatabase holds Postgres connection settings.
type CNPGDatabase struct {
	Host              string            `json:"host" yaml:"host"`
	Port              int               `json:"port" yaml:"port"`
	Database          string            `json:"database" yaml:"database"`
	Username          string            `json:"username" yaml:"username"`
	Password          string            `json:"password" yaml:"password" sensitive:"true"`
	SSLMode           string            `json:"ssl_mode" yaml:"ssl_mode"`
	ApplicationName   string            `json:"application_name" yaml:"application_name"`
	MaxConnections    int32             `json:"max_connections" yaml:"max_connections"`
	MinConnections    int32             `json:"min_connections" yaml:"min_connections"`
	MaxConnLifetime   Duration          `json:"max_conn_lifetime" yaml:"max_conn_lifetime"`
	HealthCheckPeriod Duration          `json:"health_check_period" yaml:"health_check_period"`
	StatementTimeout  Duration          `json:"statement_timeout" yaml:"statement_timeout"`
	RuntimeParams     map[string]string `json:"runtime_params" yaml:"runtime_params"`
	Migrate           bool              `json:"migrate" yaml:"migrate"`
}

// RedisConfig configures the cache and the optional Redis event bus.
type RedisConfig struct {
	Addr         string   `json:"addr" yaml:"addr"`
	Password     string   `json:"password" yaml:"password" sensitive:"true"`
	DB           int      `json:"db" yaml:"db"`
	DialTimeout  Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout" yaml:"write_timeout"`
}

// TLSConfig holds the client certificate, key and CA for mutual TLS.
type TLSConfig struct {
	CertFile   string `json:"cert_file" yaml:"cert_file"`
	KeyFile    string `json:"key_file" yaml:"key_file"`
	CAFile     string `json:"ca_file" yaml:"ca_file"`
	ServerName string `json:"server_name" yaml:"server_name"`
}

// NATSConfig configures the JetStream event bus. TLS enables mTLS.
type NATSConfig struct {
	URL    string     `json:"url" yaml:"url"`
	Stream string     `json:"stream" yaml:"stream"`
	Domain string     `json:"domain" yaml:"domain"`
	TLS    *TLSConfig `json:"tls,omitempty" yaml:"tls,omitempty"`
}

const (
	EventsBackendNATS  = "nats"
	EventsBackendRedis = "redis"
	EventsBackendNone  = "none"
)

// EventsConfig selects the publish/subscribe backend.
type EventsConfig struct {
	Backend        string   `json:"backend" yaml:"backend"`
	PublishTimeout Duration `json:"publish_timeout" yaml:"publish_timeout"`
}

// MQTTConfig configures the single-sample MQTT ingestion listener.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Broker      string `json:"broker" yaml:"broker"`
	ClientID    string `json:"client_id" yaml:"client_id"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password" sensitive:"true"`
	TopicPrefix string `json:"topic_prefix" yaml:"topic_prefix"`
	QoS         byte   `json:"qos" yaml:"qos"`
}

// KafkaConfig configures the bulk ingestion consumer.
type KafkaConfig struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	Brokers       []string `json:"brokers" yaml:"brokers"`
	Topic         string   `json:"topic" yaml:"topic"`
	GroupID       string   `json:"group_id" yaml:"group_id"`
	MaxBatch      int      `json:"max_batch" yaml:"max_batch"`
	FlushInterval Duration `json:"flush_interval" yaml:"flush_interval"`
}

// RollupConfig schedules periodic aggregate creation.
type RollupConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled"`
	HourlyInterval Duration `json:"hourly_interval" yaml:"hourly_interval"`
	DailyInterval  Duration `json:"daily_interval" yaml:"daily_interval"`
}

// ThresholdConfig overrides one metric's alert levels.
type ThresholdConfig struct {
	Warning  float64 `json:"warning" yaml:"warning"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// RelayConfig configures the websocket broadcast process.
type RelayConfig struct {
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	Path       string `json:"path" yaml:"path"`
}

// ServiceConfig configures the ingestion process (cmd/netpulse). A nil Redis
// section selects the in-process cache.
type ServiceConfig struct {
	Logging    *logger.Config             `json:"logging" yaml:"logging"`
	CNPG       *CNPGDatabase              `json:"cnpg" yaml:"cnpg"`
	Redis      *RedisConfig               `json:"redis" yaml:"redis"`
	Events     EventsConfig               `json:"events" yaml:"events"`
	NATS       *NATSConfig                `json:"nats" yaml:"nats"`
	MQTT       *MQTTConfig                `json:"mqtt" yaml:"mqtt"`
	Kafka      *KafkaConfig               `json:"kafka" yaml:"kafka"`
	Rollup     RollupConfig               `json:"rollup" yaml:"rollup"`
	Thresholds map[string]ThresholdConfig `json:"thresholds" yaml:"thresholds"`
}

// RelayServiceConfig configures the websocket broadcast process (cmd/relay).
type RelayServiceConfig struct {
	Logging *logger.Config `json:"logging" yaml:"logging"`
	Redis   *RedisConfig   `json:"redis" yaml:"redis"`
	Events  EventsConfig   `json:"events" yaml:"events"`
	NATS    *NATSConfig    `json:"nats" yaml:"nats"`
	Relay   RelayConfig    `json:"relay" yaml:"relay"`
}

var (
	errMissingCNPG      = errors.New("cnpg configuration is required")
	errMissingRedis     = errors.New("redis configuration is required for the redis events backend")
	errMissingNATS      = errors.New("nats configuration is required for the nats events backend")
	errUnknownBackend   = errors.New("unknown events backend")
	errKafkaBatchTooBig = errors.New("kafka max_batch exceeds the bulk ingestion limit")
	errRelayNoneBackend = errors.New("the relay needs a nats or redis events backend")
)

// MaxBatchSize bounds a single bulk ingestion call.
const MaxBatchSize = 1000

const (
	defaultStreamName     = "netpulse-events"
	defaultPublishTimeout = 2 * time.Second
	defaultRelayAddr      = ":8090"
	defaultRelayPath      = "/ws"
)

// validateEvents defaults the backend to nats and checks its section exists.
func validateEvents(events *EventsConfig, nats *NATSConfig, redis *RedisConfig) error {
	if events.Backend == "" {
		events.Backend = EventsBackendNATS
	}

	switch events.Backend {
	case EventsBackendNATS:
		if nats == nil || nats.URL == "" {
			return errMissingNATS
		}

		if nats.Stream == "" {
			nats.Stream = defaultStreamName
		}
	case EventsBackendRedis:
		if redis == nil {
			return errMissingRedis
		}
	case EventsBackendNone:
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, events.Backend)
	}

	if events.PublishTimeout <= 0 {
		events.PublishTimeout = Duration(defaultPublishTimeout)
	}

	return nil
}

// Validate checks required sections and fills defaults.
func (c *ServiceConfig) Validate() error {
	if c.CNPG == nil {
		return errMissingCNPG
	}

	if err := validateEvents(&c.Events, c.NATS, c.Redis); err != nil {
		return err
	}

	if c.Kafka != nil {
		if c.Kafka.MaxBatch <= 0 {
			c.Kafka.MaxBatch = MaxBatchSize
		}

		if c.Kafka.MaxBatch > MaxBatchSize {
			return errKafkaBatchTooBig
		}

		if c.Kafka.FlushInterval <= 0 {
			c.Kafka.FlushInterval = Duration(5 * time.Second)
		}
	}

	if c.Rollup.HourlyInterval <= 0 {
		c.Rollup.HourlyInterval = Duration(time.Hour)
	}

	if c.Rollup.DailyInterval <= 0 {
		c.Rollup.DailyInterval = Duration(24 * time.Hour)
	}

	if c.MQTT != nil && c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "netpulse"
	}

	return nil
}

// Validate checks the relay has a subscribable backend and fills defaults.
func (c *RelayServiceConfig) Validate() error {
	if err := validateEvents(&c.Events, c.NATS, c.Redis); err != nil {
		return err
	}

	if c.Events.Backend == EventsBackendNone {
		return errRelayNoneBackend
	}

	if c.Relay.ListenAddr == "" {
		c.Relay.ListenAddr = defaultRelayAddr
	}

	if c.Relay.Path == "" {
		c.Relay.Path = defaultRelayPath
	}

	return nil
}
